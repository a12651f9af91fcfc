package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Cache keys for the report endpoints.
const (
	cacheKeyCategories  = "reports:categories"
	cacheKeyTopProducts = "reports:top-products"
	cacheKeyMovements   = "reports:movements"
	cacheKeyLowStock    = "reports:low-stock"
)

// serveReport answers from the cache when it can, otherwise runs the
// query and stores the rendered payload.
func (s *Server) serveReport(c *gin.Context, key string, query func() (any, error)) {
	if payload, ok := s.cache.Get(c.Request.Context(), key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	result, err := query()
	if err != nil {
		s.writeError(c, err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode report"})
		return
	}

	s.cache.Set(c.Request.Context(), key, payload)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// invalidateReports drops every cached report; mutations call it so the
// dashboard never shows stale aggregates past the cache TTL semantics.
func (s *Server) invalidateReports(c *gin.Context) {
	s.cache.Invalidate(c.Request.Context(),
		cacheKeyCategories, cacheKeyTopProducts, cacheKeyMovements, cacheKeyLowStock)
}

func (s *Server) reportCategories(c *gin.Context) {
	s.serveReport(c, cacheKeyCategories, func() (any, error) {
		counts, err := s.reports.CategoryDistribution()
		if err != nil {
			return nil, err
		}
		return gin.H{"categories": counts}, nil
	})
}

func (s *Server) reportTopProducts(c *gin.Context) {
	s.serveReport(c, cacheKeyTopProducts, func() (any, error) {
		top, err := s.reports.TopProducts(s.cfg.Report.TopProducts)
		if err != nil {
			return nil, err
		}
		return gin.H{"products": top}, nil
	})
}

func (s *Server) reportMovements(c *gin.Context) {
	s.serveReport(c, cacheKeyMovements, func() (any, error) {
		totals, err := s.reports.MovementTotals()
		if err != nil {
			return nil, err
		}
		return gin.H{"movements": totals}, nil
	})
}

func (s *Server) reportLowStock(c *gin.Context) {
	s.serveReport(c, cacheKeyLowStock, func() (any, error) {
		low, err := s.reports.LowStock(s.cfg.Report.LowStockBuffer)
		if err != nil {
			return nil, err
		}
		return gin.H{"low_stock": low}, nil
	})
}
