package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type movementRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

func (s *Server) stockIn(c *gin.Context) {
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	mv, err := s.ledger.StockIn(req.ProductID, req.Quantity, c.GetInt64(ctxAccountID))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.invalidateReports(c)
	c.JSON(http.StatusCreated, mv)
}

func (s *Server) stockOut(c *gin.Context) {
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	mv, err := s.ledger.StockOut(req.ProductID, req.Quantity, c.GetInt64(ctxAccountID))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.invalidateReports(c)
	c.JSON(http.StatusCreated, mv)
}

func (s *Server) stockHistory(c *gin.Context) {
	productID, err := pathID(c, "productID")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	movements, err := s.ledger.History(productID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements})
}

type orderRequest struct {
	SupplierID   int64  `json:"supplier_id" binding:"required"`
	ProductID    int64  `json:"product_id" binding:"required"`
	Quantity     int    `json:"quantity"`
	ExpectedDate string `json:"expected_date" binding:"required"`
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.orders.List()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) createOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	expected, err := time.Parse("2006-01-02", req.ExpectedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected_date must be YYYY-MM-DD"})
		return
	}

	order, err := s.orders.Create(req.SupplierID, req.ProductID, req.Quantity, expected)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// deliverOrder flips a pending order to delivered; the quantity lands on
// the product through the stock-in ledger path.
func (s *Server) deliverOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	mv, err := s.orders.MarkDelivered(id, c.GetInt64(ctxAccountID))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.invalidateReports(c)
	c.JSON(http.StatusOK, mv)
}
