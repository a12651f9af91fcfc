package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockforge/stockforge/internal/cache"
	"github.com/stockforge/stockforge/internal/config"
	"github.com/stockforge/stockforge/internal/database"
	"github.com/stockforge/stockforge/internal/models"
	"github.com/stockforge/stockforge/internal/store"
)

type Server struct {
	router *gin.Engine
	db     *database.DB
	cfg    *config.Config
	cache  *cache.ReportCache

	accounts *store.AccountStore
	catalog  *store.CatalogStore
	ledger   *store.LedgerStore
	orders   *store.OrderStore
	reports  *store.ReportStore
}

// NewServer creates a new server instance
func NewServer(db *database.DB, cfg *config.Config, reportCache *cache.ReportCache) *Server {
	router := gin.Default()

	server := &Server{
		router:   router,
		db:       db,
		cfg:      cfg,
		cache:    reportCache,
		accounts: store.NewAccountStore(db),
		catalog:  store.NewCatalogStore(db),
		ledger:   store.NewLedgerStore(db),
		orders:   store.NewOrderStore(db),
		reports:  store.NewReportStore(db),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api/v1")
	{
		api.GET("/health", s.healthCheck)
		api.POST("/login", s.login)
	}

	authed := api.Group("")
	authed.Use(s.authRequired())
	{
		authed.GET("/me", s.me)

		authed.GET("/products", s.listProducts)
		authed.POST("/products", s.addProduct)
		authed.GET("/products/:id", s.getProduct)
		authed.PUT("/products/:id", s.updateProduct)
		authed.DELETE("/products/:id", s.deleteProduct)

		authed.GET("/suppliers", s.listSuppliers)
		authed.DELETE("/suppliers/:id", s.deleteSupplier)

		authed.GET("/categories", s.listCategories)
		authed.POST("/categories", s.createCategory)
		authed.PUT("/categories/:id", s.renameCategory)
		authed.DELETE("/categories/:id", s.deleteCategory)

		authed.GET("/types", s.listTypes)
		authed.POST("/types", s.createType)
		authed.DELETE("/types/:id", s.deleteType)

		authed.POST("/stock/in", s.stockIn)
		authed.POST("/stock/out", s.stockOut)
		authed.GET("/stock/history/:productID", s.stockHistory)

		authed.GET("/orders", s.listOrders)
		authed.POST("/orders", s.createOrder)
		authed.POST("/orders/:id/deliver", s.deliverOrder)
	}

	admin := authed.Group("")
	admin.Use(s.requireRole(models.RoleAdmin))
	{
		admin.GET("/accounts", s.listAccounts)
		admin.POST("/accounts", s.createAccount)
		admin.PUT("/accounts/:id", s.updateAccount)
		admin.DELETE("/accounts/:id", s.deleteAccount)

		admin.GET("/reports/categories", s.reportCategories)
		admin.GET("/reports/top-products", s.reportTopProducts)
		admin.GET("/reports/movements", s.reportMovements)
		admin.GET("/reports/low-stock", s.reportLowStock)
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	// Check database health
	if err := s.db.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "stockforge",
		"version": "0.1.0",
	})
}

// writeError maps store errors onto HTTP statuses. Anything unrecognized
// is a storage failure and surfaces verbatim as a 500.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInUse),
		errors.Is(err, store.ErrOrderNotPending):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
