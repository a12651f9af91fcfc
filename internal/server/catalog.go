package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockforge/stockforge/internal/models"
)

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.catalog.ListProducts()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (s *Server) getProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := s.catalog.GetProduct(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) addProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := s.catalog.AddProduct(&in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.invalidateReports(c)
	c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := s.catalog.UpdateProduct(id, &in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.invalidateReports(c)
	c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := s.catalog.DeleteProduct(id); err != nil {
		s.writeError(c, err)
		return
	}
	s.invalidateReports(c)
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (s *Server) listSuppliers(c *gin.Context) {
	suppliers, err := s.catalog.ListSuppliers()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (s *Server) deleteSupplier(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}

	if err := s.catalog.DeleteSupplier(id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "supplier deleted"})
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.catalog.ListCategories()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) createCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	category, err := s.catalog.CreateCategory(req.Name)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.invalidateReports(c)
	c.JSON(http.StatusCreated, category)
}

func (s *Server) renameCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.catalog.RenameCategory(id, req.Name); err != nil {
		s.writeError(c, err)
		return
	}
	s.invalidateReports(c)
	c.JSON(http.StatusOK, gin.H{"message": "category renamed"})
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	if err := s.catalog.DeleteCategory(id); err != nil {
		s.writeError(c, err)
		return
	}
	s.invalidateReports(c)
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

func (s *Server) listTypes(c *gin.Context) {
	types, err := s.catalog.ListTypes()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

type typeRequest struct {
	Name       string `json:"name" binding:"required"`
	CategoryID int64  `json:"category_id" binding:"required"`
}

func (s *Server) createType(c *gin.Context) {
	var req typeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := s.catalog.CreateType(req.Name, req.CategoryID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) deleteType(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type id"})
		return
	}

	if err := s.catalog.DeleteType(id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "type deleted"})
}
