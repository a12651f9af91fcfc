package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stockforge/stockforge/internal/models"
)

type accountRequest struct {
	Username  string      `json:"username"`
	Password  string      `json:"password"`
	FirstName string      `json:"fname"`
	LastName  string      `json:"lname"`
	Role      models.Role `json:"role" binding:"required"`
}

func (s *Server) listAccounts(c *gin.Context) {
	accounts, err := s.accounts.List()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (s *Server) createAccount(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	acc, err := s.accounts.Create(req.Username, req.Password, req.FirstName, req.LastName, req.Role)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, acc)
}

func (s *Server) updateAccount(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	acc, err := s.accounts.Update(id, req.FirstName, req.LastName, req.Role, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (s *Server) deleteAccount(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	if err := s.accounts.Delete(id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
