package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/stockforge/stockforge/internal/models"
)

type claims struct {
	AccountID int64       `json:"account_id"`
	Role      models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Keys under which the middleware stores the caller's identity.
const (
	ctxAccountID = "accountID"
	ctxRole      = "role"
)

// login authenticates a username/password pair and issues a signed token
// carrying the account's role.
func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	acc, err := s.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	token, err := s.generateToken(acc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{Token: token, Role: acc.Role})
}

// me returns the caller's account details (the Account panel)
func (s *Server) me(c *gin.Context) {
	acc, err := s.accounts.Get(c.GetInt64(ctxAccountID))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (s *Server) generateToken(acc *models.Account) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		AccountID: acc.ID,
		Role:      acc.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Auth.TokenTTL)),
		},
	})
	return token.SignedString([]byte(s.cfg.Auth.Secret))
}

// authRequired rejects requests without a valid bearer token and stores
// the caller's account id and role on the context.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is missing"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token not found"})
			return
		}

		parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(s.cfg.Auth.Secret), nil
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		cl, ok := parsed.Claims.(*claims)
		if !ok || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxAccountID, cl.AccountID)
		c.Set(ctxRole, cl.Role)
		c.Next()
	}
}

// requireRole aborts with 403 unless the caller holds one of the roles
func (s *Server) requireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ctxRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}
