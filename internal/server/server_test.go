package server

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/stockforge/stockforge/internal/config"
	"github.com/stockforge/stockforge/internal/database"
	"github.com/stockforge/stockforge/internal/models"
)

var sampleTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	cfg := &config.Config{
		Auth: config.AuthConfig{
			Secret:   "test-secret",
			TokenTTL: time.Hour,
		},
		Report: config.ReportConfig{
			LowStockBuffer: 5,
			TopProducts:    5,
		},
	}
	return NewServer(&database.DB{DB: mockDB}, cfg, nil), mock
}

// tokenFor issues a token the way the login handler would, without a
// storage round trip.
func tokenFor(t *testing.T, s *Server, accountID int64, role models.Role) string {
	t.Helper()
	token, err := s.generateToken(&models.Account{ID: accountID, Role: role})
	require.NoError(t, err)
	return token
}

func doJSON(s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}
