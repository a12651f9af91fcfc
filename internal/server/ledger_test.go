package server

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockforge/stockforge/internal/models"
)

func TestStockInEndpoint(t *testing.T) {
	s, mock := newTestServer(t)
	token := tokenFor(t, s, 2, models.RoleStaff)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price, quantity FROM products WHERE id = ? FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"price", "quantity"}).AddRow("5.00", 10))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET quantity = ?, total = ?, supplied_at = NOW() WHERE id = ?")).
		WithArgs(13, sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stockin (product_id, account_id, quantity, reference)")).
		WithArgs(int64(1), int64(2), 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	w := doJSON(s, http.MethodPost, "/api/v1/stock/in", token, map[string]any{"product_id": 1, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	var mv models.StockMovement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mv))
	assert.Equal(t, models.DirectionIn, mv.Direction)
	assert.Equal(t, 13, mv.NewQuantity)
	// The movement is attributed to the account on the token.
	assert.Equal(t, int64(2), mv.AccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockOutEndpointInsufficientStock(t *testing.T) {
	s, mock := newTestServer(t)
	token := tokenFor(t, s, 2, models.RoleStaff)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price, quantity FROM products WHERE id = ? FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"price", "quantity"}).AddRow("5.00", 2))
	mock.ExpectRollback()

	w := doJSON(s, http.MethodPost, "/api/v1/stock/out", token, map[string]any{"product_id": 1, "quantity": 5})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockInEndpointRejectsZeroQuantity(t *testing.T) {
	s, mock := newTestServer(t)
	token := tokenFor(t, s, 2, models.RoleStaff)

	w := doJSON(s, http.MethodPost, "/api/v1/stock/in", token, map[string]any{"product_id": 1, "quantity": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockInEndpointBadBody(t *testing.T) {
	s, _ := newTestServer(t)
	token := tokenFor(t, s, 2, models.RoleStaff)

	w := doJSON(s, http.MethodPost, "/api/v1/stock/in", token, map[string]any{"quantity": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLowStockReport(t *testing.T) {
	s, mock := newTestServer(t)
	token := tokenFor(t, s, 1, models.RoleAdmin)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE quantity <= reorder_level + ?")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "quantity", "reorder_level"}).
			AddRow(1, "DDR5 module", 6, 3).
			AddRow(2, "SATA cable", 2, 4))

	w := doJSON(s, http.MethodGet, "/api/v1/reports/low-stock", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		LowStock []models.LowStockRow `json:"low_stock"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.LowStock, 2)
	assert.Equal(t, models.SeverityWarning, resp.LowStock[0].Severity)
	assert.Equal(t, models.SeverityCritical, resp.LowStock[1].Severity)
	assert.NoError(t, mock.ExpectationsWereMet())
}
