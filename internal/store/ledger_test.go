package store

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockforge/stockforge/internal/database"
	"github.com/stockforge/stockforge/internal/models"
)

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &database.DB{DB: db}, mock
}

func TestStockInAppliesQuantityAndLedgerRow(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedgerStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price, quantity FROM products WHERE id = ? FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"price", "quantity"}).AddRow("5.00", 10))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET quantity = ?, total = ?, supplied_at = NOW() WHERE id = ?")).
		WithArgs(13, sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stockin (product_id, account_id, quantity, reference)")).
		WithArgs(int64(1), int64(7), 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	mv, err := ledger.StockIn(1, 3, 7)
	require.NoError(t, err)

	assert.Equal(t, int64(42), mv.ID)
	assert.Equal(t, models.DirectionIn, mv.Direction)
	assert.Equal(t, 13, mv.NewQuantity)
	assert.True(t, mv.NewTotal.Equal(decimal.RequireFromString("65.00")), mv.NewTotal.String())
	assert.NotEmpty(t, mv.Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockOutAppliesQuantityAndLedgerRow(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedgerStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price, quantity FROM products WHERE id = ? FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"price", "quantity"}).AddRow("5.00", 10))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET quantity = ?, total = ? WHERE id = ?")).
		WithArgs(6, sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stockout (product_id, account_id, quantity, reference)")).
		WithArgs(int64(1), int64(7), 4, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	mv, err := ledger.StockOut(1, 4, 7)
	require.NoError(t, err)

	assert.Equal(t, models.DirectionOut, mv.Direction)
	assert.Equal(t, 6, mv.NewQuantity)
	assert.True(t, mv.NewTotal.Equal(decimal.RequireFromString("30.00")), mv.NewTotal.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockOutRejectsInsufficientStock(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedgerStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price, quantity FROM products WHERE id = ? FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"price", "quantity"}).AddRow("5.00", 10))
	mock.ExpectRollback()

	_, err := ledger.StockOut(1, 20, 7)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovementsRejectNonPositiveQuantityBeforeStorage(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedgerStore(db)

	for _, qty := range []int{0, -3} {
		_, err := ledger.StockIn(1, qty, 7)
		assert.ErrorIs(t, err, ErrValidation)

		_, err = ledger.StockOut(1, qty, 7)
		assert.ErrorIs(t, err, ErrValidation)
	}

	// No Begin, no query: validation happens before any storage access.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockInUnknownProduct(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedgerStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price, quantity FROM products WHERE id = ? FOR UPDATE")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"price", "quantity"}))
	mock.ExpectRollback()

	_, err := ledger.StockIn(99, 5, 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockInRollsBackWhenLedgerInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedgerStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price, quantity FROM products WHERE id = ? FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"price", "quantity"}).AddRow("5.00", 10))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET quantity = ?, total = ?, supplied_at = NOW() WHERE id = ?")).
		WithArgs(13, sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stockin")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := ledger.StockIn(1, 3, 7)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryMergesBothDirections(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedgerStore(db)

	rows := sqlmock.NewRows([]string{"id", "direction", "product_id", "account_id", "quantity", "reference", "created_at"}).
		AddRow(5, "out", 1, 7, 2, "ref-b", sampleTime).
		AddRow(3, "in", 1, 7, 10, "ref-a", sampleTime)
	mock.ExpectQuery("FROM stockin WHERE product_id = \\?").
		WithArgs(int64(1), int64(1)).
		WillReturnRows(rows)

	movements, err := ledger.History(1)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, models.DirectionOut, movements[0].Direction)
	assert.Equal(t, models.DirectionIn, movements[1].Direction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var sampleTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
