package store

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockforge/stockforge/internal/models"
)

func TestMarkDeliveredStocksInOrderedQuantity(t *testing.T) {
	db, mock := newMockDB(t)
	orders := NewOrderStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT product_id, quantity, status FROM orders WHERE id = ? FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "status"}).
			AddRow(3, 20, models.OrderPending))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = ? WHERE id = ?")).
		WithArgs(models.OrderDelivered, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price, quantity FROM products WHERE id = ? FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"price", "quantity"}).AddRow("2.50", 4))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET quantity = ?, total = ?, supplied_at = NOW() WHERE id = ?")).
		WithArgs(24, sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stockin (product_id, account_id, quantity, reference)")).
		WithArgs(int64(3), int64(1), 20, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(15, 1))
	mock.ExpectCommit()

	mv, err := orders.MarkDelivered(7, 1)
	require.NoError(t, err)
	assert.Equal(t, models.DirectionIn, mv.Direction)
	assert.Equal(t, 24, mv.NewQuantity)
	assert.True(t, mv.NewTotal.Equal(decimal.RequireFromString("60.00")),
		"new total %s", mv.NewTotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkDeliveredRejectsNonPendingOrder(t *testing.T) {
	db, mock := newMockDB(t)
	orders := NewOrderStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT product_id, quantity, status FROM orders WHERE id = ? FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "status"}).
			AddRow(3, 20, models.OrderDelivered))
	mock.ExpectRollback()

	_, err := orders.MarkDelivered(7, 1)
	assert.ErrorIs(t, err, ErrOrderNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkDeliveredUnknownOrder(t *testing.T) {
	db, mock := newMockDB(t)
	orders := NewOrderStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT product_id, quantity, status FROM orders WHERE id = ? FOR UPDATE")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "status"}))
	mock.ExpectRollback()

	_, err := orders.MarkDelivered(99, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderChecksSupplierAndProduct(t *testing.T) {
	db, mock := newMockDB(t)
	orders := NewOrderStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM suppliers WHERE id = ?")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := orders.Create(4, 3, 10, sampleTime)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	db, mock := newMockDB(t)
	orders := NewOrderStore(db)

	_, err := orders.Create(4, 3, 0, sampleTime)
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
