package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockforge/stockforge/internal/database"
	"github.com/stockforge/stockforge/internal/models"
)

// LedgerStore appends immutable stock movements and keeps the owning
// product's on-hand quantity and extended total consistent with them.
// Every movement runs as a single transaction: the product row is locked,
// quantity and total are rewritten, and exactly one ledger row is inserted.
// A failure at any step rolls the whole operation back.
type LedgerStore struct {
	db *database.DB
}

func NewLedgerStore(db *database.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// StockIn receives quantity into a product and appends a stockin row
func (s *LedgerStore) StockIn(productID int64, quantity int, accountID int64) (*models.StockMovement, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	mv, err := stockInTx(tx, productID, quantity, accountID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock-in: %w", err)
	}
	return mv, nil
}

// StockOut issues quantity from a product and appends a stockout row.
// Issuing more than is on hand is rejected with no effect.
func (s *LedgerStore) StockOut(productID int64, quantity int, accountID int64) (*models.StockMovement, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	price, current, err := lockProduct(tx, productID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if quantity > current {
		tx.Rollback()
		return nil, fmt.Errorf("%w: %d on hand, %d requested", ErrInsufficientStock, current, quantity)
	}

	newQuantity := current - quantity
	newTotal := price.Mul(decimal.NewFromInt(int64(newQuantity)))
	if _, err := tx.Exec(`
		UPDATE products SET quantity = ?, total = ? WHERE id = ?
	`, newQuantity, newTotal, productID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update product quantity: %w", err)
	}

	reference := uuid.NewString()
	res, err := tx.Exec(`
		INSERT INTO stockout (product_id, account_id, quantity, reference)
		VALUES (?, ?, ?, ?)
	`, productID, accountID, quantity, reference)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to insert stockout row: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read new ledger id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock-out: %w", err)
	}

	return &models.StockMovement{
		ID:          id,
		Direction:   models.DirectionOut,
		ProductID:   productID,
		AccountID:   accountID,
		Quantity:    quantity,
		Reference:   reference,
		CreatedAt:   time.Now(),
		NewQuantity: newQuantity,
		NewTotal:    newTotal,
	}, nil
}

// History returns all movements for a product, newest first
func (s *LedgerStore) History(productID int64) ([]models.StockMovement, error) {
	rows, err := s.db.Query(`
		SELECT id, 'in' AS direction, product_id, account_id, quantity, reference, created_at FROM stockin WHERE product_id = ?
		UNION ALL
		SELECT id, 'out' AS direction, product_id, account_id, quantity, reference, created_at FROM stockout WHERE product_id = ?
		ORDER BY created_at DESC, id DESC
	`, productID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movement history: %w", err)
	}
	defer rows.Close()

	var movements []models.StockMovement
	for rows.Next() {
		var mv models.StockMovement
		if err := rows.Scan(&mv.ID, &mv.Direction, &mv.ProductID, &mv.AccountID, &mv.Quantity, &mv.Reference, &mv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, mv)
	}
	return movements, rows.Err()
}

// lockProduct reads price and quantity under FOR UPDATE so concurrent
// movements on the same product serialize instead of losing updates.
func lockProduct(tx *sql.Tx, productID int64) (decimal.Decimal, int, error) {
	var price decimal.Decimal
	var quantity int
	err := tx.QueryRow(`
		SELECT price, quantity FROM products WHERE id = ? FOR UPDATE
	`, productID).Scan(&price, &quantity)
	if err == sql.ErrNoRows {
		return decimal.Zero, 0, ErrNotFound
	}
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to lock product: %w", err)
	}
	return price, quantity, nil
}

// stockInTx applies a stock-in inside an existing transaction. Order
// delivery reuses it so the ledger stays the only path that moves
// quantities upward.
func stockInTx(tx *sql.Tx, productID int64, quantity int, accountID int64) (*models.StockMovement, error) {
	price, current, err := lockProduct(tx, productID)
	if err != nil {
		return nil, err
	}

	newQuantity := current + quantity
	newTotal := price.Mul(decimal.NewFromInt(int64(newQuantity)))
	if _, err := tx.Exec(`
		UPDATE products SET quantity = ?, total = ?, supplied_at = NOW() WHERE id = ?
	`, newQuantity, newTotal, productID); err != nil {
		return nil, fmt.Errorf("failed to update product quantity: %w", err)
	}

	reference := uuid.NewString()
	res, err := tx.Exec(`
		INSERT INTO stockin (product_id, account_id, quantity, reference)
		VALUES (?, ?, ?, ?)
	`, productID, accountID, quantity, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to insert stockin row: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new ledger id: %w", err)
	}

	return &models.StockMovement{
		ID:          id,
		Direction:   models.DirectionIn,
		ProductID:   productID,
		AccountID:   accountID,
		Quantity:    quantity,
		Reference:   reference,
		CreatedAt:   time.Now(),
		NewQuantity: newQuantity,
		NewTotal:    newTotal,
	}, nil
}
