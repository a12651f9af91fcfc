package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stockforge/stockforge/internal/database"
	"github.com/stockforge/stockforge/internal/models"
)

type OrderStore struct {
	db *database.DB
}

func NewOrderStore(db *database.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Create places a pending purchase order with a supplier
func (s *OrderStore) Create(supplierID, productID int64, quantity int, expectedDate time.Time) (*models.Order, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM suppliers WHERE id = ?`, supplierID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check supplier: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: supplier %d", ErrNotFound, supplierID)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM products WHERE id = ?`, productID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}

	res, err := s.db.Exec(`
		INSERT INTO orders (supplier_id, product_id, quantity, expected_date, status)
		VALUES (?, ?, ?, ?, ?)
	`, supplierID, productID, quantity, expectedDate, models.OrderPending)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new order id: %w", err)
	}
	return s.Get(id)
}

// Get returns one order with supplier and product names
func (s *OrderStore) Get(id int64) (*models.Order, error) {
	var o models.Order
	err := s.db.QueryRow(`
		SELECT o.id, o.supplier_id, s.name, o.product_id, p.name, o.quantity, o.expected_date, o.status, o.created_at
		FROM orders o
		JOIN suppliers s ON s.id = o.supplier_id
		JOIN products p ON p.id = o.product_id
		WHERE o.id = ?
	`, id).Scan(&o.ID, &o.SupplierID, &o.SupplierName, &o.ProductID, &o.ProductName, &o.Quantity, &o.ExpectedDate, &o.Status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// List returns all orders, newest first
func (s *OrderStore) List() ([]models.Order, error) {
	rows, err := s.db.Query(`
		SELECT o.id, o.supplier_id, s.name, o.product_id, p.name, o.quantity, o.expected_date, o.status, o.created_at
		FROM orders o
		JOIN suppliers s ON s.id = o.supplier_id
		JOIN products p ON p.id = o.product_id
		ORDER BY o.created_at DESC, o.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.SupplierID, &o.SupplierName, &o.ProductID, &o.ProductName, &o.Quantity, &o.ExpectedDate, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// MarkDelivered flips a pending order to delivered and stocks the ordered
// quantity in through the ledger, all in one transaction. Delivering the
// same order twice is rejected.
func (s *OrderStore) MarkDelivered(orderID, accountID int64) (*models.StockMovement, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var productID int64
	var quantity int
	var status models.OrderStatus
	err = tx.QueryRow(`
		SELECT product_id, quantity, status FROM orders WHERE id = ? FOR UPDATE
	`, orderID).Scan(&productID, &quantity, &status)
	if err == sql.ErrNoRows {
		tx.Rollback()
		return nil, ErrNotFound
	}
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	if status != models.OrderPending {
		tx.Rollback()
		return nil, ErrOrderNotPending
	}

	if _, err := tx.Exec(`UPDATE orders SET status = ? WHERE id = ?`, models.OrderDelivered, orderID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	mv, err := stockInTx(tx, productID, quantity, accountID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delivery: %w", err)
	}
	return mv, nil
}
