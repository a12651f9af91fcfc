package store

import (
	"fmt"

	"github.com/stockforge/stockforge/internal/database"
	"github.com/stockforge/stockforge/internal/models"
)

// ReportStore holds the read-only aggregation queries behind the
// dashboard charts. Nothing here mutates state.
type ReportStore struct {
	db *database.DB
}

func NewReportStore(db *database.DB) *ReportStore {
	return &ReportStore{db: db}
}

// CategoryDistribution counts products per category through the
// category > type > product joins. Categories without products show zero.
func (s *ReportStore) CategoryDistribution() ([]models.CategoryCount, error) {
	rows, err := s.db.Query(`
		SELECT c.name, COUNT(p.id)
		FROM category c
		LEFT JOIN ` + "`type`" + ` t ON t.category_id = c.id
		LEFT JOIN products p ON p.type_id = t.id
		GROUP BY c.id, c.name
		ORDER BY c.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category distribution: %w", err)
	}
	defer rows.Close()

	var counts []models.CategoryCount
	for rows.Next() {
		var cc models.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Products); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

// TopProducts returns the n products with the highest on-hand quantity
func (s *ReportStore) TopProducts(n int) ([]models.ProductQuantity, error) {
	rows, err := s.db.Query(`
		SELECT id, name, quantity FROM products
		ORDER BY quantity DESC, id ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	var top []models.ProductQuantity
	for rows.Next() {
		var pq models.ProductQuantity
		if err := rows.Scan(&pq.ProductID, &pq.Name, &pq.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan product quantity: %w", err)
		}
		top = append(top, pq)
	}
	return top, rows.Err()
}

// MovementTotals sums stocked-in and issued-out quantities per product,
// ordered by product id ascending and zero-filled for products without
// movements.
func (s *ReportStore) MovementTotals() ([]models.MovementTotals, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.name, COALESCE(si.qty, 0), COALESCE(so.qty, 0)
		FROM products p
		LEFT JOIN (SELECT product_id, SUM(quantity) AS qty FROM stockin GROUP BY product_id) si ON si.product_id = p.id
		LEFT JOIN (SELECT product_id, SUM(quantity) AS qty FROM stockout GROUP BY product_id) so ON so.product_id = p.id
		ORDER BY p.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query movement totals: %w", err)
	}
	defer rows.Close()

	var totals []models.MovementTotals
	for rows.Next() {
		var mt models.MovementTotals
		if err := rows.Scan(&mt.ProductID, &mt.Name, &mt.StockedIn, &mt.IssuedOut); err != nil {
			return nil, fmt.Errorf("failed to scan movement totals: %w", err)
		}
		totals = append(totals, mt)
	}
	return totals, rows.Err()
}

// LowStock lists products at or under reorder_level + buffer, ascending by
// quantity. Rows at or under the reorder level are critical, the rest of
// the band is a warning.
func (s *ReportStore) LowStock(buffer int) ([]models.LowStockRow, error) {
	if buffer < 0 {
		return nil, fmt.Errorf("%w: buffer must not be negative", ErrValidation)
	}

	rows, err := s.db.Query(`
		SELECT id, name, quantity, reorder_level FROM products
		WHERE quantity <= reorder_level + ?
		ORDER BY quantity ASC, id ASC
	`, buffer)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock: %w", err)
	}
	defer rows.Close()

	var low []models.LowStockRow
	for rows.Next() {
		var ls models.LowStockRow
		if err := rows.Scan(&ls.ProductID, &ls.Name, &ls.Quantity, &ls.ReorderLevel); err != nil {
			return nil, fmt.Errorf("failed to scan low stock row: %w", err)
		}
		if ls.Quantity <= ls.ReorderLevel {
			ls.Severity = models.SeverityCritical
		} else {
			ls.Severity = models.SeverityWarning
		}
		low = append(low, ls)
	}
	return low, rows.Err()
}
