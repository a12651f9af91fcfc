package models

// Severity bands for the low-stock report.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

type CategoryCount struct {
	Category string `json:"category" db:"category"`
	Products int    `json:"products" db:"products"`
}

type ProductQuantity struct {
	ProductID int64  `json:"product_id" db:"product_id"`
	Name      string `json:"name" db:"name"`
	Quantity  int    `json:"quantity" db:"quantity"`
}

// MovementTotals aligns summed stock-in and stock-out quantities per
// product, zero-filled for products without movements.
type MovementTotals struct {
	ProductID int64  `json:"product_id" db:"product_id"`
	Name      string `json:"name" db:"name"`
	StockedIn int    `json:"stocked_in" db:"stocked_in"`
	IssuedOut int    `json:"issued_out" db:"issued_out"`
}

type LowStockRow struct {
	ProductID    int64  `json:"product_id" db:"product_id"`
	Name         string `json:"name" db:"name"`
	Quantity     int    `json:"quantity" db:"quantity"`
	ReorderLevel int    `json:"reorder_level" db:"reorder_level"`
	Severity     string `json:"severity" db:"-"`
}
