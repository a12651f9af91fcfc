package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement directions as stored in the ledger tables.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// StockMovement is one append-only ledger row from either the stockin or
// stockout table, tagged with its direction.
type StockMovement struct {
	ID        int64     `json:"id" db:"id"`
	Direction string    `json:"direction" db:"direction"`
	ProductID int64     `json:"product_id" db:"product_id"`
	AccountID int64     `json:"account_id" db:"account_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Reference string    `json:"reference" db:"reference"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// State of the product row after the movement committed.
	NewQuantity int             `json:"new_quantity" db:"-"`
	NewTotal    decimal.Decimal `json:"new_total" db:"-"`
}
