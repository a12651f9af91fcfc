package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Supplier struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ProductType is the middle level of the category > type > product hierarchy.
type ProductType struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	CategoryID   int64  `json:"category_id" db:"category_id"`
	CategoryName string `json:"category_name" db:"category_name"`
}

// Product carries its on-hand quantity and the redundantly persisted
// extended total (price * quantity).
type Product struct {
	ID           int64           `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	TypeID       int64           `json:"type_id" db:"type_id"`
	TypeName     string          `json:"type_name" db:"type_name"`
	CategoryName string          `json:"category_name" db:"category_name"`
	SupplierID   int64           `json:"supplier_id" db:"supplier_id"`
	SupplierName string          `json:"supplier_name" db:"supplier_name"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Quantity     int             `json:"quantity" db:"quantity"`
	Total        decimal.Decimal `json:"total" db:"total"`
	ReorderLevel int             `json:"reorder_level" db:"reorder_level"`
	SuppliedAt   time.Time       `json:"supplied_at" db:"supplied_at"`
}

// ProductInput is the mutable surface of a product. The supplier is
// addressed by name and resolved (or created) during the write.
type ProductInput struct {
	Name         string          `json:"name" binding:"required"`
	TypeID       int64           `json:"type_id" binding:"required"`
	SupplierName string          `json:"supplier_name" binding:"required"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	ReorderLevel int             `json:"reorder_level"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderDelivered OrderStatus = "Delivered"
)

type Order struct {
	ID           int64       `json:"id" db:"id"`
	SupplierID   int64       `json:"supplier_id" db:"supplier_id"`
	SupplierName string      `json:"supplier_name" db:"supplier_name"`
	ProductID    int64       `json:"product_id" db:"product_id"`
	ProductName  string      `json:"product_name" db:"product_name"`
	Quantity     int         `json:"quantity" db:"quantity"`
	ExpectedDate time.Time   `json:"expected_date" db:"expected_date"`
	Status       OrderStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}
