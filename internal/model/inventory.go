package model

import (
	"time"
)

const (
	ProductStatusInStock      = "in-stock"
	ProductStatusLowStock     = "low-stock"
	ProductStatusOutOfStock   = "out-of-stock"
	ProductStatusDiscontinued = "discontinued"

	SupplierStatusActive   = "active"
	SupplierStatusInactive = "inactive"
)

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required"`
	SKU          string    `json:"sku" validate:"required"`
	Category     string    `json:"category" validate:"required"`
	SupplierID   string    `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	Quantity     int       `json:"quantity" validate:"gte=0"`
	ReorderLevel int       `json:"reorder_level" validate:"gte=0"`
	UnitPrice    float64   `json:"unit_price" validate:"gte=0"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockStatus derives the stock status from the quantity on hand.
func (p Product) StockStatus() string {
	switch {
	case p.Quantity <= 0:
		return ProductStatusOutOfStock
	case p.Quantity <= p.ReorderLevel:
		return ProductStatusLowStock
	default:
		return ProductStatusInStock
	}
}

type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required"`
	SKU          string  `json:"sku" binding:"required"`
	Category     string  `json:"category" binding:"required"`
	SupplierID   string  `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	Quantity     int     `json:"quantity" binding:"gte=0"`
	ReorderLevel int     `json:"reorder_level" binding:"gte=0"`
	UnitPrice    float64 `json:"unit_price" binding:"gte=0"`
}

type Supplier struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email" validate:"omitempty,email"`
	Phone       string    `json:"phone"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateSupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
}
