package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog row. Only Active products are exposed to the storefront.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	Active      bool            `json:"active"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// InStock reports whether the product can be handed off to checkout.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductInput carries the writable fields of the admin product form.
type ProductInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	Active      bool            `json:"active"`
	ImageURL    string          `json:"image_url"`
}

// DashboardStats summarizes the catalog for the admin dashboard.
type DashboardStats struct {
	TotalProducts  int             `json:"total_products"`
	FeaturedCount  int             `json:"featured_products"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	TotalStock     int             `json:"total_stock"`
}
