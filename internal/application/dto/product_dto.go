package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicial se
// registra aparte con un movimiento OPENING, nunca por catálogo.
type CreateProductRequest struct {
	BranchID    string          `json:"branch_id" validate:"required,uuid"`
	SKU         string          `json:"sku" validate:"required,min=1,max=50"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
}

// UpdateProductRequest entrada para actualizar catálogo (sin current_stock).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Active      *bool            `json:"active"`
}

// ProductResponse salida de un producto con su proyección de stock.
type ProductResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	BranchID     string          `json:"branch_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
