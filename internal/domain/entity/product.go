package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU vendible/comprable, con ámbito de sucursal.
// CurrentStock es una proyección del libro de movimientos: solo la muta el motor
// de kardex (nunca la edición de catálogo) y siempre coincide con el
// resulting_balance del último movimiento registrado del producto.
type Product struct {
	ID           string
	CompanyID    string
	BranchID     string
	SKU          string // código único en el sistema
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta
	Cost         decimal.Decimal // costo unitario
	CurrentStock decimal.Decimal
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
