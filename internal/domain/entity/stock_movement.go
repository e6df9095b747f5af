package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex.
const (
	MovementKindOpening    = "OPENING"    // saldo inicial
	MovementKindSale       = "SALE"       // salida por venta
	MovementKindPurchase   = "PURCHASE"   // entrada por compra
	MovementKindAdjustment = "ADJUSTMENT" // ajuste manual (cualquier signo)
)

// StockMovement es una entrada inmutable del kardex: se crea una sola vez y
// nunca se edita ni se borra; las correcciones son nuevos ADJUSTMENT.
// ResultingBalance es el saldo del producto inmediatamente después de aplicar
// QuantityDelta, de modo que para la historia ordenada por (created_at, id)
// cada saldo se deriva del anterior.
type StockMovement struct {
	ID               string
	ProductID        string
	BranchID         string
	Kind             string
	QuantityDelta    decimal.Decimal // con signo: negativo en ventas, positivo en compras
	ResultingBalance decimal.Decimal
	DocumentRef      string // ID del documento de venta/compra que lo originó (vacío en ajustes)
	Description      string
	CreatedAt        time.Time
	CreatedBy        string // UserID
}

// ValidateMovementDelta verifica la combinación tipo/signo de un movimiento:
// delta cero nunca es válido; SALE exige delta negativo; PURCHASE y OPENING
// positivo; ADJUSTMENT acepta cualquier signo.
func ValidateMovementDelta(kind string, delta decimal.Decimal) bool {
	if delta.IsZero() {
		return false
	}
	switch kind {
	case MovementKindSale:
		return delta.IsNegative()
	case MovementKindPurchase, MovementKindOpening:
		return delta.IsPositive()
	case MovementKindAdjustment:
		return true
	}
	return false
}
