package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento comercial.
const (
	DocumentKindSale     = "SALE"
	DocumentKindPurchase = "PURCHASE"
)

// Document es la cabecera de una venta o compra: N líneas de producto,
// numerada por sucursal con el consecutivo de BranchSequence.
type Document struct {
	ID          string
	CompanyID   string
	BranchID    string
	Kind        string
	Number      int64 // consecutivo por (sucursal, tipo)
	ContactID   string
	Description string
	Total       decimal.Decimal
	CreatedAt   time.Time
	CreatedBy   string
}

// DocumentLine es una línea de producto dentro de un documento.
type DocumentLine struct {
	ID         string
	DocumentID string
	ProductID  string
	Quantity   decimal.Decimal // siempre positiva; el signo lo aporta el tipo de documento
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}

// MovementKindForDocument devuelve el tipo de movimiento de kardex que genera
// cada línea del documento.
func MovementKindForDocument(docKind string) string {
	if docKind == DocumentKindPurchase {
		return MovementKindPurchase
	}
	return MovementKindSale
}
