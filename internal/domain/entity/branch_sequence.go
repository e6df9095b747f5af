package entity

import "time"

// Tipos de contador de documentos por sucursal.
const (
	SequenceKindSale     = "SALE"
	SequenceKindPurchase = "PURCHASE"
)

// BranchSequence es el contador de numeración de documentos por (sucursal, tipo).
// Los números emitidos son únicos y estrictamente crecientes; un número asignado
// dentro de una transacción que termina en rollback no se reutiliza (se admiten
// huecos, nunca duplicados).
type BranchSequence struct {
	BranchID   string
	Kind       string
	LastNumber int64
	UpdatedAt  time.Time
}
