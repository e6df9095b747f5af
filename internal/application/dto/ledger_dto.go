package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest entrada para registrar un movimiento suelto de
// inventario (apertura o ajuste manual). Las ventas y compras entran por
// documento, no por aquí.
type RecordMovementRequest struct {
	ProductID     string          `json:"product_id" validate:"required,uuid"`
	BranchID      string          `json:"branch_id" validate:"required,uuid"`
	Kind          string          `json:"kind" validate:"required,oneof=OPENING ADJUSTMENT"`
	QuantityDelta decimal.Decimal `json:"quantity_delta" validate:"required"`
	Description   string          `json:"description" validate:"max=300"`
}

// MovementResponse salida de un movimiento del kardex.
type MovementResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	BranchID         string          `json:"branch_id"`
	Kind             string          `json:"kind"`
	QuantityDelta    decimal.Decimal `json:"quantity_delta"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	Description      string          `json:"description,omitempty"`
	DocumentRef      string          `json:"document_ref,omitempty"`
	CreatedBy        string          `json:"created_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// KardexResponse listado de movimientos de un producto, del más reciente
// al más antiguo, con el saldo proyectado actual.
type KardexResponse struct {
	ProductID    string             `json:"product_id"`
	CurrentStock decimal.Decimal    `json:"current_stock"`
	Movements    []MovementResponse `json:"movements"`
	Page         PageResponse       `json:"page"`
}

// DocumentLineRequest una línea de documento. Si unit_price viene en cero se
// toma el precio (venta) o costo (compra) del catálogo.
type DocumentLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CommitDocumentRequest entrada para confirmar una venta o compra completa.
type CommitDocumentRequest struct {
	BranchID    string                `json:"branch_id" validate:"required,uuid"`
	Kind        string                `json:"kind" validate:"required,oneof=SALE PURCHASE"`
	ContactID   string                `json:"contact_id" validate:"omitempty,uuid"`
	Description string                `json:"description" validate:"max=500"`
	Lines       []DocumentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// DocumentLineResponse línea persistida de un documento.
type DocumentLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// DocumentResponse documento confirmado con sus líneas y los movimientos
// de inventario que generó, en el mismo orden de las líneas enviadas.
type DocumentResponse struct {
	ID          string                 `json:"id"`
	BranchID    string                 `json:"branch_id"`
	Kind        string                 `json:"kind"`
	Number      int64                  `json:"number"`
	ContactID   string                 `json:"contact_id,omitempty"`
	Description string                 `json:"description,omitempty"`
	Total       decimal.Decimal        `json:"total"`
	CreatedBy   string                 `json:"created_by"`
	CreatedAt   time.Time              `json:"created_at"`
	Lines       []DocumentLineResponse `json:"lines"`
	Movements   []MovementResponse     `json:"movements"`
}

// DocumentListResponse lista paginada de documentos de una sucursal.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LineErrorDetail detalle del error sobre una línea concreta cuando un
// documento se rechaza completo.
type LineErrorDetail struct {
	LineIndex int             `json:"line_index"`
	ProductID string          `json:"product_id"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

// ReconcileReportResponse resultado de reconciliar un producto: saldo del
// libro contra la proyección en caché.
type ReconcileReportResponse struct {
	ProductID        string          `json:"product_id"`
	LedgerBalance    decimal.Decimal `json:"ledger_balance"`
	CachedBalance    decimal.Decimal `json:"cached_balance"`
	Drift            decimal.Decimal `json:"drift"`
	MovementCount    int             `json:"movement_count"`
	Repaired         bool            `json:"repaired"`
	RepairMovementID string          `json:"repair_movement_id,omitempty"`
}

// SequenceResponse estado actual del consecutivo de una sucursal.
type SequenceResponse struct {
	BranchID   string `json:"branch_id"`
	Kind       string `json:"kind"`
	LastNumber int64  `json:"last_number"`
}
