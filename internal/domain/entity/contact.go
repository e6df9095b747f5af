package entity

import "time"

// Tipos de contacto.
const (
	ContactKindCustomer = "customer"
	ContactKindSupplier = "supplier"
)

// Contact representa la contraparte de un documento: cliente en ventas,
// proveedor en compras.
type Contact struct {
	ID        string
	CompanyID string
	Kind      string // customer | supplier
	Name      string
	NIT       string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
