package entity

import "time"

// Branch representa una sucursal de la empresa: el ámbito del stock y de la
// numeración de documentos de venta/compra.
type Branch struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
