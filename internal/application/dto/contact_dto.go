package dto

import "time"

// CreateContactRequest entrada para crear un cliente o proveedor.
type CreateContactRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=customer supplier"`
	Name  string `json:"name" validate:"required,min=1,max=200"`
	NIT   string `json:"nit" validate:"max=30"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=30"`
}

// ContactResponse salida de un contacto.
type ContactResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactListResponse lista paginada de contactos.
type ContactListResponse struct {
	Items []ContactResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
