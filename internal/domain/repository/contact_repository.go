package repository

import "github.com/oscarvc/kardex-api/internal/domain/entity"

// ContactRepository define el puerto de persistencia para Contact (DIP).
type ContactRepository interface {
	Create(contact *entity.Contact) error
	GetByID(id string) (*entity.Contact, error)
	Update(contact *entity.Contact) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Contact, error)
	Delete(id string) error
}
