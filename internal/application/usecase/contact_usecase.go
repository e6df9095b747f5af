package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/oscarvc/kardex-api/internal/application/dto"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

// ContactUseCase administra clientes y proveedores de la empresa.
type ContactUseCase struct {
	repo repository.ContactRepository
}

// NewContactUseCase construye el caso de uso con el puerto de persistencia.
func NewContactUseCase(repo repository.ContactRepository) *ContactUseCase {
	return &ContactUseCase{repo: repo}
}

// Create crea un contacto (cliente o proveedor) de la empresa.
func (uc *ContactUseCase) Create(companyID string, in dto.CreateContactRequest) (*dto.ContactResponse, error) {
	if in.Kind != entity.ContactKindCustomer && in.Kind != entity.ContactKindSupplier {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	contact := &entity.Contact{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Kind:      in.Kind,
		Name:      in.Name,
		NIT:       in.NIT,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(contact); err != nil {
		return nil, err
	}
	return entityToContactResponse(contact), nil
}

// GetByID obtiene un contacto verificando que pertenezca a la empresa.
func (uc *ContactUseCase) GetByID(companyID, id string) (*dto.ContactResponse, error) {
	contact, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if contact == nil || contact.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return entityToContactResponse(contact), nil
}

// List lista los contactos de la empresa con paginación.
func (uc *ContactUseCase) List(companyID string, page dto.PageRequest) (*dto.ContactListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ContactResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToContactResponse(c))
	}
	return &dto.ContactListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func entityToContactResponse(c *entity.Contact) *dto.ContactResponse {
	if c == nil {
		return nil
	}
	return &dto.ContactResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Kind:      c.Kind,
		Name:      c.Name,
		NIT:       c.NIT,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
