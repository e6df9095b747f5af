package repository

import "github.com/oscarvc/kardex-api/internal/domain/entity"

// BranchRepository define el puerto de persistencia para Branch (DIP).
// Create inicializa también los contadores de numeración de la sucursal en cero.
type BranchRepository interface {
	Create(branch *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	Update(branch *entity.Branch) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Branch, error)
	Delete(id string) error
}
