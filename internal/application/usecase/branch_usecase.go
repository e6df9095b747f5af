package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/oscarvc/kardex-api/internal/application/dto"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

// BranchUseCase aplica reglas de negocio para sucursales. Toda operación
// recibe el companyID del token y verifica pertenencia (multi-tenant).
type BranchUseCase struct {
	repo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso con el puerto de persistencia.
func NewBranchUseCase(repo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo}
}

// Create crea una sucursal para la empresa. El repositorio inicializa los
// consecutivos de venta y compra en cero.
func (uc *BranchUseCase) Create(companyID string, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	now := time.Now()
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(branch); err != nil {
		return nil, err
	}
	return entityToBranchResponse(branch), nil
}

// GetByID obtiene una sucursal verificando que pertenezca a la empresa.
func (uc *BranchUseCase) GetByID(companyID, id string) (*dto.BranchResponse, error) {
	branch, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != companyID {
		return nil, domain.ErrBranchNotFound
	}
	return entityToBranchResponse(branch), nil
}

// List lista las sucursales de la empresa con paginación.
func (uc *BranchUseCase) List(companyID string, page dto.PageRequest) (*dto.BranchListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *entityToBranchResponse(b))
	}
	return &dto.BranchListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func entityToBranchResponse(b *entity.Branch) *dto.BranchResponse {
	if b == nil {
		return nil
	}
	return &dto.BranchResponse{
		ID:        b.ID,
		CompanyID: b.CompanyID,
		Name:      b.Name,
		Address:   b.Address,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
