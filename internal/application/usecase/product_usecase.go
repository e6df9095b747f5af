package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/oscarvc/kardex-api/internal/application/dto"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductUseCase administra el catálogo de productos. Nunca modifica
// current_stock: esa proyección pertenece al motor de kardex.
type ProductUseCase struct {
	repo       repository.ProductRepository
	branchRepo repository.BranchRepository
}

// NewProductUseCase construye el caso de uso con sus puertos de persistencia.
func NewProductUseCase(repo repository.ProductRepository, branchRepo repository.BranchRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, branchRepo: branchRepo}
}

// Create crea un producto de catálogo con stock cero. Devuelve
// domain.ErrDuplicate si el SKU ya existe y domain.ErrBranchNotFound si la
// sucursal no pertenece a la empresa.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != companyID {
		return nil, domain.ErrBranchNotFound
	}
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		BranchID:     in.BranchID,
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Cost:         in.Cost,
		CurrentStock: decimal.Zero,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return entityToProductResponse(product), nil
}

// GetByID obtiene un producto verificando que pertenezca a la empresa.
func (uc *ProductUseCase) GetByID(companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrProductNotFound
	}
	return entityToProductResponse(product), nil
}

// Update actualiza datos de catálogo (nombre, precios, estado). El stock no
// es editable por esta vía.
func (uc *ProductUseCase) Update(companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrProductNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Cost != nil {
		product.Cost = *in.Cost
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return entityToProductResponse(product), nil
}

// ListByBranch lista los productos de una sucursal con paginación.
func (uc *ProductUseCase) ListByBranch(companyID, branchID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != companyID {
		return nil, domain.ErrBranchNotFound
	}
	page.DefaultPage()
	list, err := uc.repo.ListByBranch(branchID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *entityToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func entityToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		BranchID:     p.BranchID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Cost:         p.Cost,
		CurrentStock: p.CurrentStock,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
