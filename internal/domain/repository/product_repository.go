package repository

import (
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate y UpdateStock son exclusivos del motor de kardex: la edición de
// catálogo nunca toca CurrentStock.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando su fila (SELECT FOR UPDATE)
	// hasta el commit/rollback de la transacción del caller.
	GetForUpdate(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock actualiza solo la proyección current_stock (usado por el kardex).
	UpdateStock(productID string, stock decimal.Decimal) error
	ListByBranch(branchID string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
