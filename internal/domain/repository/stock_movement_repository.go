package repository

import (
	"time"

	"github.com/oscarvc/kardex-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del kardex.
// La tabla es append-only: no existen Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// ListByProduct lista movimientos de un producto en orden (created_at, id)
	// descendente, con filtro opcional de fechas y paginación.
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// ReplayByProduct devuelve la historia completa del producto en orden
	// (created_at, id) ascendente, para reconstruir el saldo desde cero.
	ReplayByProduct(productID string) ([]*entity.StockMovement, error)
	ListByDocument(documentRef string) ([]*entity.StockMovement, error)
}
