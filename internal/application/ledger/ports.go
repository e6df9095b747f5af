package ledger

import (
	"context"

	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de kardex:
// si fn retorna error no queda visible ningún movimiento, ajuste de proyección
// ni incremento de contador.
type TxRunner interface {
	// RunMovement abre una transacción con los repos de un movimiento suelto
	// (ajustes manuales, reparación de drift).
	RunMovement(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error

	// RunDocument abre una transacción con los repos de un documento completo:
	// numeración + N movimientos + cabecera y líneas.
	RunDocument(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		seqRepo repository.BranchSequenceRepository,
		docRepo repository.DocumentRepository,
	) error) error
}
