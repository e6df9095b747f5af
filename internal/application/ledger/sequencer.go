package ledger

import (
	"context"

	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

// Sequencer asigna el consecutivo de documentos de venta/compra por sucursal.
// El incremento usa la misma primitiva transaccional que el resto del kardex:
// un número asignado en una transacción que hace rollback no queda visible
// para lectores concurrentes (se admite el hueco, nunca el duplicado).
type Sequencer struct {
	txRunner TxRunner
}

// NewSequencer construye el secuenciador.
func NewSequencer(txRunner TxRunner) *Sequencer {
	return &Sequencer{txRunner: txRunner}
}

// NextNumber asigna y confirma el siguiente número para (sucursal, tipo) en
// una transacción propia. Para documentos usar NextNumberInTx dentro de la
// transacción del Coordinator.
func (s *Sequencer) NextNumber(ctx context.Context, branchID, kind string) (int64, error) {
	var number int64
	err := s.txRunner.RunDocument(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		seqRepo repository.BranchSequenceRepository,
		_ repository.DocumentRepository,
	) error {
		n, err := NextNumberInTx(seqRepo, branchID, kind)
		if err != nil {
			return err
		}
		number = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return number, nil
}

// NextNumberInTx incrementa el contador usando el repositorio del caller
// (misma transacción que los movimientos que numera).
func NextNumberInTx(seqRepo repository.BranchSequenceRepository, branchID, kind string) (int64, error) {
	if branchID == "" {
		return 0, domain.ErrBranchNotFound
	}
	if kind != entity.SequenceKindSale && kind != entity.SequenceKindPurchase {
		return 0, domain.ErrInvalidInput
	}
	return seqRepo.Next(branchID, kind)
}
