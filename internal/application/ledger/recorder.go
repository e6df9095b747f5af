package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Recorder registra movimientos de kardex de forma transaccional
// (OPENING, SALE, PURCHASE, ADJUSTMENT) con bloqueo de fila del producto
// (SELECT FOR UPDATE) y Commit/Rollback.
//
// El bloqueo serializa todas las mutaciones del stock de un producto: dos
// llamadas concurrentes nunca calculan saldo sobre la misma lectura obsoleta.
type Recorder struct {
	txRunner   TxRunner
	branchRepo repository.BranchRepository
}

// NewRecorder construye el registrador de movimientos.
func NewRecorder(txRunner TxRunner, branchRepo repository.BranchRepository) *Recorder {
	return &Recorder{txRunner: txRunner, branchRepo: branchRepo}
}

// MovementInput entrada para registrar un movimiento de kardex.
// QuantityDelta lleva signo: negativo para SALE, positivo para PURCHASE/OPENING,
// cualquier signo para ADJUSTMENT.
type MovementInput struct {
	ProductID     string
	BranchID      string
	Kind          string
	QuantityDelta decimal.Decimal
	Description   string
	DocumentRef   string
	UserID        string
}

// RecordMovement inicia una transacción, bloquea la fila del producto,
// valida, anexa el movimiento con su resulting_balance y actualiza la
// proyección current_stock. Commit si todo ok, Rollback si algo falla.
// La sucursal debe pertenecer a companyID (multi-tenant).
func (s *Recorder) RecordMovement(ctx context.Context, companyID string, in MovementInput) (*entity.StockMovement, error) {
	if in.ProductID == "" || in.BranchID == "" {
		return nil, domain.ErrInvalidInput
	}
	branch, err := s.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != companyID {
		return nil, domain.ErrBranchNotFound
	}

	var mov *entity.StockMovement
	err = s.txRunner.RunMovement(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		m, err := RecordInTx(movRepo, productRepo, in, time.Now())
		if err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordInTx anexa un movimiento usando los repositorios del caller (misma
// transacción). Lo usa el Coordinator para aplicar cada línea de un documento;
// si retorna error (ej: InsufficientStockError) el caller debe hacer rollback.
func RecordInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	in MovementInput,
	now time.Time,
) (*entity.StockMovement, error) {
	if !entity.ValidateMovementDelta(in.Kind, in.QuantityDelta) {
		return nil, domain.ErrInvalidMovement
	}

	// Bloquea la fila del producto hasta el commit/rollback de la tx.
	product, err := productRepo.GetForUpdate(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.BranchID != in.BranchID {
		return nil, domain.ErrProductNotFound
	}

	newBalance := product.CurrentStock.Add(in.QuantityDelta)
	if in.Kind == entity.MovementKindSale && newBalance.IsNegative() {
		return nil, &domain.InsufficientStockError{
			ProductID: in.ProductID,
			Requested: in.QuantityDelta.Neg(),
			Available: product.CurrentStock,
		}
	}

	mov := &entity.StockMovement{
		ID:               uuid.New().String(),
		ProductID:        in.ProductID,
		BranchID:         in.BranchID,
		Kind:             in.Kind,
		QuantityDelta:    in.QuantityDelta,
		ResultingBalance: newBalance,
		DocumentRef:      in.DocumentRef,
		Description:      in.Description,
		CreatedAt:        now,
		CreatedBy:        in.UserID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	// Proyección y libro quedan en la misma transacción: nunca hay ventana en
	// que current_stock refleje un movimiento no confirmado, ni al revés.
	if err := productRepo.UpdateStock(in.ProductID, newBalance); err != nil {
		return nil, err
	}
	return mov, nil
}
