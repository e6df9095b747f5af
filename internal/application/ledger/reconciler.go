package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Reconciler recalcula el saldo de un producto reproduciendo su historia de
// movimientos y lo compara con la proyección current_stock. Es una herramienta
// de diagnóstico/reparación fuera del camino caliente; el libro siempre es la
// fuente de verdad y la reparación jamás edita movimientos históricos.
type Reconciler struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewReconciler construye el reconciliador.
func NewReconciler(txRunner TxRunner, productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) *Reconciler {
	return &Reconciler{txRunner: txRunner, productRepo: productRepo, movRepo: movRepo}
}

// ReconcileReport resultado de una reconciliación. Drift se reporta, no se
// lanza como error: es un hallazgo, no una falla de la petición.
type ReconcileReport struct {
	ProductID        string
	LedgerBalance    decimal.Decimal // suma de deltas de la historia completa
	CachedBalance    decimal.Decimal // products.current_stock
	Drift            decimal.Decimal // CachedBalance - LedgerBalance
	MovementCount    int
	Repaired         bool
	RepairMovementID string
}

// Reconcile reproduce los movimientos del producto en orden (created_at, id)
// desde saldo cero y compara contra la proyección. Solo lectura.
func (uc *Reconciler) Reconcile(ctx context.Context, companyID, productID string) (*ReconcileReport, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrProductNotFound
	}
	movements, err := uc.movRepo.ReplayByProduct(productID)
	if err != nil {
		return nil, err
	}
	ledgerBalance := replaySum(movements)
	return &ReconcileReport{
		ProductID:     productID,
		LedgerBalance: ledgerBalance,
		CachedBalance: product.CurrentStock,
		Drift:         product.CurrentStock.Sub(ledgerBalance),
		MovementCount: len(movements),
	}, nil
}

// Repair restablece la igualdad proyección == suma del libro sin editar la
// historia. En una transacción con la fila del producto bloqueada: reproduce
// la suma S del libro, calcula drift = current_stock - S y, si no es cero,
// anexa un único ADJUSTMENT con delta = drift y resulting_balance = current_stock.
// Tras el commit la suma del libro vuelve a coincidir con la proyección, la
// cadena de saldos cierra (S + drift == current_stock) y el drift detectado
// queda documentado en la descripción. Si no hay drift no escribe nada.
func (uc *Reconciler) Repair(ctx context.Context, companyID, productID, userID string) (*ReconcileReport, error) {
	var report *ReconcileReport
	err := uc.txRunner.RunMovement(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil || product.CompanyID != companyID {
			return domain.ErrProductNotFound
		}
		movements, err := movRepo.ReplayByProduct(productID)
		if err != nil {
			return err
		}
		ledgerBalance := replaySum(movements)
		drift := product.CurrentStock.Sub(ledgerBalance)
		report = &ReconcileReport{
			ProductID:     productID,
			LedgerBalance: ledgerBalance,
			CachedBalance: product.CurrentStock,
			Drift:         drift,
			MovementCount: len(movements),
		}
		if drift.IsZero() {
			return nil
		}

		mov := &entity.StockMovement{
			ID:               uuid.New().String(),
			ProductID:        productID,
			BranchID:         product.BranchID,
			Kind:             entity.MovementKindAdjustment,
			QuantityDelta:    drift,
			ResultingBalance: product.CurrentStock,
			Description:      fmt.Sprintf("Reparación de reconciliación: drift detectado %s", drift.String()),
			CreatedAt:        time.Now(),
			CreatedBy:        userID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		// La proyección no cambia: el ADJUSTMENT lleva el libro hasta ella y
		// restablece current_stock == Σ deltas. UpdateStock fija el mismo
		// valor para que updated_at registre la reparación.
		if err := productRepo.UpdateStock(productID, product.CurrentStock); err != nil {
			return err
		}
		report.Repaired = true
		report.RepairMovementID = mov.ID
		report.LedgerBalance = product.CurrentStock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// replaySum suma los deltas de la historia completa desde saldo cero
// (el OPENING es el primer delta de la serie).
func replaySum(movements []*entity.StockMovement) decimal.Decimal {
	var sum decimal.Decimal
	for _, m := range movements {
		sum = sum.Add(m.QuantityDelta)
	}
	return sum
}
