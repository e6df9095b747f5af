package ledger_test

import (
	"context"
	"testing"

	"github.com/oscarvc/kardex-api/internal/application/ledger"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Reconciler: detección de drift y reparación sin editar la historia
// ──────────────────────────────────────────────────────────────────────────────

func newReconcilerFixture() (*memStore, *ledger.Reconciler, *ledger.Recorder) {
	store := newMemStore()
	txRunner := newFakeTxRunner(store)
	recorder := ledger.NewRecorder(txRunner, &fakeBranchRepo{s: store})
	reconciler := ledger.NewReconciler(
		txRunner,
		&fakeProductRepo{s: store},
		&fakeMovementRepo{s: store},
	)
	return store, reconciler, recorder
}

// corruptStock fuerza la proyección a un valor arbitrario sin tocar el libro,
// simulando una escritura que se saltó el camino transaccional.
func corruptStock(s *memStore, productID, stock string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[productID].CurrentStock = decimal.RequireFromString(stock)
}

func TestReconcile_SinDrift(t *testing.T) {
	store, reconciler, recorder := newReconcilerFixture()
	seedBranch(store, "branch-1", testCompanyA)
	seedProduct(store, "prod-1", testCompanyA, "branch-1", "100", "60", "50")

	_, err := recorder.RecordMovement(context.Background(), testCompanyA, ledger.MovementInput{
		BranchID:      "branch-1",
		ProductID:     "prod-1",
		Kind:          entity.MovementKindAdjustment,
		QuantityDelta: decimal.NewFromInt(-5),
		UserID:        testUser,
	})
	require.NoError(t, err)

	report, err := reconciler.Reconcile(context.Background(), testCompanyA, "prod-1")
	require.NoError(t, err)

	assert.Equal(t, "prod-1", report.ProductID)
	assert.True(t, report.LedgerBalance.Equal(decimal.NewFromInt(45)))
	assert.True(t, report.CachedBalance.Equal(decimal.NewFromInt(45)))
	assert.True(t, report.Drift.IsZero())
	assert.Equal(t, 2, report.MovementCount)
	assert.False(t, report.Repaired)
}

func TestReconcile_DetectaDrift(t *testing.T) {
	store, reconciler, _ := newReconcilerFixture()
	seedBranch(store, "branch-1", testCompanyA)
	seedProduct(store, "prod-1", testCompanyA, "branch-1", "100", "60", "50")

	corruptStock(store, "prod-1", "47")

	report, err := reconciler.Reconcile(context.Background(), testCompanyA, "prod-1")
	require.NoError(t, err)

	assert.True(t, report.LedgerBalance.Equal(decimal.NewFromInt(50)))
	assert.True(t, report.CachedBalance.Equal(decimal.NewFromInt(47)))
	assert.True(t, report.Drift.Equal(decimal.NewFromInt(-3)))
	// Reconcile es solo lectura: no repara ni escribe movimientos.
	assert.False(t, report.Repaired)
	assert.Equal(t, 1, movementCount(store, "prod-1"))
}

func TestReconcile_ProductoSinMovimientos(t *testing.T) {
	store, reconciler, _ := newReconcilerFixture()
	seedBranch(store, "branch-1", testCompanyA)
	seedProduct(store, "prod-1", testCompanyA, "branch-1", "100", "60", "0")

	report, err := reconciler.Reconcile(context.Background(), testCompanyA, "prod-1")
	require.NoError(t, err)

	assert.True(t, report.LedgerBalance.IsZero())
	assert.True(t, report.CachedBalance.IsZero())
	assert.True(t, report.Drift.IsZero())
	assert.Equal(t, 0, report.MovementCount)
}

func TestReconcile_ProductoDeOtraEmpresa(t *testing.T) {
	store, reconciler, _ := newReconcilerFixture()
	seedBranch(store, "branch-1", testCompanyA)
	seedProduct(store, "prod-1", testCompanyA, "branch-1", "100", "60", "50")

	_, err := reconciler.Reconcile(context.Background(), testCompanyB, "prod-1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = reconciler.Reconcile(context.Background(), testCompanyA, "prod-x")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestRepair_AnexaAjusteQueCierraElDrift(t *testing.T) {
	store, reconciler, _ := newReconcilerFixture()
	seedBranch(store, "branch-1", testCompanyA)
	seedProduct(store, "prod-1", testCompanyA, "branch-1", "100", "60", "50")

	corruptStock(store, "prod-1", "47")

	report, err := reconciler.Repair(context.Background(), testCompanyA, "prod-1", testUser)
	require.NoError(t, err)

	assert.True(t, report.Repaired)
	assert.NotEmpty(t, report.RepairMovementID)
	assert.True(t, report.Drift.Equal(decimal.NewFromInt(-3)))
	// La proyección no cambia: el ajuste lleva el libro hasta ella.
	assert.True(t, currentStock(store, "prod-1").Equal(decimal.NewFromInt(47)))
	assert.Equal(t, 2, movementCount(store, "prod-1"))

	movRepo := &fakeMovementRepo{s: store}
	repair, err := movRepo.GetByID(report.RepairMovementID)
	require.NoError(t, err)
	require.NotNil(t, repair)
	assert.Equal(t, entity.MovementKindAdjustment, repair.Kind)
	assert.True(t, repair.QuantityDelta.Equal(decimal.NewFromInt(-3)))
	assert.True(t, repair.ResultingBalance.Equal(decimal.NewFromInt(47)))
	assert.Equal(t, testUser, repair.CreatedBy)
	assert.Contains(t, repair.Description, "drift")

	// Tras la reparación la reconciliación vuelve al punto fijo.
	after, err := reconciler.Reconcile(context.Background(), testCompanyA, "prod-1")
	require.NoError(t, err)
	assert.True(t, after.Drift.IsZero())
	assert.True(t, after.LedgerBalance.Equal(decimal.NewFromInt(47)))
}

func TestRepair_SinDriftNoEscribe(t *testing.T) {
	store, reconciler, _ := newReconcilerFixture()
	seedBranch(store, "branch-1", testCompanyA)
	seedProduct(store, "prod-1", testCompanyA, "branch-1", "100", "60", "50")

	report, err := reconciler.Repair(context.Background(), testCompanyA, "prod-1", testUser)
	require.NoError(t, err)

	assert.False(t, report.Repaired)
	assert.Empty(t, report.RepairMovementID)
	assert.True(t, report.Drift.IsZero())
	assert.Equal(t, 1, movementCount(store, "prod-1"))
}

func TestRepair_EsIdempotente(t *testing.T) {
	store, reconciler, _ := newReconcilerFixture()
	seedBranch(store, "branch-1", testCompanyA)
	seedProduct(store, "prod-1", testCompanyA, "branch-1", "100", "60", "20")

	corruptStock(store, "prod-1", "26")

	first, err := reconciler.Repair(context.Background(), testCompanyA, "prod-1", testUser)
	require.NoError(t, err)
	require.True(t, first.Repaired)

	second, err := reconciler.Repair(context.Background(), testCompanyA, "prod-1", testUser)
	require.NoError(t, err)
	assert.False(t, second.Repaired)
	assert.True(t, second.Drift.IsZero())
	assert.Equal(t, 2, movementCount(store, "prod-1"))
}

func TestRepair_ProductoDeOtraEmpresa(t *testing.T) {
	store, reconciler, _ := newReconcilerFixture()
	seedBranch(store, "branch-1", testCompanyA)
	seedProduct(store, "prod-1", testCompanyA, "branch-1", "100", "60", "50")
	corruptStock(store, "prod-1", "40")

	_, err := reconciler.Repair(context.Background(), testCompanyB, "prod-1", testUser)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	// El rollback deja el libro intacto.
	assert.Equal(t, 1, movementCount(store, "prod-1"))
}
