package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oscarvc/kardex-api/internal/application/ledger"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Cada transacción fija lock_timeout (SET LOCAL) para que un caller que espera
// un bloqueo de fila reciba ErrLockTimeout en vez de esperar indefinidamente.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout cero desactiva el
// límite de espera por bloqueos.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

func (r *TxRunner) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	if r.lockTimeout > 0 {
		// SET LOCAL expira con la tx; no admite parámetros bind.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("set lock_timeout: %w", err)
		}
	}
	return tx, nil
}

func (r *TxRunner) commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		if derr := translateConcurrencyError(err); derr != nil {
			return derr
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunMovement inicia una transacción con los repos de un movimiento suelto y
// hace Commit o Rollback según el resultado de fn.
func (r *TxRunner) RunMovement(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMovementRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	return r.commit(ctx, tx)
}

// RunDocument inicia una transacción con los repos de un documento completo
// (numeración + movimientos + cabecera/líneas) y hace Commit o Rollback.
func (r *TxRunner) RunDocument(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	seqRepo repository.BranchSequenceRepository,
	docRepo repository.DocumentRepository,
) error) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewStockMovementRepository(tx),
		NewProductRepository(tx),
		NewBranchSequenceRepository(tx),
		NewDocumentRepository(tx),
	); err != nil {
		return err
	}
	return r.commit(ctx, tx)
}
