package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

var _ repository.BranchSequenceRepository = (*BranchSequenceRepo)(nil)

// BranchSequenceRepo contador de numeración por (sucursal, tipo) sobre
// PostgreSQL (usable con pool o tx).
type BranchSequenceRepo struct {
	q Querier
}

// NewBranchSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchSequenceRepository(q Querier) *BranchSequenceRepo {
	return &BranchSequenceRepo{q: q}
}

// Next incrementa atómicamente el contador y devuelve el nuevo número.
// El upsert toma el bloqueo de la fila del contador hasta el commit, así dos
// transacciones concurrentes nunca reciben el mismo número y un rollback
// devuelve el contador a su valor anterior. La FK a branches convierte una
// sucursal inexistente en domain.ErrBranchNotFound.
func (r *BranchSequenceRepo) Next(branchID, kind string) (int64, error) {
	query := `
		INSERT INTO branch_sequences (branch_id, kind, last_number, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (branch_id, kind)
		DO UPDATE SET last_number = branch_sequences.last_number + 1, updated_at = now()
		RETURNING last_number`
	var number int64
	err := r.q.QueryRow(context.Background(), query, branchID, kind).Scan(&number)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.ErrBranchNotFound
		}
		if derr := translateConcurrencyError(err); derr != nil {
			return 0, derr
		}
		return 0, fmt.Errorf("next sequence number: %w", err)
	}
	return number, nil
}

// Current devuelve el último número emitido para (sucursal, tipo), 0 si nunca
// se ha emitido.
func (r *BranchSequenceRepo) Current(branchID, kind string) (int64, error) {
	query := `SELECT last_number FROM branch_sequences WHERE branch_id = $1 AND kind = $2`
	var number int64
	err := r.q.QueryRow(context.Background(), query, branchID, kind).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("current sequence number: %w", err)
	}
	return number, nil
}
