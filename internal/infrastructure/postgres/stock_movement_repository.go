package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del kardex sobre PostgreSQL (usable con pool o tx).
// La tabla stock_movements es append-only: este adaptador no expone UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, product_id, branch_id, kind, quantity_delta, resulting_balance, document_ref, description, created_at, created_by`

// Create anexa un movimiento al kardex.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, branch_id, kind, quantity_delta, resulting_balance, document_ref, description, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.BranchID, movement.Kind,
		movement.QuantityDelta, movement.ResultingBalance,
		nullIfEmpty(movement.DocumentRef), movement.Description,
		movement.CreatedAt, nullIfEmpty(movement.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var documentRef, createdBy *string
	err := row.Scan(
		&m.ID, &m.ProductID, &m.BranchID, &m.Kind, &m.QuantityDelta,
		&m.ResultingBalance, &documentRef, &m.Description, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if documentRef != nil {
		m.DocumentRef = *documentRef
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

func (r *StockMovementRepo) queryMovements(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByProduct lista movimientos de un producto en orden (created_at, id)
// descendente, con rango de fechas opcional y paginación.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.queryMovements(query, args...)
}

// ReplayByProduct devuelve la historia completa del producto en orden
// (created_at, id) ascendente, para reconstruir el saldo desde cero.
func (r *StockMovementRepo) ReplayByProduct(productID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1 ORDER BY created_at ASC, id ASC`
	return r.queryMovements(query, productID)
}

// ListByDocument lista los movimientos generados por un documento.
func (r *StockMovementRepo) ListByDocument(documentRef string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE document_ref = $1 ORDER BY created_at ASC, id ASC`
	return r.queryMovements(query, documentRef)
}
