package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create persiste la cabecera del documento. El índice único sobre
// (branch_id, kind, number) es la red de seguridad contra consecutivos
// duplicados; con la numeración transaccional no debería dispararse.
func (r *DocumentRepo) Create(document *entity.Document) error {
	if document.ID == "" {
		document.ID = uuid.New().String()
	}
	query := `
		INSERT INTO documents (id, company_id, branch_id, kind, number, contact_id, description, total, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		document.ID, document.CompanyID, document.BranchID, document.Kind, document.Number,
		nullIfEmpty(document.ContactID), document.Description, document.Total,
		document.CreatedAt, nullIfEmpty(document.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// CreateLine persiste una línea del documento.
func (r *DocumentRepo) CreateLine(line *entity.DocumentLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO document_lines (id, document_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.DocumentID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert document line: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de un documento por ID.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	query := `
		SELECT id, company_id, branch_id, kind, number, contact_id, description, total, created_at, created_by
		FROM documents WHERE id = $1`
	var d entity.Document
	var contactID, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.CompanyID, &d.BranchID, &d.Kind, &d.Number,
		&contactID, &d.Description, &d.Total, &d.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if contactID != nil {
		d.ContactID = *contactID
	}
	if createdBy != nil {
		d.CreatedBy = *createdBy
	}
	return &d, nil
}

// GetLinesByDocumentID lista las líneas de un documento.
func (r *DocumentRepo) GetLinesByDocumentID(documentID string) ([]*entity.DocumentLine, error) {
	query := `
		SELECT id, document_id, product_id, quantity, unit_price, subtotal
		FROM document_lines WHERE document_id = $1`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListByBranch lista documentos de una sucursal, más reciente primero.
// kind vacío lista ambos tipos.
func (r *DocumentRepo) ListByBranch(branchID, kind string, limit, offset int) ([]*entity.Document, error) {
	query := `
		SELECT id, company_id, branch_id, kind, number, contact_id, description, total, created_at, created_by
		FROM documents WHERE branch_id = $1 AND ($2 = '' OR kind = $2)
		ORDER BY created_at DESC, number DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, branchID, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		var d entity.Document
		var contactID, createdBy *string
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.BranchID, &d.Kind, &d.Number,
			&contactID, &d.Description, &d.Total, &d.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if contactID != nil {
			d.ContactID = *contactID
		}
		if createdBy != nil {
			d.CreatedBy = *createdBy
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
