package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

// ContactRepo implementación de ContactRepository sobre PostgreSQL (usable con pool o tx).
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador de contactos. Pasar pool o tx (Querier).
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

const contactColumns = `id, company_id, kind, name, nit, email, phone, created_at, updated_at`

// Create persiste un nuevo contacto (cliente o proveedor).
func (r *ContactRepo) Create(contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (id, company_id, kind, name, nit, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		contact.ID, contact.CompanyID, contact.Kind, contact.Name, contact.NIT,
		contact.Email, contact.Phone, contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByID obtiene un contacto por ID.
func (r *ContactRepo) GetByID(id string) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	var c entity.Contact
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.CompanyID, &c.Kind, &c.Name, &c.NIT, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

// Update actualiza un contacto existente.
func (r *ContactRepo) Update(contact *entity.Contact) error {
	query := `
		UPDATE contacts SET kind = $2, name = $3, nit = $4, email = $5, phone = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		contact.ID, contact.Kind, contact.Name, contact.NIT, contact.Email,
		contact.Phone, contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

// ListByCompany lista contactos por empresa con paginación.
func (r *ContactRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Contact
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Kind, &c.Name, &c.NIT, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina un contacto por ID.
func (r *ContactRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
