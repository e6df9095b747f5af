package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

// ──────────────────────────────────────────────────────────────────────────────
// Traducción de códigos del motor a errores de dominio.
// ──────────────────────────────────────────────────────────────────────────────

func TestTranslateConcurrencyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"lock no disponible", &pgconn.PgError{Code: "55P03"}, domain.ErrLockTimeout},
		{"fallo de serialización", &pgconn.PgError{Code: "40001"}, domain.ErrConcurrentModification},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domain.ErrConcurrentModification},
		{"violación de único no es contención", &pgconn.PgError{Code: "23505"}, nil},
		{"error ajeno al motor", errors.New("conexión cerrada"), nil},
		{"nil", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := translateConcurrencyError(tc.err)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

// El código se detecta aunque el driver venga envuelto en contexto propio.
func TestTranslateConcurrencyError_ErrorEnvuelto(t *testing.T) {
	wrapped := fmt.Errorf("lock de producto: %w", &pgconn.PgError{Code: "55P03"})
	assert.ErrorIs(t, translateConcurrencyError(wrapped), domain.ErrLockTimeout)
}

func TestViolationHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(unique))
	assert.False(t, isUniqueViolation(errors.New("otra cosa")))
}
