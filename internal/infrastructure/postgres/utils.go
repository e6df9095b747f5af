package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oscarvc/kardex-api/internal/domain"
)

// Códigos de error PostgreSQL que el kardex traduce a errores de dominio.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgLockNotAvailable    = "55P03" // lock_timeout agotado
	pgSerializationFail   = "40001"
	pgDeadlockDetected    = "40P01"
)

// nullIfEmpty convierte "" a NULL para columnas opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgErrCode(err) == pgUniqueViolation
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgErrCode(err) == pgForeignKeyViolation
}

// translateConcurrencyError mapea errores de contención del motor a los errores
// de dominio que el coordinador propaga: ErrLockTimeout cuando expira la espera
// por un bloqueo de fila, ErrConcurrentModification cuando la tx debe
// reintentarse completa (fallo de serialización o deadlock). Devuelve nil si el
// error no es de contención.
func translateConcurrencyError(err error) error {
	switch pgErrCode(err) {
	case pgLockNotAvailable:
		return domain.ErrLockTimeout
	case pgSerializationFail, pgDeadlockDetected:
		return domain.ErrConcurrentModification
	}
	return nil
}
