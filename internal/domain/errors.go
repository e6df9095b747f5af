package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrProductNotFound        = errors.New("producto no encontrado")
	ErrBranchNotFound         = errors.New("sucursal no encontrada")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInvalidMovement        = errors.New("movimiento de inventario inválido")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrLockTimeout            = errors.New("tiempo de espera del bloqueo agotado")
	ErrConcurrentModification = errors.New("conflicto de concurrencia, reintentar el documento completo")
)

// InsufficientStockError lleva el contexto para que el caller arme un mensaje
// preciso por línea (producto, solicitado vs disponible). LineIndex es el
// índice de la línea ofensora dentro del documento original (0 para un
// movimiento suelto). errors.Is(err, ErrInsufficientStock) retorna true vía Unwrap.
type InsufficientStockError struct {
	LineIndex int
	ProductID string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: solicitado %s, disponible %s",
		e.ProductID, e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
