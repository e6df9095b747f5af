package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oscarvc/kardex-api/internal/application/dto"
	"github.com/oscarvc/kardex-api/internal/application/ledger"
)

// ReconcileHandler expone la reconciliación de saldos: diagnóstico de drift
// entre el libro de movimientos y la proyección, y su reparación (protegido).
type ReconcileHandler struct {
	reconciler *ledger.Reconciler
}

// NewReconcileHandler construye el handler de reconciliación.
func NewReconcileHandler(reconciler *ledger.Reconciler) *ReconcileHandler {
	return &ReconcileHandler{reconciler: reconciler}
}

// Reconcile godoc
// @Summary      Reconciliar saldo de un producto (solo lectura)
// @Description  Reproduce la historia completa de movimientos desde cero y la
//
//	compara con current_stock. Un drift distinto de cero se reporta,
//	no es un error de la petición.
//
// @Tags         reconcile
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  dto.ReconcileReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/reconcile [get]
func (h *ReconcileHandler) Reconcile(c *fiber.Ctx) error {
	report, err := h.reconciler.Reconcile(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondLedgerError(c, err)
	}
	return c.JSON(reportToResponse(report))
}

// Repair godoc
// @Summary      Reparar drift de un producto
// @Description  Si hay drift, anexa un único ADJUSTMENT que vuelve a igualar
//
//	la suma del libro con la proyección; la historia nunca se edita.
//	Idempotente: sin drift no escribe nada.
//
// @Tags         reconcile
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  dto.ReconcileReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/reconcile/repair [post]
func (h *ReconcileHandler) Repair(c *fiber.Ctx) error {
	report, err := h.reconciler.Repair(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondLedgerError(c, err)
	}
	return c.JSON(reportToResponse(report))
}

func reportToResponse(r *ledger.ReconcileReport) dto.ReconcileReportResponse {
	return dto.ReconcileReportResponse{
		ProductID:        r.ProductID,
		LedgerBalance:    r.LedgerBalance,
		CachedBalance:    r.CachedBalance,
		Drift:            r.Drift,
		MovementCount:    r.MovementCount,
		Repaired:         r.Repaired,
		RepairMovementID: r.RepairMovementID,
	}
}
