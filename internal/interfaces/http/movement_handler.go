package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oscarvc/kardex-api/internal/application/dto"
	"github.com/oscarvc/kardex-api/internal/application/ledger"
	"github.com/oscarvc/kardex-api/internal/application/usecase"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

// MovementHandler maneja los movimientos de kardex: registro de aperturas y
// ajustes manuales, y consulta del kardex por producto (protegido).
type MovementHandler struct {
	recorder  *ledger.Recorder
	movRepo   repository.StockMovementRepository
	productUC *usecase.ProductUseCase
}

// NewMovementHandler construye el handler de movimientos.
func NewMovementHandler(recorder *ledger.Recorder, movRepo repository.StockMovementRepository, productUC *usecase.ProductUseCase) *MovementHandler {
	return &MovementHandler{recorder: recorder, movRepo: movRepo, productUC: productUC}
}

// Record godoc
// @Summary      Registrar movimiento manual (OPENING o ADJUSTMENT)
// @Description  Las ventas y compras no entran por aquí: se confirman como
//
//	documento en /api/documents.
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, branch_id, kind, quantity_delta"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Kind != entity.MovementKindOpening && in.Kind != entity.MovementKindAdjustment {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind debe ser OPENING o ADJUSTMENT"})
	}
	mov, err := h.recorder.RecordMovement(c.Context(), GetCompanyID(c), ledger.MovementInput{
		ProductID:     in.ProductID,
		BranchID:      in.BranchID,
		Kind:          in.Kind,
		QuantityDelta: in.QuantityDelta,
		Description:   in.Description,
		UserID:        GetUserID(c),
	})
	if err != nil {
		return respondLedgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementToResponse(mov))
}

// Kardex godoc
// @Summary      Kardex de un producto
// @Description  Movimientos del más reciente al más antiguo, con filtro
//
//	opcional de fechas (RFC3339 o YYYY-MM-DD) y el saldo actual.
//
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Product ID"
// @Param        from    query  string  false  "Desde (inclusive)"
// @Param        to      query  string  false  "Hasta (inclusive)"
// @Param        limit   query  int     false  "Límite (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.KardexResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/kardex [get]
func (h *MovementHandler) Kardex(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.productUC.GetByID(GetCompanyID(c), productID)
	if err != nil {
		if err == domain.ErrProductNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339 o YYYY-MM-DD)"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339 o YYYY-MM-DD)"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	movements, err := h.movRepo.ListByProduct(productID, from, to, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, movementToResponse(m))
	}
	return c.JSON(dto.KardexResponse{
		ProductID:    productID,
		CurrentStock: product.CurrentStock,
		Movements:    items,
		Page:         dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// parseDateQuery acepta RFC3339 o fecha simple YYYY-MM-DD. Vacío devuelve nil.
func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func movementToResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		BranchID:         m.BranchID,
		Kind:             m.Kind,
		QuantityDelta:    m.QuantityDelta,
		ResultingBalance: m.ResultingBalance,
		Description:      m.Description,
		DocumentRef:      m.DocumentRef,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
	}
}
