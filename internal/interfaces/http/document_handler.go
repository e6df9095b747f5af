package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oscarvc/kardex-api/internal/application/dto"
	"github.com/oscarvc/kardex-api/internal/application/ledger"
	"github.com/oscarvc/kardex-api/internal/application/usecase"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

// DocumentHandler maneja documentos de venta y compra (protegido).
type DocumentHandler struct {
	coordinator *ledger.Coordinator
	docRepo     repository.DocumentRepository
	movRepo     repository.StockMovementRepository
	branchUC    *usecase.BranchUseCase
}

// NewDocumentHandler construye el handler de documentos.
func NewDocumentHandler(
	coordinator *ledger.Coordinator,
	docRepo repository.DocumentRepository,
	movRepo repository.StockMovementRepository,
	branchUC *usecase.BranchUseCase,
) *DocumentHandler {
	return &DocumentHandler{coordinator: coordinator, docRepo: docRepo, movRepo: movRepo, branchUC: branchUC}
}

// Commit godoc
// @Summary      Confirmar venta o compra multi-línea (todo-o-nada)
// @Description  Asigna consecutivo de la sucursal, registra un movimiento de
//
//	kardex por línea y persiste cabecera y líneas en una sola
//	transacción. Si una línea falla (ej: stock insuficiente) se
//	rechaza el documento completo y no se consume consecutivo.
//
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitDocumentRequest  true  "branch_id, kind, lines"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Commit(c *fiber.Ctx) error {
	var in dto.CommitDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.BranchID == "" || len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id y al menos una línea son requeridos"})
	}
	// Ventas: cualquier rol con acceso comercial. Compras: solo bodega/admin.
	if in.Kind == entity.DocumentKindPurchase {
		role := GetRole(c)
		if role != entity.RoleAdmin && role != entity.RoleBodeguero {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para registrar compras"})
		}
	}
	lines := make([]ledger.DocumentLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, ledger.DocumentLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	result, err := h.coordinator.CommitDocument(c.Context(), GetCompanyID(c), GetUserID(c), ledger.DocumentInput{
		BranchID:    in.BranchID,
		Kind:        in.Kind,
		ContactID:   in.ContactID,
		Description: in.Description,
		Lines:       lines,
	})
	if err != nil {
		return respondLedgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(documentResultToResponse(result))
}

// GetByID godoc
// @Summary      Obtener documento con líneas y movimientos
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Document ID"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.docRepo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if doc == nil || doc.CompanyID != GetCompanyID(c) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento no encontrado"})
	}
	lines, err := h.docRepo.GetLinesByDocumentID(doc.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	movements, err := h.movRepo.ListByDocument(doc.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := documentToResponse(doc, lines)
	for _, m := range movements {
		out.Movements = append(out.Movements, movementToResponse(m))
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar documentos de una sucursal
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  true   "Branch ID"
// @Param        kind       query  string  false  "SALE | PURCHASE (vacío = ambos)"
// @Param        limit      query  int     false  "Límite (default 20)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.DocumentListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id es requerido"})
	}
	kind := c.Query("kind")
	if kind != "" && kind != entity.DocumentKindSale && kind != entity.DocumentKindPurchase {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind debe ser SALE o PURCHASE"})
	}
	if _, err := h.branchUC.GetByID(GetCompanyID(c), branchID); err != nil {
		if err == domain.ErrBranchNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "BRANCH_NOT_FOUND", Message: "sucursal no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	docs, err := h.docRepo.ListByBranch(branchID, kind, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, documentToResponse(d, nil))
	}
	return c.JSON(dto.DocumentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

func documentToResponse(d *entity.Document, lines []*entity.DocumentLine) dto.DocumentResponse {
	out := dto.DocumentResponse{
		ID:          d.ID,
		BranchID:    d.BranchID,
		Kind:        d.Kind,
		Number:      d.Number,
		ContactID:   d.ContactID,
		Description: d.Description,
		Total:       d.Total,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.DocumentLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return out
}

func documentResultToResponse(r *ledger.DocumentResult) dto.DocumentResponse {
	out := documentToResponse(r.Document, r.Lines)
	for _, m := range r.Movements {
		out.Movements = append(out.Movements, movementToResponse(m))
	}
	return out
}
