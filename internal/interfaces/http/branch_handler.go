package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oscarvc/kardex-api/internal/application/dto"
	"github.com/oscarvc/kardex-api/internal/application/usecase"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

// BranchHandler maneja las peticiones HTTP de sucursales (protegido).
type BranchHandler struct {
	uc      *usecase.BranchUseCase
	seqRepo repository.BranchSequenceRepository
}

// NewBranchHandler construye el handler de sucursales.
func NewBranchHandler(uc *usecase.BranchUseCase, seqRepo repository.BranchSequenceRepository) *BranchHandler {
	return &BranchHandler{uc: uc, seqRepo: seqRepo}
}

// Create godoc
// @Summary      Crear sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBranchRequest  true  "name"
// @Success      201   {object}  dto.BranchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/branches [post]
func (h *BranchHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.CreateBranchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.Create(companyID, in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener sucursal por ID
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Branch ID"
// @Success      200  {object}  dto.BranchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/branches/{id} [get]
func (h *BranchHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		if err == domain.ErrBranchNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "BRANCH_NOT_FOUND", Message: "sucursal no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar sucursales de la empresa
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.BranchListResponse
// @Router       /api/branches [get]
func (h *BranchHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.List(GetCompanyID(c), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetSequence godoc
// @Summary      Último consecutivo emitido para la sucursal
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true  "Branch ID"
// @Param        kind  query  string  true  "SALE | PURCHASE"
// @Success      200  {object}  dto.SequenceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/branches/{id}/sequence [get]
func (h *BranchHandler) GetSequence(c *fiber.Ctx) error {
	branchID := c.Params("id")
	kind := c.Query("kind")
	if kind != entity.SequenceKindSale && kind != entity.SequenceKindPurchase {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind debe ser SALE o PURCHASE"})
	}
	// La verificación de pertenencia pasa por el caso de uso.
	if _, err := h.uc.GetByID(GetCompanyID(c), branchID); err != nil {
		if err == domain.ErrBranchNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "BRANCH_NOT_FOUND", Message: "sucursal no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	last, err := h.seqRepo.Current(branchID, kind)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.SequenceResponse{BranchID: branchID, Kind: kind, LastNumber: last})
}
