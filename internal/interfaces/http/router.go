package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oscarvc/kardex-api/internal/application/auth"
	"github.com/oscarvc/kardex-api/internal/application/ledger"
	"github.com/oscarvc/kardex-api/internal/application/usecase"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	BranchUC    *usecase.BranchUseCase
	ProductUC   *usecase.ProductUseCase
	ContactUC   *usecase.ContactUseCase
	AuthUC      *auth.AuthUseCase
	Recorder    *ledger.Recorder
	Coordinator *ledger.Coordinator
	Reconciler  *ledger.Reconciler
	MovRepo     repository.StockMovementRepository
	DocRepo     repository.DocumentRepository
	SeqRepo     repository.BranchSequenceRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público: el registro de un tenant antecede a cualquier token)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Branches (protegido; crear requiere admin)
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC, deps.SeqRepo)
	branches.Post("/", RequireRole(entity.RoleAdmin), branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Get("/:id/sequence", branchHandler.GetSequence)

	// Products (protegido; escribir requiere admin o bodeguero)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Update)

	// Kardex y reconciliación por producto (protegido)
	movementHandler := NewMovementHandler(deps.Recorder, deps.MovRepo, deps.ProductUC)
	reconcileHandler := NewReconcileHandler(deps.Reconciler)
	products.Get("/:id/kardex", movementHandler.Kardex)
	products.Get("/:id/reconcile", reconcileHandler.Reconcile)
	products.Post("/:id/reconcile/repair", RequireRole(entity.RoleAdmin), reconcileHandler.Repair)

	// Movimientos manuales: aperturas y ajustes (protegido)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), movementHandler.Record)

	// Contacts (protegido)
	contacts := protected.Group("/contacts")
	contactHandler := NewContactHandler(deps.ContactUC)
	contacts.Post("/", contactHandler.Create)
	contacts.Get("/", contactHandler.List)
	contacts.Get("/:id", contactHandler.GetByID)

	// Documents: ventas y compras (protegido)
	documents := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.Coordinator, deps.DocRepo, deps.MovRepo, deps.BranchUC)
	documents.Post("/", documentHandler.Commit)
	documents.Get("/", documentHandler.List)
	documents.Get("/:id", documentHandler.GetByID)
}
