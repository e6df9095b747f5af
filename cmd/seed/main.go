// seed puebla la base de datos con un tenant de demostración: empresa,
// sucursal, usuario admin, catálogo con saldos de apertura y un par de
// documentos de ejemplo (una compra y una venta).
//
// Uso: go run ./cmd/seed
// Idempotencia simple: si la empresa demo ya existe, el programa termina.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/oscarvc/kardex-api/internal/application/auth"
	"github.com/oscarvc/kardex-api/internal/application/dto"
	"github.com/oscarvc/kardex-api/internal/application/ledger"
	"github.com/oscarvc/kardex-api/internal/application/usecase"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/infrastructure/postgres"
	"github.com/oscarvc/kardex-api/pkg/config"
	"github.com/oscarvc/kardex-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const demoNIT = "900123456-7"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Service: cfg.App.Name})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	if existing, _ := companyRepo.GetByNIT(demoNIT); existing != nil {
		log.Info().Str("company_id", existing.ID).Msg("la empresa demo ya existe, nada que hacer")
		return
	}

	lockTimeout := time.Duration(cfg.Ledger.LockTimeoutMS) * time.Millisecond
	txRunner := postgres.NewTxRunner(pool, lockTimeout)
	recorder := ledger.NewRecorder(txRunner, branchRepo)
	coordinator := ledger.NewCoordinator(txRunner, productRepo, branchRepo, contactRepo)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	branchUC := usecase.NewBranchUseCase(branchRepo)
	productUC := usecase.NewProductUseCase(productRepo, branchRepo)
	contactUC := usecase.NewContactUseCase(contactRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	company, err := companyUC.Create(dto.CreateCompanyRequest{
		Name:  "Distribuciones El Kardex S.A.S.",
		NIT:   demoNIT,
		Email: "demo@kardex.local",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear empresa demo")
	}

	branch, err := branchUC.Create(company.ID, dto.CreateBranchRequest{
		Name:    "Sucursal Centro",
		Address: "Calle 10 # 5-23, Bogotá",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear sucursal demo")
	}

	admin, err := authUC.RegisterUser(dto.RegisterRequest{
		CompanyID: company.ID,
		Email:     "admin@kardex.local",
		Password:  "admin12345",
		Name:      "Admin Demo",
		Role:      entity.RoleAdmin,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear usuario admin demo")
	}

	supplier, err := contactUC.Create(company.ID, dto.CreateContactRequest{
		Kind: entity.ContactKindSupplier,
		Name: "Proveedora Nacional Ltda.",
		NIT:  "830111222-3",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear proveedor demo")
	}
	customer, err := contactUC.Create(company.ID, dto.CreateContactRequest{
		Kind: entity.ContactKindCustomer,
		Name: "Tienda Doña Marta",
		NIT:  "52333444-5",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear cliente demo")
	}

	// Catálogo con saldo de apertura.
	type seedProduct struct {
		sku, name    string
		price, cost  string
		openingStock string
	}
	seedProducts := []seedProduct{
		{"CAF-250", "Café molido 250g", "12500", "8200", "120"},
		{"ARR-1000", "Arroz premium 1kg", "4800", "3500", "300"},
		{"ACE-900", "Aceite de girasol 900ml", "15900", "11000", "80"},
	}
	productIDs := make([]string, 0, len(seedProducts))
	for _, sp := range seedProducts {
		p, err := productUC.Create(company.ID, dto.CreateProductRequest{
			BranchID: branch.ID,
			SKU:      sp.sku,
			Name:     sp.name,
			Price:    decimal.RequireFromString(sp.price),
			Cost:     decimal.RequireFromString(sp.cost),
		})
		if err != nil {
			log.Fatal().Err(err).Str("sku", sp.sku).Msg("crear producto demo")
		}
		if _, err := recorder.RecordMovement(ctx, company.ID, ledger.MovementInput{
			ProductID:     p.ID,
			BranchID:      branch.ID,
			Kind:          entity.MovementKindOpening,
			QuantityDelta: decimal.RequireFromString(sp.openingStock),
			Description:   "Saldo inicial de inventario",
			UserID:        admin.ID,
		}); err != nil {
			log.Fatal().Err(err).Str("sku", sp.sku).Msg("registrar apertura demo")
		}
		productIDs = append(productIDs, p.ID)
	}

	// Una compra y una venta de ejemplo, numeradas por la sucursal.
	purchase, err := coordinator.CommitDocument(ctx, company.ID, admin.ID, ledger.DocumentInput{
		BranchID:  branch.ID,
		Kind:      entity.DocumentKindPurchase,
		ContactID: supplier.ID,
		Lines: []ledger.DocumentLineInput{
			{ProductID: productIDs[0], Quantity: decimal.NewFromInt(50)},
			{ProductID: productIDs[2], Quantity: decimal.NewFromInt(24)},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("confirmar compra demo")
	}
	sale, err := coordinator.CommitDocument(ctx, company.ID, admin.ID, ledger.DocumentInput{
		BranchID:  branch.ID,
		Kind:      entity.DocumentKindSale,
		ContactID: customer.ID,
		Lines: []ledger.DocumentLineInput{
			{ProductID: productIDs[0], Quantity: decimal.NewFromInt(10)},
			{ProductID: productIDs[1], Quantity: decimal.NewFromInt(25)},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("confirmar venta demo")
	}

	log.Info().
		Str("company_id", company.ID).
		Str("branch_id", branch.ID).
		Int64("purchase_number", purchase.Document.Number).
		Int64("sale_number", sale.Document.Number).
		Msg("datos demo creados; login: admin@kardex.local / admin12345")
}
