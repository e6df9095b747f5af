package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/oscarvc/kardex-api/internal/application/auth"
	"github.com/oscarvc/kardex-api/internal/application/ledger"
	"github.com/oscarvc/kardex-api/internal/application/usecase"
	"github.com/oscarvc/kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/oscarvc/kardex-api/internal/interfaces/http"
	"github.com/oscarvc/kardex-api/pkg/config"
	"github.com/oscarvc/kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

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
	movRepo := postgres.NewStockMovementRepository(pool)
	docRepo := postgres.NewDocumentRepository(pool)
	seqRepo := postgres.NewBranchSequenceRepository(pool)

	lockTimeout := time.Duration(cfg.Ledger.LockTimeoutMS) * time.Millisecond
	txRunner := postgres.NewTxRunner(pool, lockTimeout)

	recorder := ledger.NewRecorder(txRunner, branchRepo)
	coordinator := ledger.NewCoordinator(txRunner, productRepo, branchRepo, contactRepo)
	reconciler := ledger.NewReconciler(txRunner, productRepo, movRepo)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	branchUC := usecase.NewBranchUseCase(branchRepo)
	productUC := usecase.NewProductUseCase(productRepo, branchRepo)
	contactUC := usecase.NewContactUseCase(contactRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:   companyUC,
		BranchUC:    branchUC,
		ProductUC:   productUC,
		ContactUC:   contactUC,
		AuthUC:      authUC,
		Recorder:    recorder,
		Coordinator: coordinator,
		Reconciler:  reconciler,
		MovRepo:     movRepo,
		DocRepo:     docRepo,
		SeqRepo:     seqRepo,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
