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

	"github.com/ozonpanel/backend/internal/application/auth"
	"github.com/ozonpanel/backend/internal/application/cancellation"
	"github.com/ozonpanel/backend/internal/application/documents"
	"github.com/ozonpanel/backend/internal/application/handover"
	"github.com/ozonpanel/backend/internal/application/orders"
	"github.com/ozonpanel/backend/internal/application/ports"
	"github.com/ozonpanel/backend/internal/application/profit"
	"github.com/ozonpanel/backend/internal/application/reports"
	domainprofit "github.com/ozonpanel/backend/internal/domain/profit"
	infraai "github.com/ozonpanel/backend/internal/infrastructure/ai"
	infraozon "github.com/ozonpanel/backend/internal/infrastructure/ozon"
	infrapdf "github.com/ozonpanel/backend/internal/infrastructure/pdf"
	"github.com/ozonpanel/backend/internal/infrastructure/postgres"
	"github.com/ozonpanel/backend/internal/infrastructure/rates"
	httpRouter "github.com/ozonpanel/backend/internal/interfaces/http"
	"github.com/ozonpanel/backend/pkg/config"
	"github.com/ozonpanel/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	userRepo := postgres.NewUserRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	docRepo := postgres.NewDocumentRepository(pool)
	profitRepo := postgres.NewProfitRepository(pool)
	cancellationRepo := postgres.NewCancellationRepository(pool)
	handoverRepo := postgres.NewHandoverRepository(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	documentUC := documents.NewUseCase(docRepo)
	reportUC := reports.NewUseCase(docRepo, cfg.App.CompanyVKN)

	// OCR en lote: la espera entre envíos respeta el límite de tasa de Gemini.
	ocrService := infraai.NewGeminiOCR(cfg.Gemini.APIKey, cfg.Gemini.Model)
	batchOCR := documents.NewBatchOCR(
		docRepo, ocrService, documents.SleepDelay,
		time.Duration(cfg.OCR.DelaySeconds)*time.Second, log,
	)

	// Cotizaciones: TCMB para USD/TRY, CBR para USD/RUB, con retroceso
	// acotado por fines de semana y feriados.
	rateLookup := rates.NewLookup(map[string]ports.RateProvider{
		ports.PairUSDTRY: rates.NewTCMBProvider(),
		ports.PairUSDRUB: rates.NewCBRProvider(),
	},
		cfg.Profit.RateWalkbackDays,
		time.Duration(cfg.Profit.RateCacheTTLMinutes)*time.Minute,
		log,
	)

	profitUC := profit.NewUseCase(orderRepo, profitRepo, rateLookup, domainprofit.Config{
		CommissionRate: cfg.Profit.CommissionRate,
		ShippingCost:   cfg.Profit.ShippingCost,
	}, log)

	cancellationUC := cancellation.NewUseCase(cancellationRepo, log)
	handoverUC := handover.NewUseCase(handoverRepo, orderRepo, log)

	ozonClient := infraozon.NewClient(cfg.Ozon, log)
	orderUC := orders.NewUseCase(orderRepo, ozonClient, cancellationUC, 15*time.Minute, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 120, // el lote OCR espera entre documentos
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ozon Panel API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		DocumentUC:     documentUC,
		BatchOCR:       batchOCR,
		ReportUC:       reportUC,
		ProfitUC:       profitUC,
		CancellationUC: cancellationUC,
		HandoverUC:     handoverUC,
		OrderUC:        orderUC,
		RateLookup:     rateLookup,
		Manifest:       infrapdf.NewManifestGenerator(),
		JWTSecret:      cfg.JWT.Secret,
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
