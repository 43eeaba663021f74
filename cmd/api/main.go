package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/Stockeando-api/internal/application/analytics"
	"github.com/jhoicas/Stockeando-api/internal/application/auth"
	"github.com/jhoicas/Stockeando-api/internal/application/inventory"
	"github.com/jhoicas/Stockeando-api/internal/application/ledger"
	"github.com/jhoicas/Stockeando-api/internal/application/ports"
	"github.com/jhoicas/Stockeando-api/internal/application/qr"
	"github.com/jhoicas/Stockeando-api/internal/application/validation"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/backup"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Stockeando-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Stockeando-api/internal/interfaces/http"
	"github.com/jhoicas/Stockeando-api/pkg/config"
	"github.com/jhoicas/Stockeando-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.Open(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir store")
	}
	defer closeStore()

	recorder := metrics.NewRecorder()
	repos := docstore.New(store, log.Zerolog(), recorder)
	tz := cfg.App.Location()

	ledgerSvc := ledger.NewService(repos.Movements, repos.ProductStates, repos.Inventory, repos.Machines, log.Zerolog(), recorder)
	codes := inventory.NewCodeGenerator(repos.Counter, tz, cfg.Codes.MaxAttempts)
	registry := inventory.NewRegistry(repos.Inventory, repos.Machines, repos.Rejections, ledgerSvc, codes, tz, log.Zerolog())
	validator := validation.NewValidator(repos.Inventory, repos.Machines, repos.ProductStates, codes, log.Zerolog(), recorder)

	renderer := infrapdf.NewMarotoRenderer(cfg.App.Name)
	reportUC := appanalytics.NewReportUseCase(repos.Movements, repos.Rejections, renderer)
	backupUC := appanalytics.NewBackupUseCase(ledgerSvc, repos.Inventory, repos.Categories, openBackupSink(ctx, cfg, log), log.Zerolog())
	dashboardUC := appanalytics.NewDashboardUseCase(repos.Movements, repos.Inventory, repos.Machines)
	refresher := appanalytics.NewRefresher(dashboardUC, cfg.Dashboard.RefreshInterval(), log.Zerolog())
	qrUC := qr.NewUseCase(repos.Inventory, repos.Machines, repos.QRCodes, ledgerSvc, renderer)

	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))
	if _, err := authUC.EnsureAdmin(ctx, cfg.Auth.AdminUser, cfg.Auth.AdminPassword, cfg.Auth.AdminName); err != nil {
		log.Fatal().Err(err).Msg("crear usuario administrador")
	}

	// Reparaciones de arranque: el inventario puede venir de versiones anteriores.
	if report, err := validator.Run(ctx); err != nil {
		log.Error().Err(err).Msg("validación inicial")
	} else if report.Changed {
		log.Info().Interface("report", report).Msg("validación inicial aplicó reparaciones")
	}

	go refresher.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    32 * 1024 * 1024, // respaldos completos
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stockeando API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Registry:      registry,
		Ledger:        ledgerSvc,
		Validator:     validator,
		ReportUC:      reportUC,
		BackupUC:      backupUC,
		Dashboard:     refresher,
		QRUC:          qrUC,
		AuthUC:        authUC,
		Metrics:       recorder,
		JWTSecret:     cfg.JWT.Secret,
		ServiceName:   cfg.App.Name,
		RetentionDays: cfg.Ledger.RetentionDays,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openBackupSink nil si BACKUP_DRIVER=none o si el destino no se pudo abrir.
func openBackupSink(ctx context.Context, cfg *config.Config, log *logger.Logger) ports.BackupSink {
	switch cfg.Backup.Driver {
	case config.BackupFile:
		sink, err := backup.NewFileSink(cfg.Backup.Dir)
		if err != nil {
			log.Error().Err(err).Msg("destino de respaldos deshabilitado")
			return nil
		}
		return sink
	case config.BackupS3:
		sink, err := backup.NewS3Sink(ctx, backup.S3Config{
			Bucket:    cfg.Backup.S3Bucket,
			Region:    cfg.Backup.S3Region,
			Endpoint:  cfg.Backup.S3Endpoint,
			PathStyle: cfg.Backup.S3PathStyle,
			Prefix:    cfg.Backup.S3Prefix,
		})
		if err != nil {
			log.Error().Err(err).Msg("destino de respaldos deshabilitado")
			return nil
		}
		return sink
	}
	return nil
}

