package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/Stockeando-api/internal/application/analytics"
	"github.com/jhoicas/Stockeando-api/internal/application/auth"
	"github.com/jhoicas/Stockeando-api/internal/application/inventory"
	"github.com/jhoicas/Stockeando-api/internal/application/ledger"
	"github.com/jhoicas/Stockeando-api/internal/application/qr"
	"github.com/jhoicas/Stockeando-api/internal/application/validation"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

// MetricsExporter expone /metrics y observa la latencia de cada petición.
type MetricsExporter interface {
	RequestObserver
	Handler() http.Handler
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registry      *inventory.Registry
	Ledger        *ledger.Service
	Validator     *validation.Validator
	ReportUC      *appanalytics.ReportUseCase
	BackupUC      *appanalytics.BackupUseCase
	Dashboard     *appanalytics.Refresher
	QRUC          *qr.UseCase
	AuthUC        *auth.AuthUseCase
	Metrics       MetricsExporter // opcional
	JWTSecret     string
	ServiceName   string
	RetentionDays int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(RequestMetrics(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token). Las escrituras pasan de a una.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), SerializeWrites(deps.Dashboard.Invalidate))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/users", adminOnly, authHandler.ListUsers)
	protected.Post("/users", adminOnly, authHandler.Register)

	// Inventario por ubicación
	inventoryHandler := NewInventoryHandler(deps.Registry, deps.Ledger)
	protected.Get("/locations/:location", inventoryHandler.GetLocation)
	protected.Put("/locations/:location", inventoryHandler.PutLocation)
	protected.Post("/plants/reset", adminOnly, inventoryHandler.ResetPlants)

	// Materiales
	qrHandler := NewQRHandler(deps.QRUC)
	items := protected.Group("/items")
	items.Post("/", inventoryHandler.CreateItem)
	items.Post("/move", inventoryHandler.MoveItem)
	items.Post("/reject", inventoryHandler.RejectItem)
	items.Get("/:id/history", inventoryHandler.ItemHistory)
	items.Get("/:id/location", inventoryHandler.ItemLocation)
	items.Post("/:id/qr", qrHandler.Generate)
	items.Get("/:id/label.pdf", qrHandler.Label)

	// Códigos
	protected.Get("/codes/unique", inventoryHandler.CodeUnique)
	protected.Post("/codes/generate", inventoryHandler.GenerateCode)

	// Ledger
	movementHandler := NewMovementHandler(deps.Ledger, deps.RetentionDays)
	protected.Get("/movements", movementHandler.List)
	protected.Get("/movements/stats", movementHandler.Stats)
	protected.Post("/movements/cleanup", adminOnly, movementHandler.Cleanup)

	// Respaldo y validación
	backupHandler := NewBackupHandler(deps.BackupUC, deps.Validator)
	protected.Get("/backup", backupHandler.Export)
	protected.Post("/backup/import", adminOnly, backupHandler.Import)
	protected.Post("/backup/upload", backupHandler.Upload)
	protected.Post("/validate", backupHandler.Validate)

	// Reportes
	analyticsHandler := NewAnalyticsHandler(deps.ReportUC)
	protected.Get("/reports", analyticsHandler.GetReport)
	protected.Get("/reports/movements.csv", analyticsHandler.MovementsCSV)
	protected.Get("/reports/report.pdf", analyticsHandler.ReportPDF)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
