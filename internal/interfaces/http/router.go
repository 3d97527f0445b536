package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ozonpanel/backend/internal/application/auth"
	"github.com/ozonpanel/backend/internal/application/cancellation"
	"github.com/ozonpanel/backend/internal/application/documents"
	"github.com/ozonpanel/backend/internal/application/handover"
	"github.com/ozonpanel/backend/internal/application/orders"
	"github.com/ozonpanel/backend/internal/application/ports"
	"github.com/ozonpanel/backend/internal/application/profit"
	"github.com/ozonpanel/backend/internal/application/reports"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	DocumentUC     *documents.UseCase
	BatchOCR       *documents.BatchOCR
	ReportUC       *reports.UseCase
	ProfitUC       *profit.UseCase
	CancellationUC *cancellation.UseCase
	HandoverUC     *handover.UseCase
	OrderUC        *orders.UseCase
	RateLookup     ports.RateLookup
	Manifest       *pdf.ManifestGenerator
	JWTSecret      string
}

// Router registra las rutas de la API. El acceso por rol:
//   - seller: panel completo (pedidos, documentos, reportes, kar)
//   - carrier: cancelaciones y confirmación de recepción
//   - courier: app móvil de escaneo y entrega
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	sellerOnly := RequireRole(entity.RoleSeller)
	warehouseStaff := RequireRole(entity.RoleSeller, entity.RoleCarrier)
	courierApp := RequireRole(entity.RoleCourier)

	// Orders (seller)
	ordersGroup := protected.Group("/orders", sellerOnly)
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:posting", orderHandler.Get)
	ordersGroup.Put("/:posting/purchase-price", orderHandler.SetPurchasePrice)

	// Documents (seller)
	docsGroup := protected.Group("/documents", sellerOnly)
	docHandler := NewDocumentHandler(deps.DocumentUC, deps.BatchOCR)
	docsGroup.Get("/", docHandler.List)
	docsGroup.Get("/check-duplicate", docHandler.CheckDuplicate)
	docsGroup.Get("/search", docHandler.Search)
	docsGroup.Post("/import", docHandler.BulkImport)
	docsGroup.Post("/batch-ocr", docHandler.BatchOCR)
	docsGroup.Put("/", docHandler.Upsert)
	docsGroup.Get("/:posting", docHandler.Get)
	docsGroup.Post("/:posting/note", docHandler.SetNote)
	docsGroup.Post("/:posting/:type/reset-ocr", docHandler.ResetOCR)
	docsGroup.Delete("/:posting/:type", docHandler.Delete)

	// Reports (seller)
	reportsGroup := protected.Group("/reports", sellerOnly)
	reportHandler := NewReportHandler(deps.ReportUC)
	reportsGroup.Get("/invoice-usage", reportHandler.InvoiceUsage)
	reportsGroup.Get("/date-conflicts", reportHandler.DateConflicts)
	reportsGroup.Get("/vkn-conflicts", reportHandler.VKNConflicts)

	// Profit (seller)
	profitGroup := protected.Group("/profit", sellerOnly)
	profitHandler := NewProfitHandler(deps.ProfitUC)
	profitGroup.Post("/batch", profitHandler.RunBatch)
	profitGroup.Get("/monthly", profitHandler.Monthly)

	// Rates (seller)
	ratesGroup := protected.Group("/rates", sellerOnly)
	rateHandler := NewRateHandler(deps.RateLookup)
	ratesGroup.Get("/", rateHandler.Get)

	// Cancellations (seller y carrier)
	cancelGroup := protected.Group("/cancellations", warehouseStaff)
	cancelHandler := NewCancellationHandler(deps.CancellationUC)
	cancelGroup.Post("/", cancelHandler.Track)
	cancelGroup.Post("/action", cancelHandler.Action)
	cancelGroup.Get("/", cancelHandler.List)
	cancelGroup.Get("/:posting", cancelHandler.Get)

	// Handover: el escaneo es de la app móvil del mensajero, la confirmación
	// y el manifiesto son del personal del depósito.
	handoverHandler := NewHandoverHandler(deps.HandoverUC, deps.Manifest)
	handoverGroup := protected.Group("/handover")
	anyStaff := RequireRole(entity.RoleSeller, entity.RoleCarrier, entity.RoleCourier)
	handoverGroup.Post("/scan", courierApp, handoverHandler.Scan)
	handoverGroup.Get("/pending", anyStaff, handoverHandler.Pending)
	handoverGroup.Get("/manifest", warehouseStaff, handoverHandler.Manifest)
	handoverGroup.Post("/:posting/confirm", warehouseStaff, handoverHandler.Confirm)
	handoverGroup.Get("/:posting", anyStaff, handoverHandler.Get)
	handoverGroup.Delete("/:posting", anyStaff, handoverHandler.Remove)
}
