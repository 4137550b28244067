package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Proveedores-api/internal/application/inventory"
	appsupplier "github.com/jhoicas/Proveedores-api/internal/application/supplier"
	"github.com/jhoicas/Proveedores-api/internal/application/usecase"
	"github.com/jhoicas/Proveedores-api/pkg/jwt"
	"github.com/jhoicas/Proveedores-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SupplierUC  *usecase.SupplierUseCase
	OrderUC     *appsupplier.OrderUseCase
	PriceUC     *appsupplier.PriceUseCase
	PDFUC       *appsupplier.PDFUseCase
	TransferUC  *inventory.TransferUseCase
	MovementsUC *inventory.MovementQueryUseCase
	Actors      *usecase.ActorResolver
	JWTSecret   string
	JWTIssuer   string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	log := deps.Log.Component("http")
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	purchasing := RequireRole(jwt.RoleAdmin, jwt.RoleCompras)
	warehouse := RequireRole(jwt.RoleAdmin, jwt.RoleBodega)
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleCompras, jwt.RoleBodega)

	// Proveedores
	supplierHandler := NewSupplierHandler(deps.SupplierUC, log)
	priceHandler := NewPriceHandler(deps.PriceUC, log)
	suppliers := api.Group("/suppliers")
	suppliers.Post("/", purchasing, supplierHandler.Create)
	suppliers.Get("/", anyRole, supplierHandler.List)
	suppliers.Get("/:id", anyRole, supplierHandler.GetByID)
	suppliers.Delete("/:id", purchasing, supplierHandler.Deactivate)
	suppliers.Get("/:id/products/:productId/last-price", anyRole, priceHandler.LastPrice)

	// Órdenes de proveedor
	orderHandler := NewSupplierOrderHandler(deps.OrderUC, deps.PDFUC, deps.Actors, log)
	orders := api.Group("/supplier-orders")
	orders.Post("/", purchasing, orderHandler.Create)
	orders.Get("/", anyRole, orderHandler.List)
	orders.Get("/:id", anyRole, orderHandler.GetByID)
	orders.Patch("/:id/status", anyRole, orderHandler.UpdateStatus)
	orders.Get("/:id/pdf", anyRole, orderHandler.DownloadPDF)
	orders.Get("/:id/movements", anyRole, orderHandler.Movements)

	lines := api.Group("/supplier-order-lines")
	lines.Post("/:id/receive", warehouse, orderHandler.ReceiveLine)
	lines.Post("/:id/incident", warehouse, orderHandler.LineIncident)
	lines.Post("/:id/cancel", purchasing, orderHandler.CancelLine)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.TransferUC, deps.MovementsUC, deps.Actors, log)
	inv := api.Group("/inventory")
	inv.Post("/transfers", warehouse, inventoryHandler.Transfer)
	inv.Post("/transfers/validate", warehouse, inventoryHandler.ValidateTransfer)
	inv.Get("/movements", anyRole, inventoryHandler.ListMovements)

	// Precios
	links := api.Group("/product-suppliers")
	links.Post("/", purchasing, priceHandler.Link)
	links.Patch("/:id/cost", purchasing, priceHandler.UpdateCost)
	api.Get("/products/:productId/price-comparison", anyRole, priceHandler.Compare)
}
