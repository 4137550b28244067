package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Proveedores-api/internal/application/dto"
	appsupplier "github.com/jhoicas/Proveedores-api/internal/application/supplier"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
	"github.com/jhoicas/Proveedores-api/pkg/logger"
)

// SupplierOrderHandler órdenes de proveedor, recepción de líneas y documento PDF.
type SupplierOrderHandler struct {
	orders *appsupplier.OrderUseCase
	pdf    *appsupplier.PDFUseCase
	view   presenter
	log    *logger.Logger
}

// NewSupplierOrderHandler construye el handler.
func NewSupplierOrderHandler(orders *appsupplier.OrderUseCase, pdf *appsupplier.PDFUseCase, actors actorResolver, log *logger.Logger) *SupplierOrderHandler {
	return &SupplierOrderHandler{orders: orders, pdf: pdf, view: presenter{actors: actors}, log: log}
}

// Create godoc
// @Summary      Crear orden de proveedor (draft)
// @Tags         supplier-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "proveedor y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/supplier-orders [post]
func (h *SupplierOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]appsupplier.CreateLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, appsupplier.CreateLineInput{
			ProductID:    l.ProductID,
			SKU:          l.SKU,
			Title:        l.Title,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			TaxRate:      l.TaxRate,
			DiscountRate: l.DiscountRate,
		})
	}
	order, err := h.orders.CreateOrder(c.UserContext(), GetUserID(c), appsupplier.CreateOrderInput{
		SupplierID:            in.SupplierID,
		DestinationLocationID: in.DestinationLocationID,
		Currency:              in.Currency,
		Notes:                 in.Notes,
		Lines:                 lines,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.view.order(c.UserContext(), order))
}

// List godoc
// @Summary      Listar órdenes
// @Tags         supplier-orders
// @Security     Bearer
// @Produce      json
// @Param        supplier_id  query  string  false  "filtrar por proveedor"
// @Param        status       query  string  false  "filtrar por estado"
// @Param        type         query  string  false  "supplier | transfer"
// @Param        limit        query  int     false  "límite (default 20)"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/supplier-orders [get]
func (h *SupplierOrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.Normalize()
	orders, err := h.orders.ListOrders(c.UserContext(), repository.OrderFilter{
		SupplierID: c.Query("supplier_id"),
		Status:     entity.OrderStatus(c.Query("status")),
		Type:       entity.OrderType(c.Query("type")),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, h.view.order(c.UserContext(), o))
	}
	return c.JSON(dto.OrderListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetByID godoc
// @Summary      Obtener orden con líneas y próximos estados válidos
// @Tags         supplier-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplier-orders/{id} [get]
func (h *SupplierOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.view.order(c.UserContext(), order))
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la orden
// @Description  Valida contra la tabla de transiciones. confirmed y received sincronizan stock.
// @Tags         supplier-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/supplier-orders/{id}/status [patch]
func (h *SupplierOrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.orders.UpdateOrderStatus(c.UserContext(), c.Params("id"), entity.OrderStatus(in.Status), GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.view.order(c.UserContext(), order))
}

// DownloadPDF godoc
// @Summary      Descargar documento PDF de la orden
// @Tags         supplier-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplier-orders/{id}/pdf [get]
func (h *SupplierOrderHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DownloadOrderPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// Movements godoc
// @Summary      Movimientos de inventario generados por la orden
// @Tags         supplier-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplier-orders/{id}/movements [get]
func (h *SupplierOrderHandler) Movements(c *fiber.Ctx) error {
	ms, err := h.orders.OrderMovements(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.view.movements(c.UserContext(), ms))
}

// ReceiveLine godoc
// @Summary      Registrar recepción de una línea
// @Tags         supplier-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la línea"
// @Param        body  body  dto.ReceiveLineRequest  true  "cantidad recibida"
// @Success      200   {object}  dto.OrderLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/supplier-order-lines/{id}/receive [post]
func (h *SupplierOrderHandler) ReceiveLine(c *fiber.Ctx) error {
	var in dto.ReceiveLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	l, err := h.orders.ReceiveLine(c.UserContext(), c.Params("id"), in.Quantity, in.Notes, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(line(l))
}

// LineIncident godoc
// @Summary      Marcar o desmarcar incidencia en una línea
// @Tags         supplier-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la línea"
// @Param        body  body  dto.LineIncidentRequest  true  "has_incident y notas"
// @Success      200   {object}  dto.OrderLineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/supplier-order-lines/{id}/incident [post]
func (h *SupplierOrderHandler) LineIncident(c *fiber.Ctx) error {
	var in dto.LineIncidentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	l, err := h.orders.SetLineIncident(c.UserContext(), c.Params("id"), in.HasIncident, in.Notes, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(line(l))
}

// CancelLine godoc
// @Summary      Cancelar una línea sin efectos en inventario
// @Tags         supplier-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID de la línea"
// @Param        body  body  dto.CancelLineRequest  false  "notas"
// @Success      200   {object}  dto.OrderLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/supplier-order-lines/{id}/cancel [post]
func (h *SupplierOrderHandler) CancelLine(c *fiber.Ctx) error {
	var in dto.CancelLineRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	l, err := h.orders.CancelLine(c.UserContext(), c.Params("id"), in.Notes, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(line(l))
}
