package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Proveedores-api/internal/application/dto"
	"github.com/jhoicas/Proveedores-api/internal/application/inventory"
	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/pkg/logger"
)

// InventoryHandler traslados entre ubicaciones y consulta del libro de movimientos.
type InventoryHandler struct {
	transfers *inventory.TransferUseCase
	movements *inventory.MovementQueryUseCase
	view      presenter
	log       *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(transfers *inventory.TransferUseCase, movements *inventory.MovementQueryUseCase, actors actorResolver, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{transfers: transfers, movements: movements, view: presenter{actors: actors}, log: log}
}

func transferInput(c *fiber.Ctx, in dto.TransferStockRequest) inventory.TransferInput {
	return inventory.TransferInput{
		InventoryItemID: in.InventoryItemID,
		ProductID:       in.ProductID,
		FromLocationID:  in.FromLocationID,
		ToLocationID:    in.ToLocationID,
		Quantity:        in.Quantity,
		ActorID:         GetUserID(c),
	}
}

// Transfer godoc
// @Summary      Trasladar stock entre ubicaciones
// @Description  Crea una orden de traslado, mueve el stock y la deja en shipped. Ante fallo compensa todo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "producto, origen, destino y cantidad"
// @Success      201   {object}  dto.TransferStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.transfers.TransferStock(c.UserContext(), transferInput(c, in))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferStockResponse{
		TransferID:  res.TransferID,
		Order:       h.view.order(c.UserContext(), res.Order),
		StockBefore: dto.StockSnapshotDTO{Source: res.StockBefore.Source, Destination: res.StockBefore.Destination},
		StockAfter:  dto.StockSnapshotDTO{Source: res.StockAfter.Source, Destination: res.StockAfter.Destination},
	})
}

// ValidateTransfer godoc
// @Summary      Validar un traslado sin ejecutarlo
// @Description  Consultivo: el traslado vuelve a verificar el stock bajo bloqueo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "producto, origen, destino y cantidad"
// @Success      200   {object}  dto.TransferValidationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/validate [post]
func (h *InventoryHandler) ValidateTransfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	v, err := h.transfers.ValidateTransfer(c.UserContext(), transferInput(c, in))
	if err != nil && !(errors.Is(err, domain.ErrInsufficientStock) && v != nil) {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.TransferValidationResponse{
		Valid:           err == nil,
		InventoryItemID: v.InventoryItemID,
		Available:       v.Available,
		Requested:       v.Requested,
	})
}

// ListMovements godoc
// @Summary      Consultar el libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        inventory_item_id  query  string  false  "ítem de inventario"
// @Param        location_id        query  string  false  "ubicación (origen o destino)"
// @Param        from               query  string  false  "RFC3339"
// @Param        to                 query  string  false  "RFC3339"
// @Param        limit              query  int     false  "límite (default 50)"
// @Param        offset             query  int     false  "desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	q := inventory.MovementQuery{
		InventoryItemID: c.Query("inventory_item_id"),
		LocationID:      c.Query("location_id"),
		Limit:           c.QueryInt("limit", 50),
		Offset:          c.QueryInt("offset", 0),
	}
	var err error
	if q.From, err = parseTimeQuery(c, "from"); err != nil {
		return respondError(c, h.log, err)
	}
	if q.To, err = parseTimeQuery(c, "to"); err != nil {
		return respondError(c, h.log, err)
	}
	ms, err := h.movements.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.view.movements(c.UserContext(), ms))
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.ValidationError("%s debe ser RFC3339", key)
	}
	return &t, nil
}
