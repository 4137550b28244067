package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Proveedores-api/internal/application/dto"
	appsupplier "github.com/jhoicas/Proveedores-api/internal/application/supplier"
	"github.com/jhoicas/Proveedores-api/pkg/logger"
)

// PriceHandler vínculos producto-proveedor e historial de precios.
type PriceHandler struct {
	uc  *appsupplier.PriceUseCase
	log *logger.Logger
}

// NewPriceHandler construye el handler.
func NewPriceHandler(uc *appsupplier.PriceUseCase, log *logger.Logger) *PriceHandler {
	return &PriceHandler{uc: uc, log: log}
}

// Link godoc
// @Summary      Vincular producto a proveedor (crea o actualiza)
// @Tags         prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LinkProductSupplierRequest  true  "producto, proveedor y costo"
// @Success      200   {object}  dto.ProductSupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/product-suppliers [post]
func (h *PriceHandler) Link(c *fiber.Ctx) error {
	var in dto.LinkProductSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	link, err := h.uc.LinkProduct(c.UserContext(), GetUserID(c), appsupplier.LinkProductInput{
		ProductID:   in.ProductID,
		SupplierID:  in.SupplierID,
		SupplierSKU: in.SupplierSKU,
		CostPrice:   in.CostPrice,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(productSupplier(link))
}

// UpdateCost godoc
// @Summary      Actualizar costo del vínculo (agrega entrada al historial)
// @Tags         prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del vínculo"
// @Param        body  body  dto.UpdateCostPriceRequest  true  "nuevo costo"
// @Success      200   {object}  dto.ProductSupplierResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/product-suppliers/{id}/cost [patch]
func (h *PriceHandler) UpdateCost(c *fiber.Ctx) error {
	var in dto.UpdateCostPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	link, err := h.uc.UpdateCostPrice(c.UserContext(), c.Params("id"), in.CostPrice, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(productSupplier(link))
}

// LastPrice godoc
// @Summary      Último precio pagado a un proveedor por un producto
// @Tags         prices
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID del proveedor"
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.PriceInfoResponse
// @Success      204  "sin historial"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id}/products/{productId}/last-price [get]
func (h *PriceHandler) LastPrice(c *fiber.Ctx) error {
	info, err := h.uc.LastPrice(c.UserContext(), c.Params("id"), c.Params("productId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if info == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(priceInfo(info))
}

// Compare godoc
// @Summary      Comparar precios contra otros proveedores
// @Tags         prices
// @Security     Bearer
// @Produce      json
// @Param        productId            path   string  true  "ID del producto"
// @Param        exclude_supplier_id  query  string  true  "proveedor actual"
// @Success      200  {object}  dto.PriceComparisonResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{productId}/price-comparison [get]
func (h *PriceHandler) Compare(c *fiber.Ctx) error {
	cmp, err := h.uc.ComparePrices(c.UserContext(), c.Params("productId"), c.Query("exclude_supplier_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.PriceComparisonResponse{
		ProductID:      cmp.ProductID,
		CurrentPrice:   priceInfo(cmp.Current),
		CheapestOption: cheapest(cmp.CheapestOption),
	})
}
