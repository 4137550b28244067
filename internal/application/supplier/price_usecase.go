package supplier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
	dsupplier "github.com/jhoicas/Proveedores-api/internal/domain/supplier"
	"github.com/jhoicas/Proveedores-api/pkg/logger"
)

// PriceInfo último precio pagado a un proveedor por un producto.
type PriceInfo struct {
	SupplierID   string
	SupplierName string
	ProductID    string
	SKU          string
	UnitPrice    decimal.Decimal
	TaxRate      decimal.Decimal
	DiscountRate decimal.Decimal
	OrderID      string
	OrderDate    time.Time
}

// PriceComparison resultado de comparar el proveedor actual contra el resto.
// Current nil = el proveedor actual no tiene precio histórico; CheapestOption nil = no hay alternativa más barata.
type PriceComparison struct {
	ProductID      string
	Current        *PriceInfo
	CheapestOption *dsupplier.PriceCandidate
}

// PriceUseCase vínculos producto-proveedor, historial de costos y consultas de precios históricos.
type PriceUseCase struct {
	repos        repository.Repositories
	products     repository.ProductRepository
	includeDraft bool
	log          *logger.Logger
	now          func() time.Time
}

// NewPriceUseCase construye el caso de uso. includeDraft decide si las órdenes draft cuentan.
func NewPriceUseCase(repos repository.Repositories, products repository.ProductRepository, includeDraft bool, log *logger.Logger) *PriceUseCase {
	return &PriceUseCase{
		repos:        repos,
		products:     products,
		includeDraft: includeDraft,
		log:          log.Component("supplier_prices"),
		now:          time.Now,
	}
}

// LinkProductInput entrada para vincular un producto a un proveedor.
type LinkProductInput struct {
	ProductID   string
	SupplierID  string
	SupplierSKU string
	CostPrice   decimal.Decimal
}

// LinkProduct crea el vínculo o, si ya existe, actualiza SKU y costo (registrando el cambio de precio).
func (uc *PriceUseCase) LinkProduct(ctx context.Context, actorID string, in LinkProductInput) (*entity.ProductSupplier, error) {
	if in.ProductID == "" || in.SupplierID == "" {
		return nil, domain.ValidationError("product_id y supplier_id son requeridos")
	}
	if in.CostPrice.IsNegative() {
		return nil, domain.ValidationError("cost_price negativo")
	}
	sup, err := uc.repos.Suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, domain.NotFoundError("proveedor", in.SupplierID)
	}
	ref, err := uc.products.Resolve(ctx, in.ProductID)
	if err != nil {
		return nil, domain.External("products", err)
	}
	if ref == nil {
		return nil, domain.NotFoundError("producto", in.ProductID)
	}

	now := uc.now()
	link, err := uc.repos.ProductSuppliers.GetByProductAndSupplier(ctx, in.ProductID, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if link != nil {
		if in.SupplierSKU != "" {
			link.SupplierSKU = in.SupplierSKU
		}
		dsupplier.AppendPriceChange(link, in.CostPrice, actorID, now)
		link.UpdatedAt = now
		if err := uc.repos.ProductSuppliers.Update(ctx, link); err != nil {
			return nil, fmt.Errorf("actualizar vínculo: %w", err)
		}
		return link, nil
	}

	link = &entity.ProductSupplier{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		SupplierID:  in.SupplierID,
		SupplierSKU: in.SupplierSKU,
		CostPrice:   in.CostPrice,
		Metadata:    map[string]any{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repos.ProductSuppliers.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("crear vínculo: %w", err)
	}
	return link, nil
}

// UpdateCostPrice cambia el costo del vínculo y agrega la entrada al historial (nunca se recorta).
func (uc *PriceUseCase) UpdateCostPrice(ctx context.Context, linkID string, newPrice decimal.Decimal, actorID string) (*entity.ProductSupplier, error) {
	if newPrice.IsNegative() {
		return nil, domain.ValidationError("cost_price negativo")
	}
	link, err := uc.repos.ProductSuppliers.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, domain.NotFoundError("vínculo producto-proveedor", linkID)
	}
	if !dsupplier.AppendPriceChange(link, newPrice, actorID, uc.now()) {
		return link, nil
	}
	if err := uc.repos.ProductSuppliers.Update(ctx, link); err != nil {
		return nil, fmt.Errorf("actualizar costo: %w", err)
	}
	uc.log.Info().Str("link_id", link.ID).Str("new_price", newPrice.String()).Str("actor", actorID).Msg("costo de proveedor actualizado")
	return link, nil
}

// LastPrice devuelve el precio de la línea más reciente del proveedor para el producto, o nil.
// El SKU del vínculo producto-proveedor tiene prioridad sobre el de las líneas.
func (uc *PriceUseCase) LastPrice(ctx context.Context, supplierID, productID string) (*PriceInfo, error) {
	if supplierID == "" || productID == "" {
		return nil, domain.ValidationError("supplier_id y product_id son requeridos")
	}
	sup, err := uc.repos.Suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, domain.NotFoundError("proveedor", supplierID)
	}
	statuses := dsupplier.PriceEligibleStatuses(uc.includeDraft)
	points, err := uc.repos.Lines.ListPricePoints(ctx, productID, supplierID, statuses)
	if err != nil {
		return nil, fmt.Errorf("precios históricos: %w", err)
	}
	latest := dsupplier.LatestPrice(points, statuses)
	if latest == nil {
		return nil, nil
	}
	info := &PriceInfo{
		SupplierID:   sup.ID,
		SupplierName: sup.Name,
		ProductID:    productID,
		SKU:          latest.SKU,
		UnitPrice:    latest.UnitPrice,
		TaxRate:      latest.TaxRate,
		DiscountRate: latest.DiscountRate,
		OrderID:      latest.OrderID,
		OrderDate:    latest.OrderDate,
	}
	link, err := uc.repos.ProductSuppliers.GetByProductAndSupplier(ctx, productID, supplierID)
	if err != nil {
		return nil, err
	}
	if link != nil && link.SupplierSKU != "" {
		info.SKU = link.SupplierSKU
	}
	return info, nil
}

// ComparePrices busca en los demás proveedores la alternativa más barata que el último precio
// del proveedor excluido. Sin precio actual o sin alternativa con ahorro positivo, el resultado va vacío.
func (uc *PriceUseCase) ComparePrices(ctx context.Context, productID, excludeSupplierID string) (*PriceComparison, error) {
	current, err := uc.LastPrice(ctx, excludeSupplierID, productID)
	if err != nil {
		return nil, err
	}
	result := &PriceComparison{ProductID: productID, Current: current}
	if current == nil {
		return result, nil
	}
	statuses := dsupplier.PriceEligibleStatuses(uc.includeDraft)
	points, err := uc.repos.Lines.ListPricePoints(ctx, productID, "", statuses)
	if err != nil {
		return nil, fmt.Errorf("precios históricos: %w", err)
	}
	bySupplier := dsupplier.LatestBySupplier(points, statuses)
	result.CheapestOption = dsupplier.CheapestAlternative(current.UnitPrice, bySupplier, excludeSupplierID)
	return result, nil
}
