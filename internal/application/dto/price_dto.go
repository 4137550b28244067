package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LinkProductSupplierRequest body para POST /api/product-suppliers.
type LinkProductSupplierRequest struct {
	ProductID   string          `json:"product_id"`
	SupplierID  string          `json:"supplier_id"`
	SupplierSKU string          `json:"supplier_sku,omitempty"`
	CostPrice   decimal.Decimal `json:"cost_price"`
}

// UpdateCostPriceRequest body para PATCH /api/product-suppliers/:id/cost.
type UpdateCostPriceRequest struct {
	CostPrice decimal.Decimal `json:"cost_price"`
}

// PriceChangeDTO entrada del historial de costos.
type PriceChangeDTO struct {
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	ChangedAt time.Time       `json:"changed_at"`
	ChangedBy string          `json:"changed_by"`
}

// ProductSupplierResponse vínculo con su historial completo.
type ProductSupplierResponse struct {
	ID           string           `json:"id"`
	ProductID    string           `json:"product_id"`
	SupplierID   string           `json:"supplier_id"`
	SupplierSKU  string           `json:"supplier_sku,omitempty"`
	CostPrice    decimal.Decimal  `json:"cost_price"`
	PriceHistory []PriceChangeDTO `json:"price_history"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// PriceInfoResponse último precio de un proveedor para un producto.
type PriceInfoResponse struct {
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	OrderID      string          `json:"order_id"`
	OrderDate    time.Time       `json:"order_date"`
}

// CheapestOptionResponse alternativa más barata.
type CheapestOptionResponse struct {
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	SKU          string          `json:"sku,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Savings      decimal.Decimal `json:"savings"`
	OrderID      string          `json:"order_id"`
	OrderDate    time.Time       `json:"order_date"`
}

// PriceComparisonResponse resultado de GET /api/products/:productId/price-comparison.
type PriceComparisonResponse struct {
	ProductID      string                  `json:"product_id"`
	CurrentPrice   *PriceInfoResponse      `json:"current_price"`
	CheapestOption *CheapestOptionResponse `json:"cheapest_option"`
}
