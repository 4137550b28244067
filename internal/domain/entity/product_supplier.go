package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceChange entrada del historial de costos. Inmutable.
type PriceChange struct {
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	ChangedAt time.Time       `json:"changed_at"`
	ChangedBy string          `json:"changed_by"`
}

// ProductSupplier vínculo producto-proveedor con costo vigente e historial append-only.
type ProductSupplier struct {
	ID           string
	ProductID    string
	SupplierID   string
	SupplierSKU  string
	CostPrice    decimal.Decimal
	PriceHistory []PriceChange
	Metadata     map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
