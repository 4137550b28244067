package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineStatus estado de una línea de la orden.
type LineStatus string

const (
	LineStatusPending   LineStatus = "pending"
	LineStatusPartial   LineStatus = "partial"
	LineStatusReceived  LineStatus = "received"
	LineStatusIncident  LineStatus = "incident"
	LineStatusCancelled LineStatus = "cancelled"
)

// OrderLine una línea de producto dentro de una orden.
// ProductID vacío = entrada manual (texto libre), sin efectos sobre inventario.
type OrderLine struct {
	ID                  string
	OrderID             string
	ProductID           string
	SKU                 string
	Title               string
	QuantityOrdered     decimal.Decimal
	QuantityReceived    decimal.Decimal
	QuantityPending     decimal.Decimal
	StockSyncedQuantity decimal.Decimal // cantidad ya sumada al stock de la bodega de recepción
	UnitPrice           decimal.Decimal
	TaxRate             decimal.Decimal
	DiscountRate        decimal.Decimal
	TotalPrice          decimal.Decimal
	Status              LineStatus
	Notes               string
	Metadata            map[string]any
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasProduct indica si la línea afecta inventario.
func (l *OrderLine) HasProduct() bool { return l.ProductID != "" }
