package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType tipo de orden de proveedor.
type OrderType string

const (
	OrderTypeSupplier OrderType = "supplier"
	OrderTypeTransfer OrderType = "transfer"
)

// Valid indica si el tipo es conocido.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeSupplier, OrderTypeTransfer:
		return true
	}
	return false
}

// OrderStatus estado de la orden (ver domain/supplier para la tabla de transiciones).
type OrderStatus string

const (
	OrderStatusDraft             OrderStatus = "draft"
	OrderStatusPending           OrderStatus = "pending"
	OrderStatusConfirmed         OrderStatus = "confirmed"
	OrderStatusShipped           OrderStatus = "shipped"
	OrderStatusPartiallyReceived OrderStatus = "partially_received"
	OrderStatusReceived          OrderStatus = "received"
	OrderStatusIncident          OrderStatus = "incident"
	OrderStatusCancelled         OrderStatus = "cancelled"
)

// OrderStatuses lista todos los estados en orden de ciclo de vida.
var OrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusPartiallyReceived,
	OrderStatusReceived,
	OrderStatusIncident,
	OrderStatusCancelled,
}

// Valid indica si el estado es conocido.
func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Terminal: received y cancelled no tienen transiciones de salida.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusReceived || s == OrderStatusCancelled
}

// Order representa una orden de compra a proveedor o un traslado interno sintetizado como orden.
type Order struct {
	ID                      string
	DisplayID               string
	SupplierID              string
	Type                    OrderType
	Status                  OrderStatus
	Currency                string
	Subtotal                decimal.Decimal
	TaxTotal                decimal.Decimal
	Total                   decimal.Decimal
	SourceLocationID        string // solo traslados
	SourceLocationName      string
	DestinationLocationID   string // traslados; en órdenes de proveedor es la bodega de recepción
	DestinationLocationName string
	Notes                   string
	CreatedBy               string
	ReceivedBy              string
	ConfirmedAt             *time.Time
	ShippedAt               *time.Time
	ReceivedAt              *time.Time
	Metadata                map[string]any
	CreatedAt               time.Time
	UpdatedAt               time.Time

	Lines []*OrderLine
}
