package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderLineRequest línea en POST /api/supplier-orders.
type CreateOrderLineRequest struct {
	ProductID    string          `json:"product_id,omitempty"`
	SKU          string          `json:"sku,omitempty"`
	Title        string          `json:"title,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
}

// CreateOrderRequest body para POST /api/supplier-orders.
type CreateOrderRequest struct {
	SupplierID            string                   `json:"supplier_id"`
	DestinationLocationID string                   `json:"destination_location_id,omitempty"`
	Currency              string                   `json:"currency,omitempty"`
	Notes                 string                   `json:"notes,omitempty"`
	Lines                 []CreateOrderLineRequest `json:"lines"`
}

// UpdateOrderStatusRequest body para PATCH /api/supplier-orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// ReceiveLineRequest body para POST /api/supplier-order-lines/:id/receive.
type ReceiveLineRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes,omitempty"`
}

// LineIncidentRequest body para POST /api/supplier-order-lines/:id/incident.
type LineIncidentRequest struct {
	HasIncident bool   `json:"has_incident"`
	Notes       string `json:"notes,omitempty"`
}

// CancelLineRequest body opcional para POST /api/supplier-order-lines/:id/cancel.
type CancelLineRequest struct {
	Notes string `json:"notes,omitempty"`
}

// ActorResponse actor con nombre resuelto (display_name ausente si no se pudo resolver).
type ActorResponse struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"display_name,omitempty"`
}

// OrderLineResponse representación de una línea.
type OrderLineResponse struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"order_id"`
	ProductID        *string         `json:"product_id"`
	SKU              string          `json:"sku,omitempty"`
	Title            string          `json:"title"`
	QuantityOrdered  decimal.Decimal `json:"quantity_ordered"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	QuantityPending  decimal.Decimal `json:"quantity_pending"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	DiscountRate     decimal.Decimal `json:"discount_rate"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	LineStatus       string          `json:"line_status"`
	Notes            string          `json:"notes,omitempty"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OrderResponse representación de una orden con sus líneas.
type OrderResponse struct {
	ID                      string              `json:"id"`
	DisplayID               string              `json:"display_id"`
	SupplierID              string              `json:"supplier_id"`
	OrderType               string              `json:"order_type"`
	Status                  string              `json:"status"`
	NextStatuses            []string            `json:"next_statuses"`
	Currency                string              `json:"currency"`
	Subtotal                decimal.Decimal     `json:"subtotal"`
	TaxTotal                decimal.Decimal     `json:"tax_total"`
	Total                   decimal.Decimal     `json:"total"`
	SourceLocationID        string              `json:"source_location_id,omitempty"`
	SourceLocationName      string              `json:"source_location_name,omitempty"`
	DestinationLocationID   string              `json:"destination_location_id,omitempty"`
	DestinationLocationName string              `json:"destination_location_name,omitempty"`
	Notes                   string              `json:"notes,omitempty"`
	CreatedBy               *ActorResponse      `json:"created_by,omitempty"`
	ReceivedBy              *ActorResponse      `json:"received_by,omitempty"`
	ConfirmedAt             *time.Time          `json:"confirmed_at,omitempty"`
	ShippedAt               *time.Time          `json:"shipped_at,omitempty"`
	ReceivedAt              *time.Time          `json:"received_at,omitempty"`
	CreatedAt               time.Time           `json:"created_at"`
	UpdatedAt               time.Time           `json:"updated_at"`
	Lines                   []OrderLineResponse `json:"lines,omitempty"`
}

// OrderListResponse listado paginado de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
