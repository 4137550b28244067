package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStockRequest body para POST /api/inventory/transfers (y /validate).
type TransferStockRequest struct {
	InventoryItemID string          `json:"inventory_item_id,omitempty"`
	ProductID       string          `json:"product_id"`
	FromLocationID  string          `json:"from_location_id"`
	ToLocationID    string          `json:"to_location_id"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// StockSnapshotDTO stock de origen y destino en un instante.
type StockSnapshotDTO struct {
	Source      decimal.Decimal `json:"source"`
	Destination decimal.Decimal `json:"destination"`
}

// TransferStockResponse resultado del traslado.
type TransferStockResponse struct {
	TransferID  string           `json:"transfer_id"`
	Order       OrderResponse    `json:"order"`
	StockBefore StockSnapshotDTO `json:"stock_before"`
	StockAfter  StockSnapshotDTO `json:"stock_after"`
}

// TransferValidationResponse resultado de la validación previa (consultiva).
type TransferValidationResponse struct {
	Valid           bool            `json:"valid"`
	InventoryItemID string          `json:"inventory_item_id"`
	Available       decimal.Decimal `json:"available"`
	Requested       decimal.Decimal `json:"requested"`
}

// MovementResponse fila del libro de movimientos.
type MovementResponse struct {
	ID              string          `json:"id"`
	Type            string          `json:"movement_type"`
	InventoryItemID string          `json:"inventory_item_id"`
	ProductID       string          `json:"product_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	FromLocationID  string          `json:"from_location_id,omitempty"`
	ToLocationID    string          `json:"to_location_id,omitempty"`
	OrderID         string          `json:"order_id,omitempty"`
	OrderLineID     string          `json:"order_line_id,omitempty"`
	TransferID      string          `json:"transfer_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       *ActorResponse  `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
