package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLevel stock de un ítem de inventario en una ubicación.
// Lo administra el servicio de inventario; el libro de movimientos no lo deriva.
type InventoryLevel struct {
	ID               string
	InventoryItemID  string
	LocationID       string
	StockedQuantity  decimal.Decimal
	ReservedQuantity decimal.Decimal
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
