package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del libro de inventario.
type MovementType string

const (
	MovementTypeSupplierReceipt MovementType = "supplier_receipt"
	MovementTypeTransferOut     MovementType = "transfer_out"
	MovementTypeTransferIn      MovementType = "transfer_in"
	MovementTypeAdjustment      MovementType = "adjustment"
	MovementTypeSale            MovementType = "sale"
	MovementTypeReturn          MovementType = "return"
	MovementTypeDamage          MovementType = "damage"
	MovementTypeTheft           MovementType = "theft"
	MovementTypeExpired         MovementType = "expired"
)

// InventoryMovement registro inmutable de un cambio de cantidad (libro de auditoría).
// Quantity positivo entrada, negativo salida.
type InventoryMovement struct {
	ID              string
	Type            MovementType
	InventoryItemID string
	ProductID       string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	FromLocationID  string
	ToLocationID    string
	OrderID         string
	OrderLineID     string
	TransferID      string
	Notes           string
	CreatedBy       string
	Metadata        map[string]any
	CreatedAt       time.Time
}
