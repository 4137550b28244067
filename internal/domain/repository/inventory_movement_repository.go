package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
)

// MovementFilter rango de fechas y paginación para consultas del libro.
type MovementFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// InventoryMovementRepository puerto del libro de movimientos. Solo inserción y lectura.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.InventoryMovement, error)
	ListByInventoryItem(ctx context.Context, inventoryItemID string, f MovementFilter) ([]*entity.InventoryMovement, error)
	ListByLocation(ctx context.Context, locationID string, f MovementFilter) ([]*entity.InventoryMovement, error)
}
