package repository

import (
	"context"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
)

// InventoryLevelRepository puerto hacia los niveles de stock por ítem+ubicación.
// Get devuelve nil, nil si no existe el nivel.
type InventoryLevelRepository interface {
	Get(ctx context.Context, inventoryItemID, locationID string) (*entity.InventoryLevel, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de la transacción.
	GetForUpdate(ctx context.Context, inventoryItemID, locationID string) (*entity.InventoryLevel, error)
	Create(ctx context.Context, level *entity.InventoryLevel) error
	Update(ctx context.Context, level *entity.InventoryLevel) error
	Delete(ctx context.Context, id string) error
}
