package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

// MovementQuery filtros de consulta del libro de movimientos. Se requiere item o ubicación.
type MovementQuery struct {
	InventoryItemID string
	LocationID      string
	From            *time.Time
	To              *time.Time
	Limit           int
	Offset          int
}

// MovementQueryUseCase consultas de solo lectura sobre el libro de movimientos.
type MovementQueryUseCase struct {
	movements repository.InventoryMovementRepository
}

func NewMovementQueryUseCase(movements repository.InventoryMovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movements: movements}
}

// List devuelve movimientos por ítem (si se indica) o por ubicación, más recientes primero.
func (uc *MovementQueryUseCase) List(ctx context.Context, q MovementQuery) ([]*entity.InventoryMovement, error) {
	if q.InventoryItemID == "" && q.LocationID == "" {
		return nil, domain.ValidationError("inventory_item_id o location_id es requerido")
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, domain.ValidationError("rango de fechas inválido")
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	f := repository.MovementFilter{From: q.From, To: q.To, Limit: q.Limit, Offset: q.Offset}
	if q.InventoryItemID != "" {
		out, err := uc.movements.ListByInventoryItem(ctx, q.InventoryItemID, f)
		if err != nil {
			return nil, err
		}
		if q.LocationID == "" {
			return out, nil
		}
		filtered := out[:0]
		for _, m := range out {
			if m.FromLocationID == q.LocationID || m.ToLocationID == q.LocationID {
				filtered = append(filtered, m)
			}
		}
		return filtered, nil
	}
	return uc.movements.ListByLocation(ctx, q.LocationID, f)
}
