package supplier

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

// syncStock suma al stock de la bodega de recepción la parte no sincronizada de cada línea con producto.
// Es best-effort: cualquier fallo se registra y el cambio de estado ya confirmado se mantiene.
// Cada línea se sincroniza en su propia transacción junto con su movimiento de ajuste.
func (uc *OrderUseCase) syncStock(ctx context.Context, order *entity.Order, actorID string) {
	switch order.Type {
	case entity.OrderTypeTransfer:
		// el stock de los traslados lo mueve la saga
		return
	case entity.OrderTypeSupplier:
	}

	locationID := uc.receivingLocation(order)
	if locationID == "" {
		uc.log.Warn().Str("order_id", order.ID).Msg("sin bodega de recepción; no se sincroniza stock")
		return
	}

	for _, line := range order.Lines {
		if !line.HasProduct() || line.Status == entity.LineStatusCancelled {
			continue
		}
		delta := line.QuantityOrdered.Sub(line.StockSyncedQuantity)
		if !delta.IsPositive() {
			continue
		}
		if err := uc.syncLine(ctx, order, line, locationID, delta, actorID); err != nil {
			uc.log.Error().Err(err).
				Str("order_id", order.ID).
				Str("line_id", line.ID).
				Str("status", string(order.Status)).
				Msg("fallo sincronizando stock de la línea")
		}
	}
}

func (uc *OrderUseCase) syncLine(ctx context.Context, order *entity.Order, line *entity.OrderLine, locationID string, delta decimal.Decimal, actorID string) error {
	ref, err := uc.products.Resolve(ctx, line.ProductID)
	if err != nil {
		return err
	}
	if ref == nil {
		uc.log.Warn().Str("product_id", line.ProductID).Msg("producto sin ítem de inventario; se omite")
		return nil
	}
	now := uc.now()
	updated := *line
	updated.StockSyncedQuantity = line.StockSyncedQuantity.Add(delta)
	updated.UpdatedAt = now
	err = uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		level, err := r.Levels.GetForUpdate(ctx, ref.InventoryItemID, locationID)
		if err != nil {
			return err
		}
		if level == nil {
			level = &entity.InventoryLevel{
				ID:               uuid.New().String(),
				InventoryItemID:  ref.InventoryItemID,
				LocationID:       locationID,
				StockedQuantity:  delta,
				ReservedQuantity: decimal.Zero,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := r.Levels.Create(ctx, level); err != nil {
				return err
			}
		} else {
			level.StockedQuantity = level.StockedQuantity.Add(delta)
			level.UpdatedAt = now
			if err := r.Levels.Update(ctx, level); err != nil {
				return err
			}
		}

		if err := r.Lines.Update(ctx, &updated); err != nil {
			return err
		}

		return r.Movements.Create(ctx, &entity.InventoryMovement{
			ID:              uuid.New().String(),
			Type:            entity.MovementTypeAdjustment,
			InventoryItemID: ref.InventoryItemID,
			ProductID:       line.ProductID,
			Quantity:        delta,
			UnitCost:        line.UnitPrice,
			ToLocationID:    locationID,
			OrderID:         order.ID,
			OrderLineID:     line.ID,
			CreatedBy:       actorID,
			Metadata:        map[string]any{"source": "status_sync", "status": string(order.Status), "stock_effect": true},
			CreatedAt:       now,
		})
	})
	if err != nil {
		return err
	}
	*line = updated
	return nil
}
