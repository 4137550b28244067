package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

var _ repository.InventoryLevelRepository = (*InventoryLevelRepo)(nil)

// InventoryLevelRepo stock por ítem y ubicación con versión para control optimista.
type InventoryLevelRepo struct {
	q Querier
}

// NewInventoryLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryLevelRepository(q Querier) *InventoryLevelRepo {
	return &InventoryLevelRepo{q: q}
}

const levelColumns = `id, inventory_item_id, location_id, stocked_quantity, reserved_quantity, version, created_at, updated_at`

func (r *InventoryLevelRepo) get(ctx context.Context, query, itemID, locationID string) (*entity.InventoryLevel, error) {
	var l entity.InventoryLevel
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(
		&l.ID, &l.InventoryItemID, &l.LocationID, &l.StockedQuantity, &l.ReservedQuantity,
		&l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory level: %w", err)
	}
	return &l, nil
}

// Get obtiene el nivel de stock; nil si el ítem no tiene fila en la ubicación.
func (r *InventoryLevelRepo) Get(ctx context.Context, inventoryItemID, locationID string) (*entity.InventoryLevel, error) {
	return r.get(ctx, `
		SELECT `+levelColumns+` FROM inventory_levels
		WHERE inventory_item_id = $1 AND location_id = $2`, inventoryItemID, locationID)
}

// GetForUpdate obtiene el nivel y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *InventoryLevelRepo) GetForUpdate(ctx context.Context, inventoryItemID, locationID string) (*entity.InventoryLevel, error) {
	return r.get(ctx, `
		SELECT `+levelColumns+` FROM inventory_levels
		WHERE inventory_item_id = $1 AND location_id = $2
		FOR UPDATE`, inventoryItemID, locationID)
}

func (r *InventoryLevelRepo) Create(ctx context.Context, l *entity.InventoryLevel) error {
	query := `
		INSERT INTO inventory_levels (id, inventory_item_id, location_id, stocked_quantity, reserved_quantity, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.InventoryItemID, l.LocationID, l.StockedQuantity, l.ReservedQuantity, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create inventory level: %w", err)
	}
	l.Version = 1
	return nil
}

// Update escribe cantidades si la versión no cambió desde la lectura; si cambió devuelve ErrConflict.
func (r *InventoryLevelRepo) Update(ctx context.Context, l *entity.InventoryLevel) error {
	query := `
		UPDATE inventory_levels
		SET stocked_quantity = $2, reserved_quantity = $3, version = version + 1, updated_at = $4
		WHERE id = $1 AND version = $5
		RETURNING version`
	err := r.q.QueryRow(ctx, query, l.ID, l.StockedQuantity, l.ReservedQuantity, l.UpdatedAt, l.Version).Scan(&l.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update inventory level: %w", err)
	}
	return nil
}

func (r *InventoryLevelRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_levels WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete inventory level: %w", err)
	}
	return nil
}
