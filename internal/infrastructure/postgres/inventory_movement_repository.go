package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo libro append-only de movimientos (sin UPDATE ni DELETE).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, type, inventory_item_id, product_id, quantity, unit_cost,
	from_location_id, to_location_id, order_id, order_line_id, transfer_id, notes, created_by, metadata, created_at`

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Type, m.InventoryItemID, nullable(m.ProductID), m.Quantity, m.UnitCost,
		nullable(m.FromLocationID), nullable(m.ToLocationID), nullable(m.OrderID), nullable(m.OrderLineID),
		nullable(m.TransferID), nullable(m.Notes), nullable(m.CreatedBy), metadata(m.Metadata), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

func (r *InventoryMovementRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.InventoryMovement, error) {
	return r.list(ctx, `
		SELECT `+movementColumns+` FROM inventory_movements
		WHERE order_id = $1
		ORDER BY created_at DESC, id`, orderID)
}

func (r *InventoryMovementRepo) ListByInventoryItem(ctx context.Context, inventoryItemID string, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	return r.list(ctx, `
		SELECT `+movementColumns+` FROM inventory_movements
		WHERE inventory_item_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id
		LIMIT NULLIF($4, 0) OFFSET $5`, inventoryItemID, f.From, f.To, f.Limit, f.Offset)
}

func (r *InventoryMovementRepo) ListByLocation(ctx context.Context, locationID string, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	return r.list(ctx, `
		SELECT `+movementColumns+` FROM inventory_movements
		WHERE (from_location_id = $1 OR to_location_id = $1)
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id
		LIMIT NULLIF($4, 0) OFFSET $5`, locationID, f.From, f.To, f.Limit, f.Offset)
}

func (r *InventoryMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	var productID, fromID, toID, orderID, lineID, transferID, notes, createdBy *string
	err := row.Scan(&m.ID, &m.Type, &m.InventoryItemID, &productID, &m.Quantity, &m.UnitCost,
		&fromID, &toID, &orderID, &lineID, &transferID, &notes, &createdBy, &m.Metadata, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.ProductID, m.FromLocationID, m.ToLocationID = deref(productID), deref(fromID), deref(toID)
	m.OrderID, m.OrderLineID, m.TransferID = deref(orderID), deref(lineID), deref(transferID)
	m.Notes, m.CreatedBy = deref(notes), deref(createdBy)
	return &m, nil
}
