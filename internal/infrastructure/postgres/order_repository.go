package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo persistencia de la cabecera de órdenes de proveedor y traslado.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, display_id, supplier_id, type, status, currency, subtotal, tax_total, total,
	source_location_id, source_location_name, destination_location_id, destination_location_name,
	notes, created_by, received_by, confirmed_at, shipped_at, received_at, metadata, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var srcID, srcName, dstID, dstName, notes, createdBy, receivedBy *string
	err := row.Scan(&o.ID, &o.DisplayID, &o.SupplierID, &o.Type, &o.Status, &o.Currency,
		&o.Subtotal, &o.TaxTotal, &o.Total,
		&srcID, &srcName, &dstID, &dstName,
		&notes, &createdBy, &receivedBy, &o.ConfirmedAt, &o.ShippedAt, &o.ReceivedAt,
		&o.Metadata, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.SourceLocationID, o.SourceLocationName = deref(srcID), deref(srcName)
	o.DestinationLocationID, o.DestinationLocationName = deref(dstID), deref(dstName)
	o.Notes, o.CreatedBy, o.ReceivedBy = deref(notes), deref(createdBy), deref(receivedBy)
	return &o, nil
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO supplier_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.DisplayID, o.SupplierID, o.Type, o.Status, o.Currency, o.Subtotal, o.TaxTotal, o.Total,
		nullable(o.SourceLocationID), nullable(o.SourceLocationName),
		nullable(o.DestinationLocationID), nullable(o.DestinationLocationName),
		nullable(o.Notes), nullable(o.CreatedBy), nullable(o.ReceivedBy),
		o.ConfirmedAt, o.ShippedAt, o.ReceivedAt, metadata(o.Metadata), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create supplier order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM supplier_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier order: %w", err)
	}
	return o, nil
}

// Update persiste estado, totales e hitos. Las líneas se actualizan por su repositorio.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE supplier_orders
		SET status = $2, subtotal = $3, tax_total = $4, total = $5, notes = $6, received_by = $7,
		    confirmed_at = $8, shipped_at = $9, received_at = $10, metadata = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.Status, o.Subtotal, o.TaxTotal, o.Total, nullable(o.Notes), nullable(o.ReceivedBy),
		o.ConfirmedAt, o.ShippedAt, o.ReceivedAt, metadata(o.Metadata), o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM supplier_orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete supplier order: %w", err)
	}
	return nil
}

func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.SupplierID != "" {
		add("supplier_id = $%d", f.SupplierID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	query := `SELECT ` + orderColumns + ` FROM supplier_orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT NULLIF($%d, 0) OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list supplier orders: %w", err)
	}
	defer rows.Close()
	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
