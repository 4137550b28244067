package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
	dsupplier "github.com/jhoicas/Proveedores-api/internal/domain/supplier"
)

var _ repository.OrderLineRepository = (*OrderLineRepo)(nil)

// OrderLineRepo persistencia de líneas de orden y consultas de precios históricos.
type OrderLineRepo struct {
	q Querier
}

// NewOrderLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderLineRepository(q Querier) *OrderLineRepo {
	return &OrderLineRepo{q: q}
}

const lineColumns = `id, order_id, product_id, sku, title, quantity_ordered, quantity_received, quantity_pending,
	stock_synced_quantity, unit_price, tax_rate, discount_rate, total_price, status, notes, metadata, created_at, updated_at`

func scanLine(row pgx.Row) (*entity.OrderLine, error) {
	var l entity.OrderLine
	var productID, sku, notes *string
	err := row.Scan(&l.ID, &l.OrderID, &productID, &sku, &l.Title,
		&l.QuantityOrdered, &l.QuantityReceived, &l.QuantityPending, &l.StockSyncedQuantity,
		&l.UnitPrice, &l.TaxRate, &l.DiscountRate, &l.TotalPrice,
		&l.Status, &notes, &l.Metadata, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.ProductID, l.SKU, l.Notes = deref(productID), deref(sku), deref(notes)
	return &l, nil
}

func (r *OrderLineRepo) Create(ctx context.Context, l *entity.OrderLine) error {
	query := `
		INSERT INTO supplier_order_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.OrderID, nullable(l.ProductID), nullable(l.SKU), l.Title,
		l.QuantityOrdered, l.QuantityReceived, l.QuantityPending, l.StockSyncedQuantity,
		l.UnitPrice, l.TaxRate, l.DiscountRate, l.TotalPrice,
		l.Status, nullable(l.Notes), metadata(l.Metadata), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create supplier order line: %w", err)
	}
	return nil
}

func (r *OrderLineRepo) GetByID(ctx context.Context, id string) (*entity.OrderLine, error) {
	l, err := scanLine(r.q.QueryRow(ctx, `SELECT `+lineColumns+` FROM supplier_order_lines WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier order line: %w", err)
	}
	return l, nil
}

func (r *OrderLineRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderLine, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+lineColumns+` FROM supplier_order_lines WHERE order_id = $1 ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list supplier order lines: %w", err)
	}
	defer rows.Close()
	var out []*entity.OrderLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier order line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *OrderLineRepo) Update(ctx context.Context, l *entity.OrderLine) error {
	query := `
		UPDATE supplier_order_lines
		SET quantity_received = $2, quantity_pending = $3, stock_synced_quantity = $4,
		    unit_price = $5, tax_rate = $6, discount_rate = $7, total_price = $8,
		    status = $9, notes = $10, metadata = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		l.ID, l.QuantityReceived, l.QuantityPending, l.StockSyncedQuantity,
		l.UnitPrice, l.TaxRate, l.DiscountRate, l.TotalPrice,
		l.Status, nullable(l.Notes), metadata(l.Metadata), l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier order line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderLineRepo) DeleteByOrder(ctx context.Context, orderID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM supplier_order_lines WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete supplier order lines: %w", err)
	}
	return nil
}

// ListPricePoints precios de líneas en órdenes de proveedor con estado en statuses, más recientes primero.
// Las órdenes de traslado no cuentan como precio de compra.
func (r *OrderLineRepo) ListPricePoints(ctx context.Context, productID, supplierID string, statuses []entity.OrderStatus) ([]dsupplier.PricePoint, error) {
	st := make([]string, len(statuses))
	for i, s := range statuses {
		st[i] = string(s)
	}
	query := `
		SELECT o.supplier_id, s.name, o.id, o.status, o.created_at,
		       l.product_id, COALESCE(l.sku, ''), l.unit_price, l.tax_rate, l.discount_rate
		FROM supplier_order_lines l
		JOIN supplier_orders o ON o.id = l.order_id
		JOIN suppliers s ON s.id = o.supplier_id
		WHERE l.product_id = $1
		  AND o.type = 'supplier'
		  AND ($2::text = '' OR o.supplier_id::text = $2::text)
		  AND o.status = ANY($3::text[])
		ORDER BY o.created_at DESC`
	rows, err := r.q.Query(ctx, query, productID, supplierID, st)
	if err != nil {
		return nil, fmt.Errorf("list price points: %w", err)
	}
	defer rows.Close()
	var out []dsupplier.PricePoint
	for rows.Next() {
		var p dsupplier.PricePoint
		if err := rows.Scan(&p.SupplierID, &p.SupplierName, &p.OrderID, &p.OrderStatus, &p.OrderDate,
			&p.ProductID, &p.SKU, &p.UnitPrice, &p.TaxRate, &p.DiscountRate); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
