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

var _ repository.ProductSupplierRepository = (*ProductSupplierRepo)(nil)

// ProductSupplierRepo vínculos producto-proveedor; price_history es jsonb append-only.
type ProductSupplierRepo struct {
	q Querier
}

// NewProductSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductSupplierRepository(q Querier) *ProductSupplierRepo {
	return &ProductSupplierRepo{q: q}
}

const productSupplierColumns = `id, product_id, supplier_id, supplier_sku, cost_price, price_history, metadata, created_at, updated_at`

func scanProductSupplier(row pgx.Row) (*entity.ProductSupplier, error) {
	var ps entity.ProductSupplier
	var sku *string
	err := row.Scan(&ps.ID, &ps.ProductID, &ps.SupplierID, &sku, &ps.CostPrice,
		&ps.PriceHistory, &ps.Metadata, &ps.CreatedAt, &ps.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ps.SupplierSKU = deref(sku)
	return &ps, nil
}

func history(h []entity.PriceChange) []entity.PriceChange {
	if h == nil {
		return []entity.PriceChange{}
	}
	return h
}

func (r *ProductSupplierRepo) Create(ctx context.Context, ps *entity.ProductSupplier) error {
	query := `
		INSERT INTO product_suppliers (` + productSupplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		ps.ID, ps.ProductID, ps.SupplierID, nullable(ps.SupplierSKU), ps.CostPrice,
		history(ps.PriceHistory), metadata(ps.Metadata), ps.CreatedAt, ps.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product supplier: %w", err)
	}
	return nil
}

func (r *ProductSupplierRepo) GetByID(ctx context.Context, id string) (*entity.ProductSupplier, error) {
	ps, err := scanProductSupplier(r.q.QueryRow(ctx,
		`SELECT `+productSupplierColumns+` FROM product_suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product supplier: %w", err)
	}
	return ps, nil
}

func (r *ProductSupplierRepo) GetByProductAndSupplier(ctx context.Context, productID, supplierID string) (*entity.ProductSupplier, error) {
	ps, err := scanProductSupplier(r.q.QueryRow(ctx,
		`SELECT `+productSupplierColumns+` FROM product_suppliers WHERE product_id = $1 AND supplier_id = $2`,
		productID, supplierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product supplier: %w", err)
	}
	return ps, nil
}

func (r *ProductSupplierRepo) Update(ctx context.Context, ps *entity.ProductSupplier) error {
	query := `
		UPDATE product_suppliers
		SET supplier_sku = $2, cost_price = $3, price_history = $4, metadata = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		ps.ID, nullable(ps.SupplierSKU), ps.CostPrice, history(ps.PriceHistory), metadata(ps.Metadata), ps.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
