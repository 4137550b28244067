package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

// Adaptadores de solo lectura sobre las tablas del catálogo, ubicaciones y usuarios,
// que pertenecen a otros módulos del back-office.

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
)

type ProductRepo struct {
	q Querier
}

func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Resolve obtiene el ítem de inventario de un producto; nil si no existe.
func (r *ProductRepo) Resolve(ctx context.Context, productID string) (*entity.ProductRef, error) {
	query := `
		SELECT id, inventory_item_id, title, COALESCE(sku, '')
		FROM products WHERE id = $1`
	var p entity.ProductRef
	err := r.q.QueryRow(ctx, query, productID).Scan(&p.ProductID, &p.InventoryItemID, &p.Title, &p.SKU)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve product: %w", err)
	}
	return &p, nil
}

type LocationRepo struct {
	q Querier
}

func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.StockLocation, error) {
	var l entity.StockLocation
	err := r.q.QueryRow(ctx, `SELECT id, name FROM stock_locations WHERE id = $1`, id).Scan(&l.ID, &l.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock location: %w", err)
	}
	return &l, nil
}

type UserRepo struct {
	q Querier
}

func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	var first, last *string
	err := r.q.QueryRow(ctx, `SELECT id, first_name, last_name, email FROM users WHERE id = $1`, id).
		Scan(&u.ID, &first, &last, &u.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.FirstName, u.LastName = deref(first), deref(last)
	return &u, nil
}
