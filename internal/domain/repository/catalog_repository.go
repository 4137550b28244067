package repository

import (
	"context"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
)

// ProductRepository resuelve productos a su ítem de inventario. nil, nil si no existe.
type ProductRepository interface {
	Resolve(ctx context.Context, productID string) (*entity.ProductRef, error)
}

// LocationRepository consulta ubicaciones de stock. nil, nil si no existe.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockLocation, error)
}

// UserRepository consulta usuarios para mostrar actores. nil, nil si no existe.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
