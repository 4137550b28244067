package repository

import (
	"context"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/supplier"
)

// OrderFilter filtros opcionales para listar órdenes.
type OrderFilter struct {
	SupplierID string
	Status     entity.OrderStatus
	Type       entity.OrderType
	Limit      int
	Offset     int
}

// OrderRepository define el puerto de persistencia para órdenes (sin líneas).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
}

// OrderLineRepository define el puerto de persistencia para líneas de orden.
type OrderLineRepository interface {
	Create(ctx context.Context, line *entity.OrderLine) error
	GetByID(ctx context.Context, id string) (*entity.OrderLine, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderLine, error)
	Update(ctx context.Context, line *entity.OrderLine) error
	DeleteByOrder(ctx context.Context, orderID string) error
	// ListPricePoints devuelve los precios de líneas del producto con su orden y proveedor.
	// supplierID vacío = todos los proveedores.
	ListPricePoints(ctx context.Context, productID, supplierID string, statuses []entity.OrderStatus) ([]supplier.PricePoint, error)
}
