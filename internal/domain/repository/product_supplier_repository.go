package repository

import (
	"context"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
)

// ProductSupplierRepository puerto para vínculos producto-proveedor e historial de costos.
type ProductSupplierRepository interface {
	Create(ctx context.Context, link *entity.ProductSupplier) error
	GetByID(ctx context.Context, id string) (*entity.ProductSupplier, error)
	GetByProductAndSupplier(ctx context.Context, productID, supplierID string) (*entity.ProductSupplier, error)
	Update(ctx context.Context, link *entity.ProductSupplier) error
}
