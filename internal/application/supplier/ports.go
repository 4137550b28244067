package supplier

import (
	"context"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// OrderPDFGenerator genera el documento PDF de una orden de proveedor o traslado.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, doc OrderDocument) ([]byte, error)
}

// OrderDocument datos necesarios para renderizar una orden.
type OrderDocument struct {
	Order         *entity.Order
	Supplier      *entity.Supplier
	CreatedByName string
	ReceivedName  string
}
