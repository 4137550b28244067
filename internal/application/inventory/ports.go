package inventory

import (
	"context"

	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Cada paso de la saga de traslado que toca stock se confirma en su propia transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}
