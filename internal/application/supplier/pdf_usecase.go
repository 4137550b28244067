package supplier

import (
	"context"
	"fmt"

	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

// ActorNamer resuelve el nombre visible de un actor (con respaldo al id crudo).
type ActorNamer interface {
	DisplayName(ctx context.Context, actorID string) string
}

// PDFUseCase genera el documento PDF de una orden (compra o traslado).
type PDFUseCase struct {
	repos     repository.Repositories
	actors    ActorNamer
	generator OrderPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(repos repository.Repositories, actors ActorNamer, generator OrderPDFGenerator) *PDFUseCase {
	return &PDFUseCase{repos: repos, actors: actors, generator: generator}
}

// DownloadOrderPDF carga orden, líneas y proveedor y devuelve (pdfBytes, filename).
// Las órdenes draft no tienen documento: domain.ErrInvalidInput.
func (uc *PDFUseCase) DownloadOrderPDF(ctx context.Context, orderID string) ([]byte, string, error) {
	order, err := loadOrder(ctx, uc.repos, orderID)
	if err != nil {
		return nil, "", err
	}
	if order.Status == entity.OrderStatusDraft {
		return nil, "", domain.ValidationError("la orden %s está en draft", order.DisplayID)
	}
	sup, err := uc.repos.Suppliers.GetByID(ctx, order.SupplierID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener proveedor: %w", err)
	}
	if sup == nil {
		return nil, "", domain.NotFoundError("proveedor", order.SupplierID)
	}

	doc := OrderDocument{
		Order:         order,
		Supplier:      sup,
		CreatedByName: uc.actors.DisplayName(ctx, order.CreatedBy),
	}
	if order.ReceivedBy != "" {
		doc.ReceivedName = uc.actors.DisplayName(ctx, order.ReceivedBy)
	}
	pdfBytes, err := uc.generator.GenerateOrderPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	return pdfBytes, fmt.Sprintf("orden-%s.pdf", order.DisplayID), nil
}
