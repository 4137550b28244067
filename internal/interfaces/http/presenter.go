package http

import (
	"context"

	"github.com/jhoicas/Proveedores-api/internal/application/dto"
	appsupplier "github.com/jhoicas/Proveedores-api/internal/application/supplier"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	dsupplier "github.com/jhoicas/Proveedores-api/internal/domain/supplier"
)

// actorResolver lo implementa *usecase.ActorResolver.
type actorResolver interface {
	Resolve(ctx context.Context, actorID string) entity.ActorRef
}

// presenter convierte entidades en DTOs y resuelve los nombres de actores al responder.
type presenter struct {
	actors actorResolver
}

func (p presenter) actor(ctx context.Context, id string) *dto.ActorResponse {
	if id == "" {
		return nil
	}
	if p.actors == nil {
		return &dto.ActorResponse{ID: id}
	}
	ref := p.actors.Resolve(ctx, id)
	return &dto.ActorResponse{ID: ref.ID, DisplayName: ref.DisplayName}
}

func (p presenter) order(ctx context.Context, o *entity.Order) dto.OrderResponse {
	next := dsupplier.NextStates(o.Status)
	nextStr := make([]string, len(next))
	for i, s := range next {
		nextStr[i] = string(s)
	}
	resp := dto.OrderResponse{
		ID:                      o.ID,
		DisplayID:               o.DisplayID,
		SupplierID:              o.SupplierID,
		OrderType:               string(o.Type),
		Status:                  string(o.Status),
		NextStatuses:            nextStr,
		Currency:                o.Currency,
		Subtotal:                o.Subtotal,
		TaxTotal:                o.TaxTotal,
		Total:                   o.Total,
		SourceLocationID:        o.SourceLocationID,
		SourceLocationName:      o.SourceLocationName,
		DestinationLocationID:   o.DestinationLocationID,
		DestinationLocationName: o.DestinationLocationName,
		Notes:                   o.Notes,
		CreatedBy:               p.actor(ctx, o.CreatedBy),
		ReceivedBy:              p.actor(ctx, o.ReceivedBy),
		ConfirmedAt:             o.ConfirmedAt,
		ShippedAt:               o.ShippedAt,
		ReceivedAt:              o.ReceivedAt,
		CreatedAt:               o.CreatedAt,
		UpdatedAt:               o.UpdatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, line(l))
	}
	return resp
}

func line(l *entity.OrderLine) dto.OrderLineResponse {
	resp := dto.OrderLineResponse{
		ID:               l.ID,
		OrderID:          l.OrderID,
		SKU:              l.SKU,
		Title:            l.Title,
		QuantityOrdered:  l.QuantityOrdered,
		QuantityReceived: l.QuantityReceived,
		QuantityPending:  l.QuantityPending,
		UnitPrice:        l.UnitPrice,
		TaxRate:          l.TaxRate,
		DiscountRate:     l.DiscountRate,
		TotalPrice:       l.TotalPrice,
		LineStatus:       string(l.Status),
		Notes:            l.Notes,
		UpdatedAt:        l.UpdatedAt,
	}
	if l.HasProduct() {
		id := l.ProductID
		resp.ProductID = &id
	}
	return resp
}

func (p presenter) movements(ctx context.Context, ms []*entity.InventoryMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, dto.MovementResponse{
			ID:              m.ID,
			Type:            string(m.Type),
			InventoryItemID: m.InventoryItemID,
			ProductID:       m.ProductID,
			Quantity:        m.Quantity,
			UnitCost:        m.UnitCost,
			FromLocationID:  m.FromLocationID,
			ToLocationID:    m.ToLocationID,
			OrderID:         m.OrderID,
			OrderLineID:     m.OrderLineID,
			TransferID:      m.TransferID,
			Notes:           m.Notes,
			CreatedBy:       p.actor(ctx, m.CreatedBy),
			CreatedAt:       m.CreatedAt,
		})
	}
	return out
}

func productSupplier(ps *entity.ProductSupplier) dto.ProductSupplierResponse {
	hist := make([]dto.PriceChangeDTO, 0, len(ps.PriceHistory))
	for _, h := range ps.PriceHistory {
		hist = append(hist, dto.PriceChangeDTO{OldPrice: h.OldPrice, NewPrice: h.NewPrice, ChangedAt: h.ChangedAt, ChangedBy: h.ChangedBy})
	}
	return dto.ProductSupplierResponse{
		ID:           ps.ID,
		ProductID:    ps.ProductID,
		SupplierID:   ps.SupplierID,
		SupplierSKU:  ps.SupplierSKU,
		CostPrice:    ps.CostPrice,
		PriceHistory: hist,
		UpdatedAt:    ps.UpdatedAt,
	}
}

func priceInfo(pi *appsupplier.PriceInfo) *dto.PriceInfoResponse {
	if pi == nil {
		return nil
	}
	return &dto.PriceInfoResponse{
		SupplierID:   pi.SupplierID,
		SupplierName: pi.SupplierName,
		ProductID:    pi.ProductID,
		SKU:          pi.SKU,
		UnitPrice:    pi.UnitPrice,
		TaxRate:      pi.TaxRate,
		DiscountRate: pi.DiscountRate,
		OrderID:      pi.OrderID,
		OrderDate:    pi.OrderDate,
	}
}

func cheapest(c *dsupplier.PriceCandidate) *dto.CheapestOptionResponse {
	if c == nil {
		return nil
	}
	return &dto.CheapestOptionResponse{
		SupplierID:   c.SupplierID,
		SupplierName: c.SupplierName,
		SKU:          c.SKU,
		UnitPrice:    c.UnitPrice,
		Savings:      c.Savings,
		OrderID:      c.OrderID,
		OrderDate:    c.OrderDate,
	}
}
