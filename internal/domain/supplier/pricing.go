package supplier

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
)

// PricePoint precio observado en una línea de orden de un proveedor.
type PricePoint struct {
	SupplierID   string
	SupplierName string
	OrderID      string
	OrderStatus  entity.OrderStatus
	OrderDate    time.Time
	ProductID    string
	SKU          string
	UnitPrice    decimal.Decimal
	TaxRate      decimal.Decimal
	DiscountRate decimal.Decimal
}

// PriceCandidate alternativa más barata en otro proveedor.
type PriceCandidate struct {
	PricePoint
	Savings decimal.Decimal
}

// PriceEligibleStatuses estados de orden que cuentan para el historial de precios.
// draft se incluye por paridad con el comportamiento existente.
func PriceEligibleStatuses(includeDraft bool) []entity.OrderStatus {
	st := []entity.OrderStatus{
		entity.OrderStatusConfirmed,
		entity.OrderStatusShipped,
		entity.OrderStatusPartiallyReceived,
		entity.OrderStatusReceived,
	}
	if includeDraft {
		st = append([]entity.OrderStatus{entity.OrderStatusDraft}, st...)
	}
	return st
}

func eligible(p PricePoint, statuses []entity.OrderStatus) bool {
	for _, s := range statuses {
		if p.OrderStatus == s {
			return true
		}
	}
	return false
}

// LatestPrice devuelve el punto más reciente entre los elegibles; nil si no hay.
// En empate de fecha gana el primero recibido.
func LatestPrice(points []PricePoint, statuses []entity.OrderStatus) *PricePoint {
	var best *PricePoint
	for i := range points {
		p := points[i]
		if !eligible(p, statuses) {
			continue
		}
		if best == nil || p.OrderDate.After(best.OrderDate) {
			cp := p
			best = &cp
		}
	}
	return best
}

// LatestBySupplier agrupa por proveedor y conserva el precio más reciente de cada uno.
func LatestBySupplier(points []PricePoint, statuses []entity.OrderStatus) map[string]PricePoint {
	out := make(map[string]PricePoint)
	for _, p := range points {
		if !eligible(p, statuses) {
			continue
		}
		cur, ok := out[p.SupplierID]
		if !ok || p.OrderDate.After(cur.OrderDate) {
			out[p.SupplierID] = p
		}
	}
	return out
}

// CheapestAlternative elige el candidato de menor precio con ahorro positivo respecto a current.
// nil si ningún proveedor es más barato.
func CheapestAlternative(current decimal.Decimal, candidates map[string]PricePoint, excludeSupplierID string) *PriceCandidate {
	var best *PriceCandidate
	for supplierID, p := range candidates {
		if supplierID == excludeSupplierID {
			continue
		}
		savings := current.Sub(p.UnitPrice)
		if !savings.IsPositive() {
			continue
		}
		if best == nil || p.UnitPrice.LessThan(best.UnitPrice) ||
			(p.UnitPrice.Equal(best.UnitPrice) && p.SupplierID < best.SupplierID) {
			best = &PriceCandidate{PricePoint: p, Savings: savings}
		}
	}
	return best
}

// AppendPriceChange agrega una entrada al historial si el costo cambia.
// Devuelve false si el precio es igual al vigente.
func AppendPriceChange(link *entity.ProductSupplier, newPrice decimal.Decimal, actor string, now time.Time) bool {
	if link.CostPrice.Equal(newPrice) {
		return false
	}
	link.PriceHistory = append(link.PriceHistory, entity.PriceChange{
		OldPrice:  link.CostPrice,
		NewPrice:  newPrice,
		ChangedAt: now,
		ChangedBy: actor,
	})
	link.CostPrice = newPrice
	link.UpdatedAt = now
	return true
}
