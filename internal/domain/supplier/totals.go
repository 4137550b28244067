package supplier

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
)

// TaxCalculator punto de extensión para impuestos de la orden.
type TaxCalculator interface {
	TaxTotal(order *entity.Order, subtotal decimal.Decimal) decimal.Decimal
}

// ZeroTax impuestos en cero (comportamiento actual).
type ZeroTax struct{}

func (ZeroTax) TaxTotal(*entity.Order, decimal.Decimal) decimal.Decimal { return decimal.Zero }

// RecalcOrderTotals recalcula subtotal, impuestos y total desde las líneas no canceladas.
// Idempotente: sin cambios en las líneas produce siempre los mismos valores.
func RecalcOrderTotals(order *entity.Order, tax TaxCalculator) {
	if tax == nil {
		tax = ZeroTax{}
	}
	subtotal := decimal.Zero
	for _, l := range order.Lines {
		l.TotalPrice = l.UnitPrice.Mul(l.QuantityOrdered)
		if l.Status == entity.LineStatusCancelled {
			continue
		}
		subtotal = subtotal.Add(l.TotalPrice)
	}
	order.Subtotal = subtotal
	order.TaxTotal = tax.TaxTotal(order, subtotal)
	order.Total = subtotal.Add(order.TaxTotal)
}
