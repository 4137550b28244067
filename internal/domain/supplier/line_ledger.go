package supplier

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
)

// ReceivePolicy decide cuándo una recepción hace avanzar la orden.
type ReceivePolicy string

const (
	// ReceivePolicyAnyReceipt: cualquier cantidad recibida > 0 lleva la orden hacia received.
	ReceivePolicyAnyReceipt ReceivePolicy = "any_receipt"
	// ReceivePolicyAllLines: received solo cuando todas las líneas activas están completas;
	// si no, partially_received.
	ReceivePolicyAllLines ReceivePolicy = "all_lines"
)

// ParseReceivePolicy convierte el valor de configuración; por defecto any_receipt.
func ParseReceivePolicy(s string) ReceivePolicy {
	if ReceivePolicy(s) == ReceivePolicyAllLines {
		return ReceivePolicyAllLines
	}
	return ReceivePolicyAnyReceipt
}

// PendingQuantity = max(0, ordered - received).
func PendingQuantity(ordered, received decimal.Decimal) decimal.Decimal {
	p := ordered.Sub(received)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// NewLine inicializa una línea en estado pending con sus cantidades y total.
func NewLine(orderID, productID, sku, title string, qty, unitPrice decimal.Decimal, now time.Time) *entity.OrderLine {
	return &entity.OrderLine{
		OrderID:             orderID,
		ProductID:           productID,
		SKU:                 sku,
		Title:               title,
		QuantityOrdered:     qty,
		QuantityReceived:    decimal.Zero,
		QuantityPending:     qty,
		StockSyncedQuantity: decimal.Zero,
		UnitPrice:           unitPrice,
		TaxRate:             decimal.Zero,
		DiscountRate:        decimal.Zero,
		TotalPrice:          unitPrice.Mul(qty),
		Status:              entity.LineStatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// ApplyReceipt suma qty a la cantidad recibida y recalcula pendiente y estado.
// Rechaza qty <= 0 y recepciones que superen lo pedido.
func ApplyReceipt(line *entity.OrderLine, qty decimal.Decimal, notes string, now time.Time) error {
	if !qty.IsPositive() {
		return domain.ValidationError("la cantidad recibida debe ser mayor que cero")
	}
	if line.Status == entity.LineStatusCancelled {
		return domain.ValidationError("la línea %s está cancelada", line.ID)
	}
	received := line.QuantityReceived.Add(qty)
	if received.GreaterThan(line.QuantityOrdered) {
		return domain.ValidationError("recibido (%s) supera lo pedido (%s)", received, line.QuantityOrdered)
	}
	line.QuantityReceived = received
	line.QuantityPending = PendingQuantity(line.QuantityOrdered, received)
	if received.Equal(line.QuantityOrdered) {
		line.Status = entity.LineStatusReceived
	} else {
		line.Status = entity.LineStatusPartial
	}
	if notes != "" {
		line.Notes = notes
	}
	line.UpdatedAt = now
	return nil
}

// ApplyIncident alterna la línea entre incident y pending.
func ApplyIncident(line *entity.OrderLine, hasIncident bool, notes string, now time.Time) error {
	if line.Status == entity.LineStatusCancelled {
		return domain.ValidationError("la línea %s está cancelada", line.ID)
	}
	if hasIncident {
		line.Status = entity.LineStatusIncident
	} else {
		line.Status = entity.LineStatusPending
	}
	if notes != "" {
		line.Notes = notes
	}
	line.UpdatedAt = now
	return nil
}

// CancelLine cancela una línea que todavía no afectó inventario. Cancelar dos veces no hace nada.
func CancelLine(line *entity.OrderLine, notes string, now time.Time) error {
	if line.Status == entity.LineStatusCancelled {
		return nil
	}
	if line.QuantityReceived.IsPositive() || line.StockSyncedQuantity.IsPositive() {
		return domain.ValidationError("la línea %s ya afectó inventario", line.ID)
	}
	line.Status = entity.LineStatusCancelled
	line.QuantityPending = decimal.Zero
	if notes != "" {
		line.Notes = notes
	}
	line.UpdatedAt = now
	return nil
}

// TotalReceived suma lo recibido en todas las líneas.
func TotalReceived(lines []*entity.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.QuantityReceived)
	}
	return total
}

// AnyIncident indica si alguna línea está en incidencia.
func AnyIncident(lines []*entity.OrderLine) bool {
	for _, l := range lines {
		if l.Status == entity.LineStatusIncident {
			return true
		}
	}
	return false
}

// allLinesReceived ignora líneas canceladas.
func allLinesReceived(lines []*entity.OrderLine) bool {
	active := 0
	for _, l := range lines {
		if l.Status == entity.LineStatusCancelled {
			continue
		}
		active++
		if l.QuantityReceived.LessThan(l.QuantityOrdered) {
			return false
		}
	}
	return active > 0
}

// ReceiptTarget devuelve el estado al que debe avanzar la orden tras una recepción,
// o "" si no corresponde cambiar. Un solo salto, validado contra la tabla por el llamador.
func ReceiptTarget(policy ReceivePolicy, current entity.OrderStatus, lines []*entity.OrderLine) entity.OrderStatus {
	if current.Terminal() || !TotalReceived(lines).IsPositive() {
		return ""
	}
	switch policy {
	case ReceivePolicyAllLines:
		if allLinesReceived(lines) {
			return entity.OrderStatusReceived
		}
		if current == entity.OrderStatusPartiallyReceived {
			return ""
		}
		return entity.OrderStatusPartiallyReceived
	default:
		return entity.OrderStatusReceived
	}
}
