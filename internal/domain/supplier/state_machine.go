// Package supplier contiene la lógica pura del ciclo de vida de órdenes de proveedor:
// máquina de estados, libro de líneas, totales y selección de precios.
package supplier

import (
	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
)

// transitions tabla de transiciones permitidas. Los estados terminales no aparecen.
var transitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderStatusDraft: {
		entity.OrderStatusPending, entity.OrderStatusConfirmed, entity.OrderStatusReceived, entity.OrderStatusCancelled,
	},
	entity.OrderStatusPending: {
		entity.OrderStatusConfirmed, entity.OrderStatusReceived, entity.OrderStatusCancelled,
	},
	entity.OrderStatusConfirmed: {
		entity.OrderStatusShipped, entity.OrderStatusReceived, entity.OrderStatusCancelled,
	},
	entity.OrderStatusShipped: {
		entity.OrderStatusPartiallyReceived, entity.OrderStatusReceived, entity.OrderStatusIncident, entity.OrderStatusCancelled,
	},
	entity.OrderStatusPartiallyReceived: {
		entity.OrderStatusReceived, entity.OrderStatusIncident,
	},
	entity.OrderStatusIncident: {
		entity.OrderStatusReceived, entity.OrderStatusCancelled,
	},
}

// ValidateTransition indica si current -> next está en la tabla.
func ValidateTransition(current, next entity.OrderStatus) bool {
	for _, s := range transitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// NextStates devuelve los estados alcanzables desde current (vacío si es terminal).
func NextStates(current entity.OrderStatus) []entity.OrderStatus {
	out := make([]entity.OrderStatus, len(transitions[current]))
	copy(out, transitions[current])
	return out
}

// CheckTransition devuelve *domain.TransitionError si el cambio no está permitido.
func CheckTransition(current, next entity.OrderStatus) error {
	if ValidateTransition(current, next) {
		return nil
	}
	next0 := NextStates(current)
	allowed := make([]string, 0, len(next0))
	for _, s := range next0 {
		allowed = append(allowed, string(s))
	}
	return &domain.TransitionError{From: string(current), To: string(next), Allowed: allowed}
}

// TriggersStockSync indica si entrar en el estado suma stock de las líneas con producto.
func TriggersStockSync(next entity.OrderStatus) bool {
	switch next {
	case entity.OrderStatusConfirmed, entity.OrderStatusReceived:
		return true
	}
	return false
}
