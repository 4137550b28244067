package supplier_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/supplier"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestLine(qty string) *entity.OrderLine {
	l := supplier.NewLine("order-1", "prod-1", "SKU-1", "Café 500g", dec(qty), dec("2500"), testNow)
	l.ID = "line-1"
	return l
}

func TestNewLine_Inicializa(t *testing.T) {
	l := newTestLine("10")

	assert.Equal(t, entity.LineStatusPending, l.Status)
	assert.True(t, l.QuantityReceived.IsZero())
	assert.True(t, l.QuantityPending.Equal(dec("10")))
	assert.True(t, l.StockSyncedQuantity.IsZero())
	assert.True(t, l.TotalPrice.Equal(dec("25000")))
}

func TestPendingQuantity_NuncaNegativa(t *testing.T) {
	assert.True(t, supplier.PendingQuantity(dec("10"), dec("4")).Equal(dec("6")))
	assert.True(t, supplier.PendingQuantity(dec("10"), dec("10")).IsZero())
	assert.True(t, supplier.PendingQuantity(dec("10"), dec("12")).IsZero())
}

func TestApplyReceipt_ParcialYCompleta(t *testing.T) {
	l := newTestLine("10")

	require.NoError(t, supplier.ApplyReceipt(l, dec("4"), "", testNow))
	assert.Equal(t, entity.LineStatusPartial, l.Status)
	assert.True(t, l.QuantityReceived.Equal(dec("4")))
	assert.True(t, l.QuantityPending.Equal(dec("6")))

	require.NoError(t, supplier.ApplyReceipt(l, dec("6"), "caja abierta", testNow.Add(time.Hour)))
	assert.Equal(t, entity.LineStatusReceived, l.Status)
	assert.True(t, l.QuantityPending.IsZero())
	assert.Equal(t, "caja abierta", l.Notes)
	assert.Equal(t, testNow.Add(time.Hour), l.UpdatedAt)
}

func TestApplyReceipt_RechazaSobreRecepcion(t *testing.T) {
	l := newTestLine("10")
	require.NoError(t, supplier.ApplyReceipt(l, dec("8"), "", testNow))

	err := supplier.ApplyReceipt(l, dec("3"), "", testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.True(t, l.QuantityReceived.Equal(dec("8")), "la línea no debe cambiar si la recepción se rechaza")
	assert.Equal(t, entity.LineStatusPartial, l.Status)
}

func TestApplyReceipt_CantidadNoPositiva(t *testing.T) {
	l := newTestLine("10")
	for _, q := range []string{"0", "-1"} {
		err := supplier.ApplyReceipt(l, dec(q), "", testNow)
		assert.Truef(t, errors.Is(err, domain.ErrInvalidInput), "cantidad %s", q)
	}
}

func TestApplyReceipt_LineaCancelada(t *testing.T) {
	l := newTestLine("10")
	l.Status = entity.LineStatusCancelled
	err := supplier.ApplyReceipt(l, dec("1"), "", testNow)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestApplyIncident_Alterna(t *testing.T) {
	l := newTestLine("10")

	require.NoError(t, supplier.ApplyIncident(l, true, "llegó roto", testNow))
	assert.Equal(t, entity.LineStatusIncident, l.Status)
	assert.Equal(t, "llegó roto", l.Notes)

	require.NoError(t, supplier.ApplyIncident(l, false, "", testNow))
	assert.Equal(t, entity.LineStatusPending, l.Status)
	assert.Equal(t, "llegó roto", l.Notes, "notas vacías conservan las anteriores")
}

func TestReceiptTarget_CualquierRecepcion(t *testing.T) {
	a, b := newTestLine("10"), newTestLine("5")
	lines := []*entity.OrderLine{a, b}

	assert.Equal(t, entity.OrderStatus(""), supplier.ReceiptTarget(supplier.ReceivePolicyAnyReceipt, entity.OrderStatusShipped, lines),
		"sin nada recibido no hay cambio")

	require.NoError(t, supplier.ApplyReceipt(a, dec("1"), "", testNow))
	assert.Equal(t, entity.OrderStatusReceived, supplier.ReceiptTarget(supplier.ReceivePolicyAnyReceipt, entity.OrderStatusShipped, lines))
}

func TestReceiptTarget_TodasLasLineas(t *testing.T) {
	a, b := newTestLine("10"), newTestLine("5")
	lines := []*entity.OrderLine{a, b}

	require.NoError(t, supplier.ApplyReceipt(a, dec("10"), "", testNow))
	assert.Equal(t, entity.OrderStatusPartiallyReceived,
		supplier.ReceiptTarget(supplier.ReceivePolicyAllLines, entity.OrderStatusShipped, lines))
	assert.Equal(t, entity.OrderStatus(""),
		supplier.ReceiptTarget(supplier.ReceivePolicyAllLines, entity.OrderStatusPartiallyReceived, lines),
		"ya está en partially_received")

	require.NoError(t, supplier.ApplyReceipt(b, dec("5"), "", testNow))
	assert.Equal(t, entity.OrderStatusReceived,
		supplier.ReceiptTarget(supplier.ReceivePolicyAllLines, entity.OrderStatusPartiallyReceived, lines))
}

func TestReceiptTarget_IgnoraCanceladasYTerminales(t *testing.T) {
	a, b := newTestLine("10"), newTestLine("5")
	b.Status = entity.LineStatusCancelled
	require.NoError(t, supplier.ApplyReceipt(a, dec("10"), "", testNow))
	lines := []*entity.OrderLine{a, b}

	assert.Equal(t, entity.OrderStatusReceived,
		supplier.ReceiptTarget(supplier.ReceivePolicyAllLines, entity.OrderStatusShipped, lines))
	assert.Equal(t, entity.OrderStatus(""),
		supplier.ReceiptTarget(supplier.ReceivePolicyAnyReceipt, entity.OrderStatusCancelled, lines))
}

func TestParseReceivePolicy(t *testing.T) {
	assert.Equal(t, supplier.ReceivePolicyAllLines, supplier.ParseReceivePolicy("all_lines"))
	assert.Equal(t, supplier.ReceivePolicyAnyReceipt, supplier.ParseReceivePolicy(""))
	assert.Equal(t, supplier.ReceivePolicyAnyReceipt, supplier.ParseReceivePolicy("otra"))
}

func TestAnyIncidentYTotalReceived(t *testing.T) {
	a, b := newTestLine("10"), newTestLine("5")
	require.NoError(t, supplier.ApplyReceipt(a, dec("3"), "", testNow))
	require.NoError(t, supplier.ApplyReceipt(b, dec("2"), "", testNow))
	lines := []*entity.OrderLine{a, b}

	assert.True(t, supplier.TotalReceived(lines).Equal(dec("5")))
	assert.False(t, supplier.AnyIncident(lines))

	require.NoError(t, supplier.ApplyIncident(b, true, "", testNow))
	assert.True(t, supplier.AnyIncident(lines))
}

func TestCancelLine(t *testing.T) {
	l := newTestLine("10")
	require.NoError(t, supplier.CancelLine(l, "sin existencias", testNow))
	assert.Equal(t, entity.LineStatusCancelled, l.Status)
	assert.True(t, l.QuantityPending.IsZero())
	require.NoError(t, supplier.CancelLine(l, "", testNow), "cancelar dos veces no falla")

	received := newTestLine("10")
	require.NoError(t, supplier.ApplyReceipt(received, dec("1"), "", testNow))
	assert.True(t, errors.Is(supplier.CancelLine(received, "", testNow), domain.ErrInvalidInput))

	synced := newTestLine("10")
	synced.StockSyncedQuantity = dec("10")
	assert.True(t, errors.Is(supplier.CancelLine(synced, "", testNow), domain.ErrInvalidInput))
}
