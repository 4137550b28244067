package supplier_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/supplier"
)

type fixedTax struct{ rate decimal.Decimal }

func (f fixedTax) TaxTotal(_ *entity.Order, subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(f.rate)
}

func TestRecalcOrderTotals_Idempotente(t *testing.T) {
	order := &entity.Order{Lines: []*entity.OrderLine{newTestLine("2"), newTestLine("3")}}

	supplier.RecalcOrderTotals(order, nil)
	first := order.Total
	supplier.RecalcOrderTotals(order, nil)

	assert.True(t, order.Subtotal.Equal(dec("12500")))
	assert.True(t, order.TaxTotal.IsZero())
	assert.True(t, order.Total.Equal(first))
}

func TestRecalcOrderTotals_ConImpuestos(t *testing.T) {
	order := &entity.Order{Lines: []*entity.OrderLine{newTestLine("4")}}
	supplier.RecalcOrderTotals(order, fixedTax{rate: dec("0.19")})

	assert.True(t, order.Subtotal.Equal(dec("10000")))
	assert.True(t, order.TaxTotal.Equal(dec("1900")))
	assert.True(t, order.Total.Equal(dec("11900")))
}

func point(supplierID string, status entity.OrderStatus, daysAgo int, price string) supplier.PricePoint {
	return supplier.PricePoint{
		SupplierID:  supplierID,
		OrderID:     supplierID + "-order",
		OrderStatus: status,
		OrderDate:   testNow.AddDate(0, 0, -daysAgo),
		ProductID:   "prod-1",
		UnitPrice:   dec(price),
	}
}

func TestPriceEligibleStatuses(t *testing.T) {
	without := supplier.PriceEligibleStatuses(false)
	assert.NotContains(t, without, entity.OrderStatusDraft)
	assert.NotContains(t, without, entity.OrderStatusCancelled)
	assert.NotContains(t, without, entity.OrderStatusPending)

	with := supplier.PriceEligibleStatuses(true)
	assert.Contains(t, with, entity.OrderStatusDraft)
	assert.Len(t, with, len(without)+1)
}

func TestLatestPrice_MasRecienteElegible(t *testing.T) {
	points := []supplier.PricePoint{
		point("s1", entity.OrderStatusReceived, 10, "100"),
		point("s1", entity.OrderStatusCancelled, 1, "50"),
		point("s1", entity.OrderStatusConfirmed, 3, "120"),
	}
	latest := supplier.LatestPrice(points, supplier.PriceEligibleStatuses(false))
	require.NotNil(t, latest)
	assert.True(t, latest.UnitPrice.Equal(dec("120")), "la orden cancelada no cuenta")
}

func TestLatestPrice_SinPuntos(t *testing.T) {
	assert.Nil(t, supplier.LatestPrice(nil, supplier.PriceEligibleStatuses(true)))
	only := []supplier.PricePoint{point("s1", entity.OrderStatusDraft, 1, "10")}
	assert.Nil(t, supplier.LatestPrice(only, supplier.PriceEligibleStatuses(false)))
}

func TestLatestBySupplier(t *testing.T) {
	points := []supplier.PricePoint{
		point("s1", entity.OrderStatusReceived, 10, "100"),
		point("s1", entity.OrderStatusReceived, 2, "110"),
		point("s2", entity.OrderStatusShipped, 5, "90"),
	}
	got := supplier.LatestBySupplier(points, supplier.PriceEligibleStatuses(false))
	require.Len(t, got, 2)
	assert.True(t, got["s1"].UnitPrice.Equal(dec("110")))
	assert.True(t, got["s2"].UnitPrice.Equal(dec("90")))
}

func TestCheapestAlternative_NuncaIgualOMasCaro(t *testing.T) {
	candidates := map[string]supplier.PricePoint{
		"actual": point("actual", entity.OrderStatusReceived, 1, "50"),
		"s2":     point("s2", entity.OrderStatusReceived, 1, "50"),
		"s3":     point("s3", entity.OrderStatusReceived, 1, "70"),
	}
	assert.Nil(t, supplier.CheapestAlternative(dec("50"), candidates, "actual"))

	candidates["s4"] = point("s4", entity.OrderStatusReceived, 1, "45")
	candidates["s5"] = point("s5", entity.OrderStatusReceived, 1, "40")
	best := supplier.CheapestAlternative(dec("50"), candidates, "actual")
	require.NotNil(t, best)
	assert.Equal(t, "s5", best.SupplierID)
	assert.True(t, best.Savings.Equal(dec("10")))
	assert.True(t, best.UnitPrice.LessThan(dec("50")))
}

func TestCheapestAlternative_EmpateDeterminista(t *testing.T) {
	candidates := map[string]supplier.PricePoint{
		"s9": point("s9", entity.OrderStatusReceived, 1, "30"),
		"s2": point("s2", entity.OrderStatusReceived, 1, "30"),
	}
	for i := 0; i < 10; i++ {
		best := supplier.CheapestAlternative(dec("40"), candidates, "")
		require.NotNil(t, best)
		assert.Equal(t, "s2", best.SupplierID)
	}
}

func TestAppendPriceChange(t *testing.T) {
	link := &entity.ProductSupplier{ID: "ps-1", CostPrice: dec("100")}

	assert.False(t, supplier.AppendPriceChange(link, dec("100"), "user-1", testNow), "mismo precio no agrega historial")
	assert.Empty(t, link.PriceHistory)

	assert.True(t, supplier.AppendPriceChange(link, dec("120"), "user-1", testNow))
	assert.True(t, supplier.AppendPriceChange(link, dec("90"), "user-2", testNow.Add(time.Hour)))

	require.Len(t, link.PriceHistory, 2)
	assert.True(t, link.PriceHistory[0].OldPrice.Equal(dec("100")))
	assert.True(t, link.PriceHistory[0].NewPrice.Equal(dec("120")))
	assert.True(t, link.PriceHistory[1].OldPrice.Equal(dec("120")))
	assert.Equal(t, "user-2", link.PriceHistory[1].ChangedBy)
	assert.True(t, link.CostPrice.Equal(dec("90")))
}

func TestRecalcOrderTotals_IgnoraLineasCanceladas(t *testing.T) {
	cancelled := newTestLine("3")
	cancelled.Status = entity.LineStatusCancelled
	order := &entity.Order{Lines: []*entity.OrderLine{newTestLine("2"), cancelled}}

	supplier.RecalcOrderTotals(order, nil)
	assert.True(t, order.Subtotal.Equal(dec("5000")))
}
