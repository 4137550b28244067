package supplier_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsupplier "github.com/jhoicas/Proveedores-api/internal/application/supplier"
	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
	dsupplier "github.com/jhoicas/Proveedores-api/internal/domain/supplier"
)

func TestCreateOrder_CalculaTotalesYQuedaEnDraft(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	sup := e.supplier(t, "s1", "Distribuidora Andina")
	ctx := context.Background()

	o, err := e.orders.CreateOrder(ctx, actorID, appsupplier.CreateOrderInput{
		SupplierID: sup.ID,
		Lines: []appsupplier.CreateLineInput{
			{ProductID: productID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(2500)},
			{Title: "Flete", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5000)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusDraft, o.Status)
	assert.Equal(t, entity.OrderTypeSupplier, o.Type)
	assert.True(t, strings.HasPrefix(o.DisplayID, "PO-"))
	assert.Equal(t, "COP", o.Currency)
	assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(30000)))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(30000)))

	loaded, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 2)
	byTitle := map[string]*entity.OrderLine{}
	for _, l := range loaded.Lines {
		byTitle[l.Title] = l
	}
	assert.Equal(t, "CAF-500", byTitle["Café 500g"].SKU, "SKU y título se completan desde el catálogo")
	assert.False(t, byTitle["Flete"].HasProduct())
	assert.True(t, e.stock(t).IsZero(), "crear la orden no toca inventario")
}

func TestCreateOrder_Validaciones(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	sup := e.supplier(t, "s1", "Distribuidora Andina")
	ctx := context.Background()

	one := []appsupplier.CreateLineInput{{ProductID: productID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}}
	cases := []struct {
		name string
		in   appsupplier.CreateOrderInput
		want error
	}{
		{"sin líneas", appsupplier.CreateOrderInput{SupplierID: sup.ID}, domain.ErrInvalidInput},
		{"proveedor inexistente", appsupplier.CreateOrderInput{SupplierID: "nope", Lines: one}, domain.ErrNotFound},
		{"línea manual sin título", appsupplier.CreateOrderInput{SupplierID: sup.ID, Lines: []appsupplier.CreateLineInput{
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)},
		}}, domain.ErrInvalidInput},
		{"cantidad cero", appsupplier.CreateOrderInput{SupplierID: sup.ID, Lines: []appsupplier.CreateLineInput{
			{ProductID: productID, Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(1)},
		}}, domain.ErrInvalidInput},
		{"producto desconocido", appsupplier.CreateOrderInput{SupplierID: sup.ID, Lines: []appsupplier.CreateLineInput{
			{ProductID: "prod-x", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)},
		}}, domain.ErrNotFound},
		{"bodega desconocida", appsupplier.CreateOrderInput{SupplierID: sup.ID, DestinationLocationID: "loc-x", Lines: one}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		_, err := e.orders.CreateOrder(ctx, actorID, tc.in)
		assert.Truef(t, errors.Is(err, tc.want), "%s: %v", tc.name, err)
	}

	sup.IsActive = false
	require.NoError(t, e.repos.Suppliers.Update(ctx, sup))
	_, err := e.orders.CreateOrder(ctx, actorID, appsupplier.CreateOrderInput{SupplierID: sup.ID, Lines: one})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "proveedor desactivado")
}

func TestCreateOrder_FalloEnLineaNoDejaOrden(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	sup := e.supplier(t, "s1", "Distribuidora Andina")
	e.store.FailNext("lines.create", errors.New("bd caída"))

	_, err := e.orders.CreateOrder(context.Background(), actorID, appsupplier.CreateOrderInput{
		SupplierID: sup.ID,
		Lines:      []appsupplier.CreateLineInput{{ProductID: productID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}},
	})
	require.Error(t, err)

	orders, err := e.orders.ListOrders(context.Background(), repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestUpdateOrderStatus_TransicionInvalida(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 10, "2500")

	_, err := e.orders.UpdateOrderStatus(context.Background(), o.ID, entity.OrderStatusShipped, actorID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidStateTransition))

	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, te.Allowed, "confirmed")

	loaded, err := e.orders.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDraft, loaded.Status, "el estado no cambia")
}

func TestUpdateOrderStatus_EstadoDesconocido(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 10, "2500")

	_, err := e.orders.UpdateOrderStatus(context.Background(), o.ID, entity.OrderStatus("archivada"), actorID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestUpdateOrderStatus_SincronizaStockUnaSolaVez(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 10, "2500")
	ctx := context.Background()

	confirmed := e.advance(t, o.ID, entity.OrderStatusConfirmed)
	assert.NotNil(t, confirmed.ConfirmedAt)
	assert.True(t, e.stock(t).Equal(decimal.NewFromInt(10)))

	e.advance(t, o.ID, entity.OrderStatusReceived)
	assert.True(t, e.stock(t).Equal(decimal.NewFromInt(10)), "confirmed y received no suman dos veces")

	movs, err := e.orders.OrderMovements(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeAdjustment, movs[0].Type)
	assert.Equal(t, "status_sync", movs[0].Metadata["source"])

	loaded, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Lines[0].StockSyncedQuantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, actorID, loaded.ReceivedBy)
	assert.NotNil(t, loaded.ReceivedAt)
}

func TestUpdateOrderStatus_FalloDeSincronizacionNoRevierteEstado(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 10, "2500")
	e.store.FailNext("movements.create", errors.New("libro no disponible"))

	updated, err := e.orders.UpdateOrderStatus(context.Background(), o.ID, entity.OrderStatusConfirmed, actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, updated.Status)
	assert.True(t, e.stock(t).IsZero(), "la transacción de la línea se revierte completa")

	// la siguiente sincronización recupera lo pendiente
	e.advance(t, o.ID, entity.OrderStatusReceived)
	assert.True(t, e.stock(t).Equal(decimal.NewFromInt(10)))
}

func TestReceiveLine_RecepcionCompletaPasaAReceived(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 10, "2500")
	e.advance(t, o.ID, entity.OrderStatusConfirmed, entity.OrderStatusShipped)
	ctx := context.Background()

	line, err := e.orders.ReceiveLine(ctx, o.Lines[0].ID, decimal.NewFromInt(10), "completo", actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.LineStatusReceived, line.Status)
	assert.True(t, line.QuantityPending.IsZero())

	loaded, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, loaded.Status)
	assert.True(t, e.stock(t).Equal(decimal.NewFromInt(10)), "el stock ya se sumó al confirmar")

	movs, err := e.orders.OrderMovements(ctx, o.ID)
	require.NoError(t, err)
	types := map[entity.MovementType]int{}
	for _, m := range movs {
		types[m.Type]++
	}
	assert.Equal(t, 1, types[entity.MovementTypeAdjustment])
	assert.Equal(t, 1, types[entity.MovementTypeSupplierReceipt])

	// solo las filas con efecto en stock cuadran con el nivel
	effective := decimal.Zero
	for _, m := range movs {
		switch m.Type {
		case entity.MovementTypeSupplierReceipt:
			assert.Equal(t, false, m.Metadata["stock_effect"])
		case entity.MovementTypeAdjustment:
			assert.Equal(t, true, m.Metadata["stock_effect"])
		}
		if m.Metadata["stock_effect"] == true {
			effective = effective.Add(m.Quantity)
		}
	}
	assert.True(t, effective.Equal(e.stock(t)), "la entrega no se cuenta dos veces")
}

func TestReceiveLine_PoliticaTodasLasLineas(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAllLines)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 10, "2500")
	e.advance(t, o.ID, entity.OrderStatusConfirmed, entity.OrderStatusShipped)
	ctx := context.Background()

	_, err := e.orders.ReceiveLine(ctx, o.Lines[0].ID, decimal.NewFromInt(4), "", actorID)
	require.NoError(t, err)
	loaded, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPartiallyReceived, loaded.Status)

	_, err = e.orders.ReceiveLine(ctx, o.Lines[0].ID, decimal.NewFromInt(6), "", actorID)
	require.NoError(t, err)
	loaded, err = e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, loaded.Status)
}

func TestReceiveLine_SobreRecepcionRechazada(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 10, "2500")
	e.advance(t, o.ID, entity.OrderStatusConfirmed, entity.OrderStatusShipped)
	ctx := context.Background()

	_, err := e.orders.ReceiveLine(ctx, o.Lines[0].ID, decimal.NewFromInt(11), "", actorID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	movs, err := e.orders.OrderMovements(ctx, o.ID)
	require.NoError(t, err)
	for _, m := range movs {
		assert.NotEqual(t, entity.MovementTypeSupplierReceipt, m.Type)
	}
}

func TestReceiveLine_OrdenCancelada(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 10, "2500")
	e.advance(t, o.ID, entity.OrderStatusCancelled)

	_, err := e.orders.ReceiveLine(context.Background(), o.Lines[0].ID, decimal.NewFromInt(1), "", actorID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReceiveLine_LineaInexistente(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	_, err := e.orders.ReceiveLine(context.Background(), "line-x", decimal.NewFromInt(1), "", actorID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSetLineIncident_FuerzaIncidentSinTabla(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 10, "2500")
	e.advance(t, o.ID, entity.OrderStatusConfirmed)
	ctx := context.Background()

	// confirmed -> incident no está en la tabla; la incidencia de línea lo fuerza igual
	line, err := e.orders.SetLineIncident(ctx, o.Lines[0].ID, true, "empaque roto", actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.LineStatusIncident, line.Status)

	loaded, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusIncident, loaded.Status)

	// quitar la incidencia no devuelve la orden a su estado anterior
	_, err = e.orders.SetLineIncident(ctx, o.Lines[0].ID, false, "", actorID)
	require.NoError(t, err)
	loaded, err = e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusIncident, loaded.Status)
	assert.Equal(t, entity.LineStatusPending, loaded.Lines[0].Status)
}

func TestSetLineIncident_OrdenTerminalNoCambia(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 10, "2500")
	e.advance(t, o.ID, entity.OrderStatusReceived)

	_, err := e.orders.SetLineIncident(context.Background(), o.Lines[0].ID, true, "", actorID)
	require.NoError(t, err)
	loaded, err := e.orders.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, loaded.Status)
}

func TestRecalcOrderTotals_Idempotente(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 4, "2500")
	ctx := context.Background()

	first, err := e.orders.RecalcOrderTotals(ctx, o.ID)
	require.NoError(t, err)
	second, err := e.orders.RecalcOrderTotals(ctx, o.ID)
	require.NoError(t, err)

	assert.True(t, first.Total.Equal(decimal.NewFromInt(10000)))
	assert.True(t, second.Total.Equal(first.Total))
	assert.True(t, second.Subtotal.Equal(first.Subtotal))
}

func TestListOrders_Filtros(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	s1 := e.supplier(t, "s1", "Andina")
	s2 := e.supplier(t, "s2", "Caribe")
	a := e.order(t, s1.ID, 1, "10")
	e.order(t, s2.ID, 1, "10")
	e.advance(t, a.ID, entity.OrderStatusConfirmed)
	ctx := context.Background()

	bySupplier, err := e.orders.ListOrders(ctx, repository.OrderFilter{SupplierID: s1.ID})
	require.NoError(t, err)
	require.Len(t, bySupplier, 1)
	assert.Equal(t, a.ID, bySupplier[0].ID)

	drafts, err := e.orders.ListOrders(ctx, repository.OrderFilter{Status: entity.OrderStatusDraft})
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	_, err = e.orders.ListOrders(ctx, repository.OrderFilter{Status: "archivada"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCancelLine_RecalculaTotales(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	sup := e.supplier(t, "s1", "Andina")
	ctx := context.Background()
	o, err := e.orders.CreateOrder(ctx, actorID, appsupplier.CreateOrderInput{
		SupplierID: sup.ID,
		Lines: []appsupplier.CreateLineInput{
			{ProductID: productID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(2500)},
			{Title: "Flete", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5000)},
		},
	})
	require.NoError(t, err)

	var freight *entity.OrderLine
	for _, l := range o.Lines {
		if l.Title == "Flete" {
			freight = l
		}
	}
	require.NotNil(t, freight)

	line, err := e.orders.CancelLine(ctx, freight.ID, "sin flete", actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.LineStatusCancelled, line.Status)

	loaded, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Total.Equal(decimal.NewFromInt(25000)))
}

func TestCancelLine_CompletaLaOrdenConTodasLasLineas(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAllLines)
	sup := e.supplier(t, "s1", "Andina")
	ctx := context.Background()
	o, err := e.orders.CreateOrder(ctx, actorID, appsupplier.CreateOrderInput{
		SupplierID: sup.ID,
		Lines: []appsupplier.CreateLineInput{
			{Title: "Bolsas", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(100)},
			{Title: "Cajas", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(300)},
		},
	})
	require.NoError(t, err)
	e.advance(t, o.ID, entity.OrderStatusConfirmed, entity.OrderStatusShipped)

	byTitle := map[string]*entity.OrderLine{}
	for _, l := range o.Lines {
		byTitle[l.Title] = l
	}
	_, err = e.orders.ReceiveLine(ctx, byTitle["Bolsas"].ID, decimal.NewFromInt(5), "", actorID)
	require.NoError(t, err)
	loaded, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, entity.OrderStatusPartiallyReceived, loaded.Status)

	_, err = e.orders.CancelLine(ctx, byTitle["Cajas"].ID, "", actorID)
	require.NoError(t, err)
	loaded, err = e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, loaded.Status, "la única línea activa ya está completa")
}

func TestCancelLine_RechazaLineaConStock(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 10, "2500")
	e.advance(t, o.ID, entity.OrderStatusConfirmed)

	_, err := e.orders.CancelLine(context.Background(), o.Lines[0].ID, "", actorID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "el stock ya se sincronizó al confirmar")
}

func TestSetLineIncident_FalloAlForzarNoDejaLineaMarcada(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 10, "2500")
	e.advance(t, o.ID, entity.OrderStatusConfirmed)
	ctx := context.Background()
	boom := errors.New("bd caída")
	e.store.FailNext("orders.update", boom)

	_, err := e.orders.SetLineIncident(ctx, o.Lines[0].ID, true, "empaque roto", actorID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	loaded, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, loaded.Status)
	assert.NotEqual(t, entity.LineStatusIncident, loaded.Lines[0].Status, "línea y orden cambian juntas o ninguna")
}
