package supplier_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	appsupplier "github.com/jhoicas/Proveedores-api/internal/application/supplier"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
	dsupplier "github.com/jhoicas/Proveedores-api/internal/domain/supplier"
	"github.com/jhoicas/Proveedores-api/internal/infrastructure/memory"
	"github.com/jhoicas/Proveedores-api/pkg/logger"
)

const (
	warehouseID = "loc-bodega"
	productID   = "prod-cafe"
	itemID      = "item-cafe"
	actorID     = "user-compras"
)

type env struct {
	store  *memory.Store
	repos  repository.Repositories
	orders *appsupplier.OrderUseCase
	prices *appsupplier.PriceUseCase
}

func newEnv(t *testing.T, policy dsupplier.ReceivePolicy) *env {
	t.Helper()
	store := memory.NewStore()
	store.AddLocation(entity.StockLocation{ID: warehouseID, Name: "Bodega principal"})
	store.AddProduct(entity.ProductRef{ProductID: productID, InventoryItemID: itemID, Title: "Café 500g", SKU: "CAF-500"})
	repos := store.Repositories()

	orders := appsupplier.NewOrderUseCase(memory.NewTxRunner(store), repos, store.Products(), store.Locations(),
		appsupplier.OrderConfig{ReceivePolicy: policy, ReceivingLocationID: warehouseID, DefaultCurrency: "COP"},
		logger.Nop())
	prices := appsupplier.NewPriceUseCase(repos, store.Products(), true, logger.Nop())
	return &env{store: store, repos: repos, orders: orders, prices: prices}
}

func (e *env) supplier(t *testing.T, id, name string) *entity.Supplier {
	t.Helper()
	now := time.Now()
	sup := &entity.Supplier{
		ID:        id,
		Code:      "SUP-" + id,
		Name:      name,
		Type:      entity.SupplierTypeStandard,
		IsActive:  true,
		Metadata:  map[string]any{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.repos.Suppliers.Create(context.Background(), sup))
	return sup
}

// order crea una orden de un producto. Espera un instante para que cada orden tenga fecha distinta.
func (e *env) order(t *testing.T, supplierID string, qty int64, price string) *entity.Order {
	t.Helper()
	time.Sleep(2 * time.Millisecond)
	o, err := e.orders.CreateOrder(context.Background(), actorID, appsupplier.CreateOrderInput{
		SupplierID: supplierID,
		Lines: []appsupplier.CreateLineInput{
			{ProductID: productID, Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.RequireFromString(price)},
		},
	})
	require.NoError(t, err)
	return o
}

func (e *env) advance(t *testing.T, orderID string, statuses ...entity.OrderStatus) *entity.Order {
	t.Helper()
	var o *entity.Order
	for _, st := range statuses {
		var err error
		o, err = e.orders.UpdateOrderStatus(context.Background(), orderID, st, actorID)
		require.NoError(t, err)
	}
	return o
}

func (e *env) stock(t *testing.T) decimal.Decimal {
	t.Helper()
	lvl, err := e.repos.Levels.Get(context.Background(), itemID, warehouseID)
	require.NoError(t, err)
	if lvl == nil {
		return decimal.Zero
	}
	return lvl.StockedQuantity
}
