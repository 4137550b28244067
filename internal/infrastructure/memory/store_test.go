package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

func testSupplier(id, code string) *entity.Supplier {
	return &entity.Supplier{ID: id, Code: code, Name: "Proveedor " + code, Type: entity.SupplierTypeStandard, IsActive: true}
}

func TestTxRunner_RevierteAnteError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := NewTxRunner(s).Run(ctx, func(r repository.Repositories) error {
		require.NoError(t, r.Suppliers.Create(ctx, testSupplier("s1", "A")))
		require.NoError(t, r.Movements.Create(ctx, &entity.InventoryMovement{ID: "m1", InventoryItemID: "i1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	sup, err := s.Repositories().Suppliers.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, sup)
	movs, err := s.Repositories().Movements.ListByInventoryItem(ctx, "i1", repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestTxRunner_ConfirmaSinError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, NewTxRunner(s).Run(ctx, func(r repository.Repositories) error {
		return r.Suppliers.Create(ctx, testSupplier("s1", "A"))
	}))
	sup, err := s.Repositories().Suppliers.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, sup)
}

func TestTxRunner_RevertirNoPisaEscriturasExternas(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	outside := s.Repositories()
	require.NoError(t, outside.Suppliers.Create(ctx, testSupplier("s1", "A")))
	require.NoError(t, outside.Orders.Create(ctx, &entity.Order{ID: "o1", SupplierID: "s1", Status: entity.OrderStatusDraft}))
	require.NoError(t, outside.Orders.Create(ctx, &entity.Order{ID: "o2", SupplierID: "s1", Status: entity.OrderStatusDraft}))
	s.SetLevel(entity.InventoryLevel{ID: "l1", InventoryItemID: "i1", LocationID: "loc", StockedQuantity: decimal.NewFromInt(5)})

	boom := errors.New("boom")
	err := NewTxRunner(s).Run(ctx, func(r repository.Repositories) error {
		require.NoError(t, r.Orders.Update(ctx, &entity.Order{ID: "o1", SupplierID: "s1", Status: entity.OrderStatusCancelled}))
		require.NoError(t, r.Levels.Delete(ctx, "l1"))
		require.NoError(t, r.Movements.Create(ctx, &entity.InventoryMovement{ID: "m-tx", InventoryItemID: "i1"}))

		// escrituras concurrentes fuera de la transacción
		require.NoError(t, outside.Orders.Update(ctx, &entity.Order{ID: "o2", SupplierID: "s1", Status: entity.OrderStatusConfirmed}))
		require.NoError(t, outside.Movements.Create(ctx, &entity.InventoryMovement{ID: "m-out", InventoryItemID: "i1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	o1, err := outside.Orders.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDraft, o1.Status, "la escritura de la transacción se revierte")

	o2, err := outside.Orders.GetByID(ctx, "o2")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, o2.Status, "la escritura externa se conserva")

	lvl, err := outside.Levels.Get(ctx, "i1", "loc")
	require.NoError(t, err)
	require.NotNil(t, lvl)
	assert.True(t, lvl.StockedQuantity.Equal(decimal.NewFromInt(5)))

	movs, err := outside.Movements.ListByInventoryItem(ctx, "i1", repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "m-out", movs[0].ID)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewTxRunner(NewStore()).Run(ctx, func(repository.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestFailNext_SeConsumeEnOrden(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	first, second := errors.New("primero"), errors.New("segundo")
	s.FailNext("suppliers.create", first)
	s.FailNext("suppliers.create", second)
	repo := s.Repositories().Suppliers

	assert.ErrorIs(t, repo.Create(ctx, testSupplier("s1", "A")), first)
	assert.ErrorIs(t, repo.Create(ctx, testSupplier("s1", "A")), second)
	assert.NoError(t, repo.Create(ctx, testSupplier("s1", "A")))
}

func TestSupplierRepo_CodigoDuplicado(t *testing.T) {
	repo := NewStore().Repositories().Suppliers
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testSupplier("s1", "A")))
	assert.ErrorIs(t, repo.Create(ctx, testSupplier("s2", "A")), domain.ErrDuplicate)
}

func TestLevelRepo_VersionOptimista(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.SetLevel(entity.InventoryLevel{ID: "l1", InventoryItemID: "i1", LocationID: "loc", StockedQuantity: decimal.NewFromInt(5)})
	repo := s.Repositories().Levels

	a, err := repo.Get(ctx, "i1", "loc")
	require.NoError(t, err)
	b, err := repo.Get(ctx, "i1", "loc")
	require.NoError(t, err)

	a.StockedQuantity = decimal.NewFromInt(7)
	require.NoError(t, repo.Update(ctx, a))
	assert.Equal(t, int64(2), a.Version)

	b.StockedQuantity = decimal.NewFromInt(1)
	assert.ErrorIs(t, repo.Update(ctx, b), domain.ErrConflict, "una copia desactualizada no sobrescribe")

	cur, err := repo.Get(ctx, "i1", "loc")
	require.NoError(t, err)
	assert.True(t, cur.StockedQuantity.Equal(decimal.NewFromInt(7)))
}

func TestMovementRepo_RangoYPaginacion(t *testing.T) {
	repo := NewStore().Repositories().Movements
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &entity.InventoryMovement{
			ID:              string(rune('a' + i)),
			InventoryItemID: "i1",
			ToLocationID:    "loc",
			Quantity:        decimal.NewFromInt(1),
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		}))
	}

	from, to := base.Add(time.Hour), base.Add(3*time.Hour)
	got, err := repo.ListByInventoryItem(ctx, "i1", repository.MovementFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "d", got[0].ID)
	assert.Equal(t, "b", got[2].ID)

	paged, err := repo.ListByLocation(ctx, "loc", repository.MovementFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "a", paged[0].ID)
}

func TestOrderLineRepo_RequiereOrden(t *testing.T) {
	repo := NewStore().Repositories().Lines
	err := repo.Create(context.Background(), &entity.OrderLine{ID: "l1", OrderID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepos_DevuelvenCopias(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Repositories().Suppliers
	require.NoError(t, repo.Create(ctx, testSupplier("s1", "A")))

	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	got.Name = "cambiado"

	again, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Proveedor A", again.Name)
}

func TestSeedDemo(t *testing.T) {
	s := NewStore()
	SeedDemo(s)
	ctx := context.Background()

	lvl, err := s.Repositories().Levels.Get(ctx, DemoItemID, DemoWarehouseID)
	require.NoError(t, err)
	require.NotNil(t, lvl)
	assert.True(t, lvl.StockedQuantity.Equal(decimal.NewFromInt(100)))

	ref, err := s.Products().Resolve(ctx, DemoProductID)
	require.NoError(t, err)
	assert.Equal(t, DemoItemID, ref.InventoryItemID)

	sup, err := s.Repositories().Suppliers.GetByID(ctx, DemoSupplierID)
	require.NoError(t, err)
	assert.True(t, sup.IsActive)
}
