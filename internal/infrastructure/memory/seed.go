package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
)

// Ids fijos del catálogo de demostración.
const (
	DemoWarehouseID = "11111111-1111-1111-1111-111111111111"
	DemoStoreID     = "22222222-2222-2222-2222-222222222222"
	DemoProductID   = "33333333-3333-3333-3333-333333333333"
	DemoItemID      = "44444444-4444-4444-4444-444444444444"
	DemoSupplierID  = "55555555-5555-5555-5555-555555555555"
	DemoUserID      = "66666666-6666-6666-6666-666666666666"
)

// SeedDemo carga un catálogo mínimo para usar la API con STORAGE_DRIVER=memory.
func SeedDemo(s *Store) {
	now := time.Now().UTC()
	s.AddLocation(entity.StockLocation{ID: DemoWarehouseID, Name: "Bodega principal"})
	s.AddLocation(entity.StockLocation{ID: DemoStoreID, Name: "Tienda centro"})
	s.AddProduct(entity.ProductRef{ProductID: DemoProductID, InventoryItemID: DemoItemID, Title: "Café tostado 500g", SKU: "CAF-500"})
	s.AddUser(entity.User{ID: DemoUserID, FirstName: "Laura", LastName: "Gómez", Email: "laura@example.com"})
	s.SetLevel(entity.InventoryLevel{
		ID:               "77777777-7777-7777-7777-777777777777",
		InventoryItemID:  DemoItemID,
		LocationID:       DemoWarehouseID,
		StockedQuantity:  decimal.NewFromInt(100),
		ReservedQuantity: decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.suppliers[DemoSupplierID] = &entity.Supplier{
		ID:        DemoSupplierID,
		Code:      "DIST-ANDINA",
		Name:      "Distribuidora Andina",
		Type:      entity.SupplierTypeStandard,
		IsActive:  true,
		Metadata:  map[string]any{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
