package repository

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Suppliers        SupplierRepository
	Orders           OrderRepository
	Lines            OrderLineRepository
	Movements        InventoryMovementRepository
	Levels           InventoryLevelRepository
	ProductSuppliers ProductSupplierRepository
}
