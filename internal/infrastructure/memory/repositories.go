package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
	dsupplier "github.com/jhoicas/Proveedores-api/internal/domain/supplier"
)

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ---- proveedores ----

type SupplierRepo struct {
	s  *Store
	tx *journal
}

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("suppliers.create"); err != nil {
		return err
	}
	for _, existing := range r.s.data.suppliers {
		if existing.Code == sup.Code {
			return domain.ErrDuplicate
		}
	}
	remember(r.tx, &r.s.data, suppliersTable, sup.ID)
	r.s.data.suppliers[sup.ID] = cloneSupplier(sup)
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sup, ok := r.s.data.suppliers[id]
	if !ok {
		return nil, nil
	}
	return cloneSupplier(sup), nil
}

func (r *SupplierRepo) GetByCode(_ context.Context, code string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, sup := range r.s.data.suppliers {
		if sup.Code == code {
			return cloneSupplier(sup), nil
		}
	}
	return nil, nil
}

func (r *SupplierRepo) Update(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("suppliers.update"); err != nil {
		return err
	}
	if _, ok := r.s.data.suppliers[sup.ID]; !ok {
		return domain.ErrNotFound
	}
	remember(r.tx, &r.s.data, suppliersTable, sup.ID)
	r.s.data.suppliers[sup.ID] = cloneSupplier(sup)
	return nil
}

func (r *SupplierRepo) List(_ context.Context, onlyActive bool, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Supplier, 0, len(r.s.data.suppliers))
	for _, sup := range r.s.data.suppliers {
		if onlyActive && !sup.IsActive {
			continue
		}
		out = append(out, cloneSupplier(sup))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// ---- órdenes ----

type OrderRepo struct {
	s  *Store
	tx *journal
}

var _ repository.OrderRepository = (*OrderRepo)(nil)

func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("orders.create"); err != nil {
		return err
	}
	if _, ok := r.s.data.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	remember(r.tx, &r.s.data, ordersTable, order.ID)
	r.s.data.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.data.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *OrderRepo) Update(_ context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("orders.update"); err != nil {
		return err
	}
	if _, ok := r.s.data.orders[order.ID]; !ok {
		return domain.ErrNotFound
	}
	remember(r.tx, &r.s.data, ordersTable, order.ID)
	r.s.data.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("orders.delete"); err != nil {
		return err
	}
	remember(r.tx, &r.s.data, ordersTable, id)
	delete(r.s.data.orders, id)
	return nil
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Order, 0)
	for _, o := range r.s.data.orders {
		if f.SupplierID != "" && o.SupplierID != f.SupplierID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Type != "" && o.Type != f.Type {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

// ---- líneas ----

type OrderLineRepo struct {
	s  *Store
	tx *journal
}

var _ repository.OrderLineRepository = (*OrderLineRepo)(nil)

func (r *OrderLineRepo) Create(_ context.Context, line *entity.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("lines.create"); err != nil {
		return err
	}
	if _, ok := r.s.data.orders[line.OrderID]; !ok {
		return domain.ErrNotFound
	}
	remember(r.tx, &r.s.data, linesTable, line.ID)
	r.s.data.lines[line.ID] = cloneLine(line)
	return nil
}

func (r *OrderLineRepo) GetByID(_ context.Context, id string) (*entity.OrderLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.data.lines[id]
	if !ok {
		return nil, nil
	}
	return cloneLine(l), nil
}

func (r *OrderLineRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.OrderLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.OrderLine, 0)
	for _, l := range r.s.data.lines {
		if l.OrderID == orderID {
			out = append(out, cloneLine(l))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *OrderLineRepo) Update(_ context.Context, line *entity.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("lines.update"); err != nil {
		return err
	}
	if _, ok := r.s.data.lines[line.ID]; !ok {
		return domain.ErrNotFound
	}
	remember(r.tx, &r.s.data, linesTable, line.ID)
	r.s.data.lines[line.ID] = cloneLine(line)
	return nil
}

func (r *OrderLineRepo) DeleteByOrder(_ context.Context, orderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("lines.delete"); err != nil {
		return err
	}
	for id, l := range r.s.data.lines {
		if l.OrderID == orderID {
			remember(r.tx, &r.s.data, linesTable, id)
			delete(r.s.data.lines, id)
		}
	}
	return nil
}

// ListPricePoints precios de líneas de órdenes de proveedor (nunca traslados), más recientes primero.
func (r *OrderLineRepo) ListPricePoints(_ context.Context, productID, supplierID string, statuses []entity.OrderStatus) ([]dsupplier.PricePoint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	allowed := make(map[entity.OrderStatus]bool, len(statuses))
	for _, st := range statuses {
		allowed[st] = true
	}
	out := make([]dsupplier.PricePoint, 0)
	for _, l := range r.s.data.lines {
		if l.ProductID != productID {
			continue
		}
		o, ok := r.s.data.orders[l.OrderID]
		if !ok || o.Type != entity.OrderTypeSupplier {
			continue
		}
		if supplierID != "" && o.SupplierID != supplierID {
			continue
		}
		if len(allowed) > 0 && !allowed[o.Status] {
			continue
		}
		var name string
		if sup, ok := r.s.data.suppliers[o.SupplierID]; ok {
			name = sup.Name
		}
		out = append(out, dsupplier.PricePoint{
			SupplierID:   o.SupplierID,
			SupplierName: name,
			OrderID:      o.ID,
			OrderStatus:  o.Status,
			OrderDate:    o.CreatedAt,
			ProductID:    l.ProductID,
			SKU:          l.SKU,
			UnitPrice:    l.UnitPrice,
			TaxRate:      l.TaxRate,
			DiscountRate: l.DiscountRate,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

// ---- libro de movimientos ----

type MovementRepo struct {
	s  *Store
	tx *journal
}

var _ repository.InventoryMovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("movements.create"); err != nil {
		return err
	}
	stored := cloneMovement(m)
	if r.tx != nil {
		r.tx.forgetMovement(stored)
	}
	r.s.data.movements = append(r.s.data.movements, stored)
	return nil
}

func (r *MovementRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.InventoryMovement, error) {
	return r.list(func(m *entity.InventoryMovement) bool { return m.OrderID == orderID }, repository.MovementFilter{}), nil
}

func (r *MovementRepo) ListByInventoryItem(_ context.Context, inventoryItemID string, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	return r.list(func(m *entity.InventoryMovement) bool { return m.InventoryItemID == inventoryItemID }, f), nil
}

func (r *MovementRepo) ListByLocation(_ context.Context, locationID string, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	return r.list(func(m *entity.InventoryMovement) bool {
		return m.FromLocationID == locationID || m.ToLocationID == locationID
	}, f), nil
}

func (r *MovementRepo) list(match func(*entity.InventoryMovement) bool, f repository.MovementFilter) []*entity.InventoryMovement {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.InventoryMovement, 0)
	// recorrido inverso: más recientes primero, con el orden de inserción como desempate
	for i := len(r.s.data.movements) - 1; i >= 0; i-- {
		m := r.s.data.movements[i]
		if !match(m) || !inRange(m.CreatedAt, f.From, f.To) {
			continue
		}
		out = append(out, cloneMovement(m))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset)
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// ---- niveles de inventario ----

type LevelRepo struct {
	s  *Store
	tx *journal
}

var _ repository.InventoryLevelRepository = (*LevelRepo)(nil)

func levelKey(itemID, locationID string) string { return itemID + "|" + locationID }

func (r *LevelRepo) Get(_ context.Context, inventoryItemID, locationID string) (*entity.InventoryLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.data.levels[levelKey(inventoryItemID, locationID)]
	if !ok {
		return nil, nil
	}
	return cloneLevel(l), nil
}

// GetForUpdate en memoria equivale a Get: la exclusión la da el TxRunner.
func (r *LevelRepo) GetForUpdate(ctx context.Context, inventoryItemID, locationID string) (*entity.InventoryLevel, error) {
	if err := r.s.injected("levels.get_for_update"); err != nil {
		return nil, err
	}
	return r.Get(ctx, inventoryItemID, locationID)
}

func (r *LevelRepo) Create(_ context.Context, level *entity.InventoryLevel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("levels.create"); err != nil {
		return err
	}
	key := levelKey(level.InventoryItemID, level.LocationID)
	if _, ok := r.s.data.levels[key]; ok {
		return domain.ErrDuplicate
	}
	level.Version = 1
	remember(r.tx, &r.s.data, levelsTable, key)
	r.s.data.levels[key] = cloneLevel(level)
	return nil
}

func (r *LevelRepo) Update(_ context.Context, level *entity.InventoryLevel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("levels.update"); err != nil {
		return err
	}
	key := levelKey(level.InventoryItemID, level.LocationID)
	current, ok := r.s.data.levels[key]
	if !ok {
		return domain.ErrNotFound
	}
	if level.Version != current.Version {
		return domain.ErrConflict
	}
	level.Version++
	remember(r.tx, &r.s.data, levelsTable, key)
	r.s.data.levels[key] = cloneLevel(level)
	return nil
}

func (r *LevelRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("levels.delete"); err != nil {
		return err
	}
	for key, l := range r.s.data.levels {
		if l.ID == id {
			remember(r.tx, &r.s.data, levelsTable, key)
			delete(r.s.data.levels, key)
		}
	}
	return nil
}

// SetLevel fija el stock de un ítem en una ubicación (fixtures de tests y arranque en memoria).
func (s *Store) SetLevel(level entity.InventoryLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if level.Version == 0 {
		level.Version = 1
	}
	s.data.levels[levelKey(level.InventoryItemID, level.LocationID)] = &level
}

// ---- vínculos producto-proveedor ----

type ProductSupplierRepo struct {
	s  *Store
	tx *journal
}

var _ repository.ProductSupplierRepository = (*ProductSupplierRepo)(nil)

func (r *ProductSupplierRepo) Create(_ context.Context, link *entity.ProductSupplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("product_suppliers.create"); err != nil {
		return err
	}
	for _, existing := range r.s.data.productSuppliers {
		if existing.ProductID == link.ProductID && existing.SupplierID == link.SupplierID {
			return domain.ErrDuplicate
		}
	}
	remember(r.tx, &r.s.data, productSuppliersTable, link.ID)
	r.s.data.productSuppliers[link.ID] = cloneProductSupplier(link)
	return nil
}

func (r *ProductSupplierRepo) GetByID(_ context.Context, id string) (*entity.ProductSupplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.data.productSuppliers[id]
	if !ok {
		return nil, nil
	}
	return cloneProductSupplier(l), nil
}

func (r *ProductSupplierRepo) GetByProductAndSupplier(_ context.Context, productID, supplierID string) (*entity.ProductSupplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.data.productSuppliers {
		if l.ProductID == productID && l.SupplierID == supplierID {
			return cloneProductSupplier(l), nil
		}
	}
	return nil, nil
}

func (r *ProductSupplierRepo) Update(_ context.Context, link *entity.ProductSupplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("product_suppliers.update"); err != nil {
		return err
	}
	if _, ok := r.s.data.productSuppliers[link.ID]; !ok {
		return domain.ErrNotFound
	}
	remember(r.tx, &r.s.data, productSuppliersTable, link.ID)
	r.s.data.productSuppliers[link.ID] = cloneProductSupplier(link)
	return nil
}
