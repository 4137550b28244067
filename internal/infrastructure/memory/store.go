// Package memory implementa los repositorios en memoria. Se usa en tests y con
// STORAGE_DRIVER=memory para levantar la API sin PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex   // serializa transacciones (equivalente a los bloqueos de fila)

	data state

	failMu sync.Mutex
	fails  map[string][]error

	products  map[string]*entity.ProductRef
	locations map[string]*entity.StockLocation
	users     map[string]*entity.User
}

type state struct {
	suppliers        map[string]*entity.Supplier
	orders           map[string]*entity.Order
	lines            map[string]*entity.OrderLine
	movements        []*entity.InventoryMovement
	levels           map[string]*entity.InventoryLevel
	productSuppliers map[string]*entity.ProductSupplier
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		data: state{
			suppliers:        map[string]*entity.Supplier{},
			orders:           map[string]*entity.Order{},
			lines:            map[string]*entity.OrderLine{},
			levels:           map[string]*entity.InventoryLevel{},
			productSuppliers: map[string]*entity.ProductSupplier{},
		},
		fails:     map[string][]error{},
		products:  map[string]*entity.ProductRef{},
		locations: map[string]*entity.StockLocation{},
		users:     map[string]*entity.User{},
	}
}

// Repositories devuelve los repositorios sobre este store, fuera de transacción.
func (s *Store) Repositories() repository.Repositories {
	return s.repositories(nil)
}

func (s *Store) repositories(tx *journal) repository.Repositories {
	return repository.Repositories{
		Suppliers:        &SupplierRepo{s: s, tx: tx},
		Orders:           &OrderRepo{s: s, tx: tx},
		Lines:            &OrderLineRepo{s: s, tx: tx},
		Movements:        &MovementRepo{s: s, tx: tx},
		Levels:           &LevelRepo{s: s, tx: tx},
		ProductSuppliers: &ProductSupplierRepo{s: s, tx: tx},
	}
}

// FailNext hace que la próxima llamada a op (p. ej. "orders.update") devuelva err.
// Las llamadas acumuladas se consumen en orden.
func (s *Store) FailNext(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.fails[op] = append(s.fails[op], err)
}

// injected consume un fallo pendiente para op.
func (s *Store) injected(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	queue := s.fails[op]
	if len(queue) == 0 {
		return nil
	}
	err := queue[0]
	if len(queue) == 1 {
		delete(s.fails, op)
	} else {
		s.fails[op] = queue[1:]
	}
	return err
}

// TxRunner ejecuta funciones transaccionales sobre el store. Si fn falla se deshacen
// solo las escrituras hechas por fn.
type TxRunner struct {
	s *Store
}

// NewTxRunner crea el runner transaccional del store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn de forma serializada con otras transacciones; ante error revierte sus cambios.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	tx := &journal{}
	if err := fn(r.s.repositories(tx)); err != nil {
		r.s.mu.Lock()
		tx.rollback(&r.s.data)
		r.s.mu.Unlock()
		return err
	}
	return nil
}

// journal guarda, por cada escritura de una transacción, cómo volver al valor previo.
// Se llama con s.mu tomado.
type journal struct {
	undo []func(st *state)
}

func (j *journal) record(fn func(st *state)) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

func (j *journal) rollback(st *state) {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i](st)
	}
	j.undo = nil
}

// remember registra el valor actual de key en la tabla elegida por table.
func remember[T any](j *journal, st *state, table func(st *state) map[string]*T, key string) {
	if j == nil {
		return
	}
	prev, had := table(st)[key]
	j.record(func(st *state) {
		if had {
			table(st)[key] = prev
			return
		}
		delete(table(st), key)
	})
}

// forgetMovement registra que el movimiento m debe quitarse al revertir.
func (j *journal) forgetMovement(m *entity.InventoryMovement) {
	j.record(func(st *state) {
		for i, existing := range st.movements {
			if existing == m {
				st.movements = append(st.movements[:i], st.movements[i+1:]...)
				return
			}
		}
	})
}

func suppliersTable(st *state) map[string]*entity.Supplier {
	return st.suppliers
}

func ordersTable(st *state) map[string]*entity.Order {
	return st.orders
}

func linesTable(st *state) map[string]*entity.OrderLine {
	return st.lines
}

func levelsTable(st *state) map[string]*entity.InventoryLevel {
	return st.levels
}

func productSuppliersTable(st *state) map[string]*entity.ProductSupplier {
	return st.productSuppliers
}

func cloneMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSupplier(v *entity.Supplier) *entity.Supplier {
	c := *v
	c.Metadata = cloneMeta(v.Metadata)
	return &c
}

func cloneOrder(v *entity.Order) *entity.Order {
	c := *v
	c.Metadata = cloneMeta(v.Metadata)
	c.Lines = nil
	return &c
}

func cloneLine(v *entity.OrderLine) *entity.OrderLine {
	c := *v
	c.Metadata = cloneMeta(v.Metadata)
	return &c
}

func cloneMovement(v *entity.InventoryMovement) *entity.InventoryMovement {
	c := *v
	c.Metadata = cloneMeta(v.Metadata)
	return &c
}

func cloneLevel(v *entity.InventoryLevel) *entity.InventoryLevel {
	c := *v
	return &c
}

func cloneProductSupplier(v *entity.ProductSupplier) *entity.ProductSupplier {
	c := *v
	c.Metadata = cloneMeta(v.Metadata)
	c.PriceHistory = append([]entity.PriceChange(nil), v.PriceHistory...)
	return &c
}
