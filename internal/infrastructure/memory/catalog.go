package memory

import (
	"context"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
)

// AddProduct registra un producto resoluble.
func (s *Store) AddProduct(p entity.ProductRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ProductID] = &p
}

// AddLocation registra una ubicación de stock.
func (s *Store) AddLocation(l entity.StockLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = &l
}

// AddUser registra un usuario para la resolución de actores.
func (s *Store) AddUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

// Products repositorio de productos del catálogo en memoria.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Locations repositorio de ubicaciones en memoria.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{s: s} }

// Users repositorio de usuarios en memoria.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

type ProductRepo struct{ s *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Resolve(_ context.Context, productID string) (*entity.ProductRef, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.injected("products.resolve"); err != nil {
		return nil, err
	}
	p, ok := r.s.products[productID]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

type LocationRepo struct{ s *Store }

var _ repository.LocationRepository = (*LocationRepo)(nil)

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.StockLocation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.injected("users.get"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}
