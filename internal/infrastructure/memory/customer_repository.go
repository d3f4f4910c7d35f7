// Package memory implementa CustomerRepository en memoria del proceso.
// Útil para desarrollo, demos (--seed) y tests; los datos se pierden al terminar.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/clientes-admin/internal/domain"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/domain/repository"
)

var (
	_ repository.CustomerRepository   = (*CustomerRepo)(nil)
	_ repository.CustomerBatchCreator = (*CustomerRepo)(nil)
)

// CustomerRepo lista de clientes en memoria protegida por mutex.
type CustomerRepo struct {
	mu    sync.Mutex
	items []*entity.Customer
	now   func() time.Time
}

// Option configura el repositorio.
type Option func(*CustomerRepo)

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(r *CustomerRepo) { r.now = now }
}

// WithSeed carga clientes iniciales; se copian.
func WithSeed(seed ...*entity.Customer) Option {
	return func(r *CustomerRepo) {
		for _, c := range seed {
			r.items = append(r.items, c.Clone())
		}
	}
}

// NewCustomerRepository construye el repositorio vacío (o con semilla).
func NewCustomerRepository(opts ...Option) *CustomerRepo {
	r := &CustomerRepo{now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// DemoSeed cliente de ejemplo para arrancar con datos.
func DemoSeed() []*entity.Customer {
	return []*entity.Customer{{
		ID:        1,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CustomerInput: entity.CustomerInput{
			Name:     "Yunis",
			Surname:  "Polatgil",
			Email:    "jejuwoodamz@gmail.com",
			Phone:    "05307947958",
			Category: entity.Individual{},
		},
	}}
}

// List devuelve copias ordenadas por ID descendente.
func (r *CustomerRepo) List(_ context.Context) ([]*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Customer, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c.Clone())
	}
	entity.SortByIDDesc(out)
	return out, nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(_ context.Context, id int64) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return r.items[i].Clone(), nil
	}
	return nil, domain.ErrNotFound
}

// Create asigna ID y CreatedAt y agrega el cliente.
func (r *CustomerRepo) Create(_ context.Context, in entity.CustomerInput) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &entity.Customer{
		ID:        entity.NextCustomerID(r.items),
		CreatedAt: entity.NextCreatedAt(r.items, r.now().UTC()),
	}
	c.Apply(in)
	r.items = append(r.items, c)
	return c.Clone(), nil
}

// CreateBatch agrega todos los clientes bajo el mismo lock.
func (r *CustomerRepo) CreateBatch(_ context.Context, ins []entity.CustomerInput) ([]*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Customer, 0, len(ins))
	for _, in := range ins {
		c := &entity.Customer{
			ID:        entity.NextCustomerID(r.items),
			CreatedAt: entity.NextCreatedAt(r.items, r.now().UTC()),
		}
		c.Apply(in)
		r.items = append(r.items, c)
		out = append(out, c.Clone())
	}
	return out, nil
}

// Update reemplaza los campos mutables del cliente.
func (r *CustomerRepo) Update(_ context.Context, id int64, in entity.CustomerInput) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	r.items[i].Apply(in)
	return r.items[i].Clone(), nil
}

// Delete elimina el cliente.
func (r *CustomerRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *CustomerRepo) indexOf(id int64) int {
	for i, c := range r.items {
		if c.ID == id {
			return i
		}
	}
	return -1
}
