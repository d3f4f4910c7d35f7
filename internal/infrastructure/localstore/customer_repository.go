package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/clientes-admin/internal/domain"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/domain/repository"
)

var (
	_ repository.CustomerRepository   = (*CustomerRepo)(nil)
	_ repository.CustomerBatchCreator = (*CustomerRepo)(nil)
)

// storedCustomer formato del blob (camelCase, igual que la API).
type storedCustomer struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Type        string    `json:"type"`
	CompanyName string    `json:"companyName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CustomerRepo lista de clientes cargada del slot al abrir y reescrita completa en cada mutación.
type CustomerRepo struct {
	mu    sync.Mutex
	slot  Slot
	name  string
	items []*entity.Customer
	now   func() time.Time
	log   zerolog.Logger
}

// Option configura el repositorio.
type Option func(*CustomerRepo)

// WithClock reemplaza time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *CustomerRepo) { r.now = now }
}

// WithLogger asigna el logger (por defecto, nop).
func WithLogger(l zerolog.Logger) Option {
	return func(r *CustomerRepo) { r.log = l }
}

// Open lee el slot y decodifica la lista. Un blob ilegible se registra y se trata como lista vacía.
func Open(ctx context.Context, slot Slot, name string, opts ...Option) (*CustomerRepo, error) {
	if name == "" {
		name = DefaultSlotName
	}
	r := &CustomerRepo{slot: slot, name: name, now: time.Now, log: zerolog.Nop()}
	for _, o := range opts {
		o(r)
	}
	data, err := slot.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	r.items = r.decode(data)
	r.log.Debug().Str("slot", name).Int("customers", len(r.items)).Msg("slot cargado")
	return r, nil
}

func (r *CustomerRepo) decode(data []byte) []*entity.Customer {
	if len(data) == 0 {
		return nil
	}
	var stored []storedCustomer
	if err := json.Unmarshal(data, &stored); err != nil {
		r.log.Warn().Err(err).Str("slot", r.name).Msg("slot ilegible, se inicia con lista vacía")
		return nil
	}
	out := make([]*entity.Customer, 0, len(stored))
	for _, s := range stored {
		t, ok := entity.ParseCustomerType(s.Type)
		if !ok {
			t = entity.CustomerTypeIndividual
		}
		out = append(out, &entity.Customer{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			CustomerInput: entity.CustomerInput{
				Name:     s.Name,
				Surname:  s.Surname,
				Email:    s.Email,
				Phone:    s.Phone,
				Category: entity.NewCategory(t, s.CompanyName),
			},
		})
	}
	return out
}

func encode(items []*entity.Customer) ([]byte, error) {
	stored := make([]storedCustomer, 0, len(items))
	for _, c := range items {
		stored = append(stored, storedCustomer{
			ID:          c.ID,
			Name:        c.Name,
			Surname:     c.Surname,
			Email:       c.Email,
			Phone:       c.Phone,
			Type:        string(c.Type()),
			CompanyName: c.CompanyName(),
			CreatedAt:   c.CreatedAt,
		})
	}
	return json.Marshal(stored)
}

// commit persiste next y, sólo si la escritura tuvo éxito, la adopta como estado actual.
func (r *CustomerRepo) commit(ctx context.Context, next []*entity.Customer) error {
	data, err := encode(next)
	if err != nil {
		return fmt.Errorf("codificar clientes: %w", err)
	}
	if err := r.slot.Save(ctx, r.name, data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	r.items = next
	return nil
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
	for _, c := range r.items {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create agrega el cliente y reescribe el slot.
func (r *CustomerRepo) Create(ctx context.Context, in entity.CustomerInput) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &entity.Customer{
		ID:        entity.NextCustomerID(r.items),
		CreatedAt: entity.NextCreatedAt(r.items, r.now().UTC()),
	}
	c.Apply(in)
	next := append(r.cloneItems(), c)
	if err := r.commit(ctx, next); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// CreateBatch agrega el lote completo con una sola escritura del slot: o se guardan todos o ninguno.
func (r *CustomerRepo) CreateBatch(ctx context.Context, ins []entity.CustomerInput) ([]*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.cloneItems()
	created := make([]*entity.Customer, 0, len(ins))
	for _, in := range ins {
		c := &entity.Customer{
			ID:        entity.NextCustomerID(next),
			CreatedAt: entity.NextCreatedAt(next, r.now().UTC()),
		}
		c.Apply(in)
		next = append(next, c)
		created = append(created, c.Clone())
	}
	if err := r.commit(ctx, next); err != nil {
		return nil, err
	}
	return created, nil
}

// Update reemplaza los campos mutables y reescribe el slot.
func (r *CustomerRepo) Update(ctx context.Context, id int64, in entity.CustomerInput) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.cloneItems()
	for _, c := range next {
		if c.ID != id {
			continue
		}
		c.Apply(in)
		if err := r.commit(ctx, next); err != nil {
			return nil, err
		}
		return c.Clone(), nil
	}
	return nil, domain.ErrNotFound
}

// Delete elimina el cliente y reescribe el slot.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]*entity.Customer, 0, len(r.items))
	for _, c := range r.items {
		if c.ID != id {
			next = append(next, c.Clone())
		}
	}
	if len(next) == len(r.items) {
		return domain.ErrNotFound
	}
	return r.commit(ctx, next)
}

func (r *CustomerRepo) cloneItems() []*entity.Customer {
	out := make([]*entity.Customer, 0, len(r.items)+1)
	for _, c := range r.items {
		out = append(out, c.Clone())
	}
	return out
}
