package repository

import (
	"context"

	"github.com/jhoicas/clientes-admin/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer (DIP).
// Todas las variantes (memoria, slot local, PostgreSQL, API remota) cumplen:
//   - List devuelve los clientes ordenados por ID descendente.
//   - Create asigna ID = max+1 (1 si está vacío) y CreatedAt.
//   - GetByID, Update y Delete devuelven domain.ErrNotFound si el ID no existe.
//   - La persistencia termina antes de retornar.
type CustomerRepository interface {
	List(ctx context.Context) ([]*entity.Customer, error)
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	Create(ctx context.Context, in entity.CustomerInput) (*entity.Customer, error)
	Update(ctx context.Context, id int64, in entity.CustomerInput) (*entity.Customer, error)
	Delete(ctx context.Context, id int64) error
}

// CustomerBatchCreator persistencia capaz de crear un lote de clientes de forma atómica.
// Es opcional: sin ella las importaciones crean uno a uno.
type CustomerBatchCreator interface {
	CreateBatch(ctx context.Context, ins []entity.CustomerInput) ([]*entity.Customer, error)
}
