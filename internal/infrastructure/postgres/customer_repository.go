package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/clientes-admin/internal/domain"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/domain/repository"
)

var (
	_ repository.CustomerRepository   = (*CustomerRepo)(nil)
	_ repository.CustomerBatchCreator = (*CustomerImporter)(nil)
)

// createAttempts reintentos de Create ante colisión de ID entre escritores concurrentes.
const createAttempts = 5

const customerColumns = `id, name, surname, email, phone, type, company_name, created_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var (
		c           entity.Customer
		typ         string
		companyName *string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Surname, &c.Email, &c.Phone, &typ, &companyName, &c.CreatedAt); err != nil {
		return nil, err
	}
	t, ok := entity.ParseCustomerType(typ)
	if !ok {
		return nil, fmt.Errorf("tipo de cliente desconocido en DB: %q", typ)
	}
	name := ""
	if companyName != nil {
		name = *companyName
	}
	c.Category = entity.NewCategory(t, name)
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

// companyNameArg devuelve NULL para individuales (constraint customers_company_only_corporate).
func companyNameArg(in entity.CustomerInput) *string {
	if in.Type() != entity.CustomerTypeCorporate {
		return nil
	}
	s := in.CompanyName()
	return &s
}

// List lista todos los clientes, del más reciente al más antiguo.
func (r *CustomerRepo) List(ctx context.Context) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id DESC`)
	if err != nil {
		return nil, transportErr("list customers", err)
	}
	defer rows.Close()
	list := make([]*entity.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, transportErr("list customers", err)
	}
	return list, nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, transportErr("get customer", err)
	}
	return c, nil
}

// Create inserta con id = max+1 y created_at no decreciente. Si otro escritor tomó el mismo
// id, la PK lo rechaza y se reintenta.
func (r *CustomerRepo) Create(ctx context.Context, in entity.CustomerInput) (*entity.Customer, error) {
	in = in.Normalized()
	query := `
		INSERT INTO customers (id, name, surname, email, phone, type, company_name, created_at)
		SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3, $4, $5, $6,
		       GREATEST($7::timestamptz, COALESCE(MAX(created_at), $7::timestamptz))
		FROM customers
		RETURNING ` + customerColumns
	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		c, err := scanCustomer(r.q.QueryRow(ctx, query,
			in.Name, in.Surname, in.Email, in.Phone, string(in.Type()), companyNameArg(in), time.Now().UTC(),
		))
		if err == nil {
			return c, nil
		}
		if !isUniqueViolation(err) {
			return nil, transportErr("insert customer", err)
		}
		lastErr = err
	}
	return nil, transportErr("insert customer", lastErr)
}

// Update reemplaza los campos mutables; id y created_at no se tocan.
func (r *CustomerRepo) Update(ctx context.Context, id int64, in entity.CustomerInput) (*entity.Customer, error) {
	in = in.Normalized()
	c, err := scanCustomer(r.q.QueryRow(ctx, `
		UPDATE customers
		SET name = $2, surname = $3, email = $4, phone = $5, type = $6, company_name = $7
		WHERE id = $1
		RETURNING `+customerColumns,
		id, in.Name, in.Surname, in.Email, in.Phone, string(in.Type()), companyNameArg(in),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, transportErr("update customer", err)
	}
	return c, nil
}

// Delete elimina un cliente por ID.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return transportErr("delete customer", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CustomerImporter crea lotes de clientes en una sola transacción.
type CustomerImporter struct {
	runner *TxRunner
}

// NewCustomerImporter construye el importador.
func NewCustomerImporter(runner *TxRunner) *CustomerImporter {
	return &CustomerImporter{runner: runner}
}

// CreateBatch crea todos los clientes o ninguno.
func (i *CustomerImporter) CreateBatch(ctx context.Context, ins []entity.CustomerInput) ([]*entity.Customer, error) {
	out := make([]*entity.Customer, 0, len(ins))
	err := i.runner.RunCustomers(ctx, func(repo *CustomerRepo) error {
		// Dentro de la tx el lock evita colisiones de id con otros escritores.
		if _, err := repo.q.Exec(ctx, `LOCK TABLE customers IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return transportErr("lock customers", err)
		}
		for _, in := range ins {
			c, err := repo.Create(ctx, in)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
