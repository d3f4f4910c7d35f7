package admin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clientes-admin/internal/application/admin"
	"github.com/jhoicas/clientes-admin/internal/domain"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/domain/repository"
	"github.com/jhoicas/clientes-admin/internal/domain/repository/repositorytest"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/memory"
)

// countingRepo cuenta las llamadas de escritura y permite forzar fallos.
type countingRepo struct {
	repository.CustomerRepository
	creates, updates, deletes int
	fail                      error
}

func (r *countingRepo) Create(ctx context.Context, in entity.CustomerInput) (*entity.Customer, error) {
	r.creates++
	if r.fail != nil {
		return nil, r.fail
	}
	return r.CustomerRepository.Create(ctx, in)
}

func (r *countingRepo) Update(ctx context.Context, id int64, in entity.CustomerInput) (*entity.Customer, error) {
	r.updates++
	if r.fail != nil {
		return nil, r.fail
	}
	return r.CustomerRepository.Update(ctx, id, in)
}

func (r *countingRepo) Delete(ctx context.Context, id int64) error {
	r.deletes++
	if r.fail != nil {
		return r.fail
	}
	return r.CustomerRepository.Delete(ctx, id)
}

func (r *countingRepo) List(ctx context.Context) ([]*entity.Customer, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	return r.CustomerRepository.List(ctx)
}

func newCountingRepo() *countingRepo {
	return &countingRepo{CustomerRepository: memory.NewCustomerRepository()}
}

func TestEditForm_AbrirReiniciaCampos(t *testing.T) {
	f := admin.NewEditForm("")
	assert.Equal(t, entity.DefaultValidationPolicy, f.Policy())

	corp := &entity.Customer{ID: 7, CustomerInput: repositorytest.Mobilya()}
	f.Open(corp)
	assert.True(t, f.IsEditing())
	assert.Equal(t, "Mobilya A.Ş.", f.Get(admin.FieldCompanyName))
	require.NoError(t, f.Set(admin.FieldName, "Cambiado"))
	f.Close()

	// alta tras una edición: nada del registro anterior
	f.Open(nil)
	assert.False(t, f.IsEditing())
	assert.Equal(t, admin.FormFields{Type: entity.CustomerTypeIndividual}, f.Fields())
	assert.Equal(t, "Nuevo cliente", f.Title())

	// reabrir el mismo registro vuelve a sus valores originales
	f.Open(corp)
	assert.Equal(t, "Mobilya", f.Get(admin.FieldName))
}

func TestEditForm_CambiarTipoBorraRazonSocial(t *testing.T) {
	f := admin.NewEditForm(entity.PolicyTyped)
	f.Open(nil)
	assert.False(t, f.ShowsCompanyName())

	require.NoError(t, f.Set(admin.FieldCompanyName, "Ignorada"))
	assert.Empty(t, f.Get(admin.FieldCompanyName))

	require.NoError(t, f.Set(admin.FieldType, "kurumsal"))
	assert.True(t, f.ShowsCompanyName())
	require.NoError(t, f.Set(admin.FieldCompanyName, "Acme"))

	f.ToggleType()
	assert.Equal(t, entity.CustomerTypeIndividual, f.Fields().Type)
	assert.Empty(t, f.Get(admin.FieldCompanyName))

	assert.ErrorIs(t, f.Set(admin.FieldType, "otro"), admin.ErrUnknownField)
	assert.ErrorIs(t, f.Set("direccion", "x"), admin.ErrUnknownField)
}

func TestEditForm_ValidacionNoLlamaAlRepositorio(t *testing.T) {
	tests := []struct {
		name   string
		policy entity.ValidationPolicy
		fill   map[string]string
		want   []string
	}{
		{"minimal sin nombre", entity.PolicyMinimal, map[string]string{admin.FieldSurname: "X"}, []string{"name"}},
		{"strict sin email", entity.PolicyStrict, map[string]string{admin.FieldName: "A", admin.FieldSurname: "B"}, []string{"email"}},
		{"typed corporativo sin razón social", entity.PolicyTyped, map[string]string{admin.FieldName: "A", admin.FieldSurname: "B", admin.FieldType: "corporate"}, []string{"companyName"}},
		{"espacios cuentan como vacío", entity.PolicyMinimal, map[string]string{admin.FieldName: "  ", admin.FieldSurname: "\t"}, []string{"name", "surname"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newCountingRepo()
			f := admin.NewEditForm(tt.policy)
			f.Open(nil)
			// el tipo primero para que la razón social se acepte
			if v, ok := tt.fill[admin.FieldType]; ok {
				require.NoError(t, f.Set(admin.FieldType, v))
			}
			for k, v := range tt.fill {
				if k != admin.FieldType {
					require.NoError(t, f.Set(k, v))
				}
			}

			c, _, err := f.Save(context.Background(), repo)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			var fe entity.FieldErrors
			require.True(t, errors.As(err, &fe))
			for _, k := range tt.want {
				assert.Contains(t, fe, k)
			}
			assert.True(t, f.IsOpen())
			assert.Zero(t, repo.creates+repo.updates)
		})
	}
}

func TestEditForm_GuardarCreaYActualiza(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	f := admin.NewEditForm(entity.PolicyTyped)

	f.Open(nil)
	require.NoError(t, f.Set(admin.FieldName, " Ayşe "))
	require.NoError(t, f.Set(admin.FieldSurname, "Yılmaz"))
	c, created, err := f.Save(ctx, repo)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, "Ayşe", c.Name)
	assert.False(t, f.IsOpen())

	f.Open(c)
	assert.Equal(t, "Editar cliente Ayşe Yılmaz", f.Title())
	require.NoError(t, f.Set(admin.FieldEmail, "ayse@ornek.com"))
	u, created, err := f.Save(ctx, repo)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c.ID, u.ID)
	assert.Equal(t, "ayse@ornek.com", u.Email)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.updates)
}

func TestEditForm_CorporativoAIndividualGuardaSinRazonSocial(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCustomerRepository()
	c, err := repo.Create(ctx, repositorytest.Mobilya())
	require.NoError(t, err)

	f := admin.NewEditForm(entity.PolicyTyped)
	f.Open(c)
	require.Equal(t, entity.CustomerTypeCorporate, f.Fields().Type)
	require.NoError(t, f.Set(admin.FieldType, "individual"))
	_, _, err = f.Save(ctx, repo)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CustomerTypeIndividual, got.Type())
	assert.Empty(t, got.CompanyName())
	assert.Equal(t, entity.Individual{}, got.Category)
}

func TestEditForm_FalloDelRepositorioDejaAbierto(t *testing.T) {
	repo := newCountingRepo()
	repo.fail = domain.ErrTransport
	f := admin.NewEditForm(entity.PolicyMinimal)
	f.Open(nil)
	require.NoError(t, f.Set(admin.FieldName, "A"))
	require.NoError(t, f.Set(admin.FieldSurname, "B"))

	_, created, err := f.Save(context.Background(), repo)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.True(t, created)
	assert.True(t, f.IsOpen())
	assert.Equal(t, "A", f.Get(admin.FieldName))
}

func TestEditForm_GuardarCerrado(t *testing.T) {
	f := admin.NewEditForm(entity.PolicyTyped)
	_, _, err := f.Save(context.Background(), newCountingRepo())
	assert.ErrorIs(t, err, admin.ErrFormClosed)
}
