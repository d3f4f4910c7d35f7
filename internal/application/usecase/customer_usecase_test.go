package usecase_test

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clientes-admin/internal/application/dto"
	"github.com/jhoicas/clientes-admin/internal/application/usecase"
	"github.com/jhoicas/clientes-admin/internal/domain"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/domain/repository"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/memory"
)

func ayseReq() dto.CustomerRequest {
	return dto.CustomerRequest{Name: "Ayşe", Surname: "Yılmaz", Type: "individual"}
}

func mobilyaReq() dto.CustomerRequest {
	return dto.CustomerRequest{Name: "Mobilya", Surname: "A.Ş.", Type: "corporate", CompanyName: "Mobilya A.Ş."}
}

func int64Ptr(v int64) *int64 { return &v }

// csvEncoder codificador mínimo para probar Export sin depender de infraestructura.
type csvEncoder struct{}

func (csvEncoder) Format() string      { return "csv" }
func (csvEncoder) ContentType() string { return "text/csv" }
func (csvEncoder) Extension() string   { return "csv" }
func (csvEncoder) Encode(w io.Writer, list []*entity.Customer) error {
	cw := csv.NewWriter(w)
	for _, c := range list {
		if err := cw.Write([]string{strconv.FormatInt(c.ID, 10), c.Name}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// sequentialRepo oculta CreateBatch del repositorio en memoria.
type sequentialRepo struct {
	repository.CustomerRepository
	creates int
}

func (r *sequentialRepo) Create(ctx context.Context, in entity.CustomerInput) (*entity.Customer, error) {
	r.creates++
	return r.CustomerRepository.Create(ctx, in)
}

func TestCustomerUseCase_CrearYListar(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCustomerUseCase(memory.NewCustomerRepository(), "")
	assert.Equal(t, entity.PolicyTyped, uc.Policy())

	first, err := uc.Create(ctx, ayseReq())
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "individual", first.Type)

	req := mobilyaReq()
	req.ID = int64Ptr(99)
	second, err := uc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID, "el id del body se ignora al crear")
	assert.Equal(t, "Mobilya A.Ş.", second.CompanyName)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
}

func TestCustomerUseCase_CrearInvalido(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCustomerUseCase(memory.NewCustomerRepository(), entity.PolicyTyped)

	_, err := uc.Create(ctx, dto.CustomerRequest{Name: "Sin apellido"})
	var fe entity.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "surname")

	_, err = uc.Create(ctx, dto.CustomerRequest{Name: "A", Surname: "B", Type: "corporate"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CustomerRequest{Name: "A", Surname: "B", Type: "gobierno"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCustomerUseCase_AliasDeTipo(t *testing.T) {
	uc := usecase.NewCustomerUseCase(memory.NewCustomerRepository(), entity.PolicyTyped)
	c, err := uc.Create(context.Background(), dto.CustomerRequest{Name: "A", Surname: "B", Type: "kurumsal", CompanyName: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, "corporate", c.Type)
}

func TestCustomerUseCase_Actualizar(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCustomerUseCase(memory.NewCustomerRepository(), entity.PolicyTyped)
	created, err := uc.Create(ctx, mobilyaReq())
	require.NoError(t, err)

	req := ayseReq()
	req.ID = int64Ptr(2)
	_, err = uc.Update(ctx, created.ID, req)
	assert.ErrorIs(t, err, domain.ErrIDMismatch)

	_, err = uc.Update(ctx, 50, ayseReq())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	req.ID = int64Ptr(created.ID)
	updated, err := uc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.Equal(t, "individual", updated.Type)
	assert.Empty(t, updated.CompanyName)
}

func TestCustomerUseCase_Eliminar(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCustomerUseCase(memory.NewCustomerRepository(), entity.PolicyTyped)
	c, err := uc.Create(ctx, ayseReq())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, c.ID))
	assert.ErrorIs(t, uc.Delete(ctx, c.ID), domain.ErrNotFound)
	_, err = uc.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerUseCase_Pagina(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCustomerUseCase(memory.NewCustomerRepository(), entity.PolicyTyped)
	for i := 0; i < 12; i++ {
		_, err := uc.Create(ctx, ayseReq())
		require.NoError(t, err)
	}
	_, err := uc.Create(ctx, mobilyaReq())
	require.NoError(t, err)

	page, err := uc.Page(ctx, "", 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Page)
	assert.Equal(t, 13, page.Page.Total)
	assert.Equal(t, 3, page.Page.PageCount)
	assert.Len(t, page.Items, 3)

	page, err = uc.Page(ctx, "MOBILYA", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Page.PageSize)

	page, err = uc.Page(ctx, "mobilya", 7, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(13), page.Items[0].ID)
	assert.Equal(t, 0, page.Page.Page)

	page, err = uc.Page(ctx, "nadie", 0, 5)
	require.NoError(t, err)
	assert.True(t, page.Empty)
	assert.NotNil(t, page.Items)

	_, err = uc.Page(ctx, "", 0, 7)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerUseCase_Exportar(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCustomerUseCase(memory.NewCustomerRepository(), entity.PolicyTyped,
		usecase.WithEncoders(csvEncoder{}))
	_, err := uc.Create(ctx, ayseReq())
	require.NoError(t, err)

	file, err := uc.Export(ctx, "CSV")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Name, ".csv"))
	assert.Equal(t, "1,Ayşe\n", string(file.Data))

	_, err = uc.Export(ctx, "docx")
	assert.ErrorIs(t, err, usecase.ErrUnsupportedFormat)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerUseCase_ImportarOmiteInvalidas(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCustomerUseCase(memory.NewCustomerRepository(), entity.PolicyTyped)

	res, err := uc.Import(ctx, []usecase.ImportRow{
		{Row: 2, Request: ayseReq()},
		{Row: 3, Request: dto.CustomerRequest{Name: "Sin apellido"}},
		{Row: 4, Request: mobilyaReq()},
		{Row: 5, Request: dto.CustomerRequest{Name: "A", Surname: "B", Type: "corporate"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Created, 2)
	assert.Equal(t, int64(1), res.Created[0].ID)
	assert.Equal(t, int64(2), res.Created[1].ID)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 3, res.Skipped[0].Row)
	assert.Contains(t, res.Skipped[0].Reason, "surname")
	assert.Equal(t, 5, res.Skipped[1].Row)
}

func TestCustomerUseCase_ImportarSinLotes(t *testing.T) {
	ctx := context.Background()
	repo := &sequentialRepo{CustomerRepository: memory.NewCustomerRepository()}
	uc := usecase.NewCustomerUseCase(repo, entity.PolicyTyped)

	res, err := uc.Import(ctx, []usecase.ImportRow{{Row: 2, Request: ayseReq()}, {Row: 3, Request: mobilyaReq()}})
	require.NoError(t, err)
	assert.Len(t, res.Created, 2)
	assert.Equal(t, 2, repo.creates)
}

func TestCustomerUseCase_ImportarSinLector(t *testing.T) {
	uc := usecase.NewCustomerUseCase(memory.NewCustomerRepository(), entity.PolicyTyped)
	_, err := uc.ImportSheet(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, usecase.ErrImportUnavailable)
}
