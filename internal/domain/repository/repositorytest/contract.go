// Package repositorytest contiene la batería de pruebas que toda implementación de
// repository.CustomerRepository debe superar.
package repositorytest

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clientes-admin/internal/domain"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/domain/repository"
)

// Factory crea un repositorio vacío y aislado para cada subtest.
type Factory func(t *testing.T) repository.CustomerRepository

// Ayse cliente individual de ejemplo.
func Ayse() entity.CustomerInput {
	return entity.CustomerInput{Name: "Ayşe", Surname: "Yılmaz", Category: entity.Individual{}}
}

// Mobilya cliente corporativo de ejemplo.
func Mobilya() entity.CustomerInput {
	return entity.CustomerInput{
		Name:     "Mobilya",
		Surname:  "A.Ş.",
		Category: entity.Corporate{CompanyName: "Mobilya A.Ş."},
	}
}

// RunCustomerRepository ejecuta el contrato completo.
func RunCustomerRepository(t *testing.T, newRepo Factory) {
	t.Run("Create_AsignaIDsConsecutivos", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		first, err := repo.Create(ctx, Ayse())
		require.NoError(t, err)
		assert.Equal(t, int64(1), first.ID)
		assert.False(t, first.CreatedAt.IsZero())

		second, err := repo.Create(ctx, Mobilya())
		require.NoError(t, err)
		assert.Equal(t, int64(2), second.ID)
		assert.False(t, second.CreatedAt.Before(first.CreatedAt), "createdAt no debe decrecer")
		assert.Equal(t, entity.CustomerTypeCorporate, second.Type())
		assert.Equal(t, "Mobilya A.Ş.", second.CompanyName())
	})

	t.Run("Create_TrasBorrarUsaMaximoMasUno", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		for i := 0; i < 3; i++ {
			_, err := repo.Create(ctx, Ayse())
			require.NoError(t, err)
		}
		require.NoError(t, repo.Delete(ctx, 2))
		c, err := repo.Create(ctx, Ayse())
		require.NoError(t, err)
		assert.Equal(t, int64(4), c.ID)

		require.NoError(t, repo.Delete(ctx, 4))
		require.NoError(t, repo.Delete(ctx, 3))
		c, err = repo.Create(ctx, Ayse())
		require.NoError(t, err)
		assert.Equal(t, int64(2), c.ID, "max(1)+1")
	})

	t.Run("List_OrdenDescendentePorID", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		empty, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, empty)

		for i := 0; i < 3; i++ {
			_, err := repo.Create(ctx, Ayse())
			require.NoError(t, err)
		}
		list, err := repo.List(ctx)
		require.NoError(t, err)
		ids := make([]int64, 0, len(list))
		for _, c := range list {
			ids = append(ids, c.ID)
		}
		if diff := cmp.Diff([]int64{3, 2, 1}, ids); diff != "" {
			t.Errorf("orden inesperado (-want +got):\n%s", diff)
		}
	})

	t.Run("Update_ConservaIDyCreatedAtYNoTocaOtros", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		a, err := repo.Create(ctx, Ayse())
		require.NoError(t, err)
		m, err := repo.Create(ctx, Mobilya())
		require.NoError(t, err)

		in := Ayse()
		in.Email = "ayse@example.com"
		in.Phone = "05550000000"
		updated, err := repo.Update(ctx, a.ID, in)
		require.NoError(t, err)
		assert.Equal(t, a.ID, updated.ID)
		assert.True(t, a.CreatedAt.Equal(updated.CreatedAt))
		assert.Equal(t, "ayse@example.com", updated.Email)

		other, err := repo.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, m.CustomerInput, other.CustomerInput)
		assert.True(t, m.CreatedAt.Equal(other.CreatedAt))
	})

	t.Run("Update_CorporativoAIndividualDescartaRazonSocial", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		m, err := repo.Create(ctx, Mobilya())
		require.NoError(t, err)

		in := m.CustomerInput
		in.Category = entity.Individual{}
		updated, err := repo.Update(ctx, m.ID, in)
		require.NoError(t, err)
		assert.Equal(t, entity.CustomerTypeIndividual, updated.Type())
		assert.Empty(t, updated.CompanyName())

		got, err := repo.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Empty(t, got.CompanyName())
	})

	t.Run("Update_InexistenteDevuelveNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Update(context.Background(), 99, Ayse())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("GetByID_InexistenteDevuelveNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByID(context.Background(), 7)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete_DosVeces", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		a, err := repo.Create(ctx, Ayse())
		require.NoError(t, err)
		_, err = repo.Create(ctx, Mobilya())
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, a.ID))
		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		assert.ErrorIs(t, repo.Delete(ctx, a.ID), domain.ErrNotFound)
		list, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1, "el segundo delete no cambia el total")
	})

	t.Run("Escenario_AyseMobilya", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		a, err := repo.Create(ctx, Ayse())
		require.NoError(t, err)
		require.Equal(t, int64(1), a.ID)
		m, err := repo.Create(ctx, Mobilya())
		require.NoError(t, err)
		require.Equal(t, int64(2), m.ID)

		require.NoError(t, repo.Delete(ctx, 1))
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(2), list[0].ID)
	})
}
