package tui_test

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/clientes-admin/internal/application/admin"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/domain/repository/repositorytest"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/memory"
	"github.com/jhoicas/clientes-admin/internal/interfaces/tui"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newModel(t *testing.T, seed ...entity.CustomerInput) (tui.Model, *admin.Session, *memory.CustomerRepo) {
	t.Helper()
	repo := memory.NewCustomerRepository()
	for _, in := range seed {
		_, err := repo.Create(context.Background(), in)
		require.NoError(t, err)
	}
	s := admin.NewSession(repo, admin.Options{
		Policy:        entity.PolicyTyped,
		ToastDuration: time.Minute,
		ConfirmDelete: true,
	})
	t.Cleanup(s.Close)
	return tui.New(context.Background(), s), s, repo
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "ctrl+t":
			msg = tea.KeyMsg{Type: tea.KeyCtrlT}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestModel_ListaVacia(t *testing.T) {
	m, _, _ := newModel(t)
	assert.Contains(t, m.View(), "Sin resultados.")
}

func TestModel_AltaDesdeFormulario(t *testing.T) {
	m, s, repo := newModel(t)

	var model tea.Model = m
	model = press(model, "n", "Ayşe", "tab", "Yılmaz", "enter")

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ayşe", list[0].Name)
	assert.Equal(t, "Yılmaz", list[0].Surname)

	n, ok := s.Notifier().Current()
	require.True(t, ok)
	assert.Equal(t, admin.MsgCreated, n.Message)
	view := model.View()
	assert.Contains(t, view, admin.MsgCreated)
	assert.Contains(t, view, "Yılmaz")
}

func TestModel_FormularioInvalidoQuedaAbierto(t *testing.T) {
	m, s, repo := newModel(t)
	var model tea.Model = m
	model = press(model, "n", "Solo", "enter")

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.True(t, s.Form().IsOpen())
	assert.Contains(t, model.View(), "requerido")
}

func TestModel_CorporativoExigeRazonSocial(t *testing.T) {
	m, _, repo := newModel(t)
	var model tea.Model = m
	model = press(model, "n", "ctrl+t", "Mobilya", "tab", "A.Ş.", "tab", "tab", "tab", "Mobilya A.Ş.", "enter")

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.CustomerTypeCorporate, list[0].Type())
	assert.Equal(t, "Mobilya A.Ş.", list[0].CompanyName())
	_ = model
}

func TestModel_Busqueda(t *testing.T) {
	m, s, _ := newModel(t, repositorytest.Ayse(), repositorytest.Mobilya())
	var model tea.Model = m
	model = press(model, "/", "mob")
	assert.Equal(t, "mob", s.List().Search())
	require.Len(t, s.List().Current().Items, 1)

	model = press(model, "esc")
	assert.Empty(t, s.List().Search())
	assert.Len(t, s.List().Current().Items, 2)
	_ = model
}

func TestModel_EliminarConConfirmacion(t *testing.T) {
	m, s, repo := newModel(t, repositorytest.Ayse(), repositorytest.Mobilya())
	var model tea.Model = m

	// cursor en la primera fila: Mobilya (ID 2)
	model = press(model, "d")
	n, ok := s.Notifier().Current()
	require.True(t, ok)
	assert.Equal(t, admin.ModeConfirm, n.Mode)
	assert.Contains(t, model.View(), admin.DefaultConfirmText)

	model = press(model, "n")
	list, _ := repo.List(context.Background())
	assert.Len(t, list, 2, "cancelar no elimina")

	model = press(model, "d", "s")
	list, _ = repo.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	n, ok = s.Notifier().Current()
	require.True(t, ok)
	assert.Equal(t, admin.MsgDeleted, n.Message)
	_ = model
}

func TestModel_TamanoDePagina(t *testing.T) {
	m, s, _ := newModel(t)
	var model tea.Model = m
	model = press(model, "+")
	assert.Equal(t, 10, s.List().PageSize())
	model = press(model, "-", "-")
	assert.Equal(t, 50, s.List().PageSize())
	_ = model
}
