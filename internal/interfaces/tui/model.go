// Package tui pantalla interactiva de administración de clientes (bubbletea).
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jhoicas/clientes-admin/internal/application/admin"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
)

// toastTickMsg vence la notificación informativa con ese ID.
type toastTickMsg struct{ id uint64 }

// formInputs orden de los campos de texto del formulario.
var formInputs = []string{
	admin.FieldName,
	admin.FieldSurname,
	admin.FieldEmail,
	admin.FieldPhone,
	admin.FieldCompanyName,
}

var fieldLabels = map[string]string{
	admin.FieldName:        "Nombre",
	admin.FieldSurname:     "Apellido",
	admin.FieldEmail:       "Email",
	admin.FieldPhone:       "Teléfono",
	admin.FieldCompanyName: "Razón social",
}

// Model estado de la pantalla.
type Model struct {
	ctx     context.Context
	session *admin.Session

	mode   mode
	table  table.Model
	search textinput.Model
	inputs map[string]*textinput.Model
	focus  int
	items  []*entity.Customer

	width  int
	height int
	styles styles
}

// New construye el modelo y carga los clientes.
func New(ctx context.Context, s *admin.Session) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Nombre", Width: 16},
			{Title: "Apellido", Width: 16},
			{Title: "Email", Width: 26},
			{Title: "Teléfono", Width: 14},
			{Title: "Tipo", Width: 12},
			{Title: "Razón social", Width: 22},
		}),
		table.WithFocused(true),
		table.WithHeight(admin.DefaultPageSize+1),
	)

	search := textinput.New()
	search.Placeholder = "Buscar por nombre, email, teléfono o razón social..."
	search.CharLimit = 80
	search.Width = 50

	inputs := make(map[string]*textinput.Model, len(formInputs))
	for _, f := range formInputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 120
		in.Width = 40
		inputs[f] = &in
	}

	m := Model{
		ctx:     ctx,
		session: s,
		table:   t,
		search:  search,
		inputs:  inputs,
		styles:  defaultStyles(),
	}
	_ = s.Reload(ctx)
	m.refreshRows()
	return m
}

// Run abre la pantalla hasta que el usuario sale.
func Run(ctx context.Context, s *admin.Session, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(ctx, s),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return m.toastCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width - 4)
		return m, nil

	case toastTickMsg:
		if n, ok := m.session.Notifier().Current(); ok && n.ID == msg.id && n.Mode == admin.ModeInfo {
			m.session.Notifier().Dismiss()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if n, ok := m.session.Notifier().Current(); ok && n.Mode == admin.ModeConfirm {
			return m.updateConfirm(msg)
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "s", "enter":
		_ = m.session.Notifier().Accept()
		m.mode = modeList
		m.refreshRows()
		return m, m.toastCmd()
	case "n", "esc":
		_ = m.session.Notifier().Cancel()
		m.session.Form().Close()
		return m, nil
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lv := m.session.List()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		m.search.Focus()
		return m, textinput.Blink
	case "+":
		lv.CyclePageSize(1)
		m.refreshRows()
		return m, nil
	case "-":
		lv.CyclePageSize(-1)
		m.refreshRows()
		return m, nil
	case "right", "l", "pgdown":
		lv.NextPage()
		m.refreshRows()
		return m, nil
	case "left", "h", "pgup":
		lv.PrevPage()
		m.refreshRows()
		return m, nil
	case "r":
		_ = m.session.Reload(m.ctx)
		m.refreshRows()
		return m, m.toastCmd()
	case "n":
		m.session.OpenCreate()
		return m.openForm()
	case "e", "enter":
		c := m.selected()
		if c == nil {
			return m, nil
		}
		if err := m.session.OpenEdit(m.ctx, c.ID); err != nil {
			_ = m.session.Reload(m.ctx)
			m.refreshRows()
			return m, m.toastCmd()
		}
		return m.openForm()
	case "d", "delete":
		c := m.selected()
		if c == nil {
			return m, nil
		}
		if err := m.session.OpenEdit(m.ctx, c.ID); err != nil {
			return m, m.toastCmd()
		}
		_ = m.session.RequestDelete(m.ctx)
		m.refreshRows()
		return m, m.toastCmd()
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.mode = modeList
		m.search.Blur()
		m.search.SetValue("")
		m.session.List().SetSearch("")
		m.refreshRows()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.session.List().SetSearch(m.search.Value())
	m.refreshRows()
	return m, cmd
}

func (m Model) openForm() (tea.Model, tea.Cmd) {
	form := m.session.Form()
	for _, f := range formInputs {
		m.inputs[f].SetValue(form.Get(f))
		m.inputs[f].Blur()
	}
	m.focus = 0
	m.mode = modeForm
	m.inputs[formInputs[0]].Focus()
	return m, textinput.Blink
}

// visibleInputs campos editables; la razón social sólo para corporate.
func (m Model) visibleInputs() []string {
	if m.session.Form().ShowsCompanyName() {
		return formInputs
	}
	return formInputs[:len(formInputs)-1]
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := m.session.Form()
	visible := m.visibleInputs()
	switch msg.String() {
	case "esc":
		form.Close()
		m.mode = modeList
		return m, nil
	case "ctrl+t":
		m.syncForm()
		form.ToggleType()
		m.inputs[admin.FieldCompanyName].SetValue(form.Get(admin.FieldCompanyName))
		if m.focus >= len(m.visibleInputs()) {
			m.setFocus(0)
		}
		return m, nil
	case "tab", "down":
		m.setFocus((m.focus + 1) % len(visible))
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + len(visible)) % len(visible))
		return m, nil
	case "enter":
		m.syncForm()
		if _, err := m.session.Save(m.ctx); err != nil {
			return m, m.toastCmd()
		}
		m.mode = modeList
		m.refreshRows()
		return m, m.toastCmd()
	}
	name := visible[m.focus]
	in, cmd := m.inputs[name].Update(msg)
	*m.inputs[name] = in
	return m, cmd
}

func (m *Model) setFocus(i int) {
	visible := m.visibleInputs()
	m.inputs[visible[m.focus%len(visible)]].Blur()
	m.focus = i
	m.inputs[visible[i]].Focus()
}

// syncForm copia los textos al formulario.
func (m Model) syncForm() {
	form := m.session.Form()
	for _, f := range formInputs {
		_ = form.Set(f, m.inputs[f].Value())
	}
}

func (m Model) selected() *entity.Customer {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.items) {
		return nil
	}
	return m.items[i]
}

func (m *Model) refreshRows() {
	page := m.session.List().Current()
	m.items = page.Items
	rows := make([]table.Row, 0, len(page.Items))
	for _, c := range page.Items {
		rows = append(rows, table.Row{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Surname,
			c.Email,
			c.Phone,
			typeLabel(c.Type()),
			c.CompanyName(),
		})
	}
	m.table.SetRows(rows)
	m.table.SetHeight(max(len(rows), 1) + 1)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// toastCmd programa el vencimiento de la notificación informativa visible.
func (m Model) toastCmd() tea.Cmd {
	n, ok := m.session.Notifier().Current()
	if !ok || n.Mode != admin.ModeInfo {
		return nil
	}
	wait := n.Duration - time.Since(n.ShownAt)
	if wait < 0 {
		wait = 0
	}
	id := n.ID
	return tea.Tick(wait, func(time.Time) tea.Msg { return toastTickMsg{id: id} })
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.title.Render(" Clientes ") + "\n\n")

	if m.mode == modeForm {
		sb.WriteString(m.formView())
	} else {
		sb.WriteString(m.listView())
	}

	if n, ok := m.session.Notifier().Current(); ok {
		sb.WriteString("\n\n" + m.toastView(n))
	}
	return sb.String()
}

func (m Model) listView() string {
	var sb strings.Builder
	searchStyle := m.styles.searchBox
	if m.mode == modeSearch {
		searchStyle = searchStyle.BorderForeground(m.styles.primary)
	}
	sb.WriteString(searchStyle.Render(m.search.View()) + "\n")

	page := m.session.List().Current()
	if page.Empty {
		sb.WriteString(m.styles.muted.Render("Sin resultados.") + "\n")
	} else {
		sb.WriteString(m.table.View() + "\n")
		sb.WriteString(m.styles.muted.Render(fmt.Sprintf("Página %d/%d · %d clientes · %d por página",
			page.Index+1, page.Count, page.Total, page.Size)) + "\n")
	}
	sb.WriteString(m.styles.muted.Render("[/] buscar  [←/→] página  [+/-] tamaño  [n] nuevo  [e] editar  [d] eliminar  [q] salir"))
	return sb.String()
}

func (m Model) formView() string {
	form := m.session.Form()
	errs := form.Errors()
	var sb strings.Builder
	sb.WriteString(m.styles.header.Render(form.Title()) + "\n\n")
	for i, f := range m.visibleInputs() {
		label := m.styles.label.Render(fieldLabels[f])
		if i == m.focus {
			label = m.styles.labelFocused.Render(fieldLabels[f])
		}
		sb.WriteString(label + m.inputs[f].View() + "\n")
		if msg, ok := errs[f]; ok {
			sb.WriteString(m.styles.label.Render("") + m.styles.fieldError.Render(msg) + "\n")
		}
	}
	sb.WriteString(m.styles.label.Render("Tipo") + typeLabel(form.Fields().Type) + m.styles.muted.Render("  [ctrl+t] cambiar") + "\n\n")
	sb.WriteString(m.styles.muted.Render("[tab] siguiente  [enter] guardar  [esc] cancelar"))
	return sb.String()
}

func (m Model) toastView(n admin.Notification) string {
	style, ok := m.styles.toasts[n.Severity]
	if !ok {
		style = m.styles.toasts[admin.SeverityInfo]
	}
	text := n.Message
	if n.Mode == admin.ModeConfirm {
		text += fmt.Sprintf("   [s] %s  [n] %s", n.ConfirmText, n.CancelText)
	}
	return style.Render(text)
}

func typeLabel(t entity.CustomerType) string {
	if t == entity.CustomerTypeCorporate {
		return "Corporativo"
	}
	return "Individual"
}

type styles struct {
	primary      lipgloss.Color
	title        lipgloss.Style
	header       lipgloss.Style
	muted        lipgloss.Style
	label        lipgloss.Style
	labelFocused lipgloss.Style
	fieldError   lipgloss.Style
	searchBox    lipgloss.Style
	toasts       map[admin.Severity]lipgloss.Style
}

func defaultStyles() styles {
	primary := lipgloss.Color("#00467F")
	toast := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	return styles{
		primary:      primary,
		title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(primary),
		header:       lipgloss.NewStyle().Bold(true).Foreground(primary),
		muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		label:        lipgloss.NewStyle().Width(14),
		labelFocused: lipgloss.NewStyle().Width(14).Bold(true).Foreground(primary),
		fieldError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#C62828")),
		searchBox:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("241")).Padding(0, 1),
		toasts: map[admin.Severity]lipgloss.Style{
			admin.SeveritySuccess: toast.BorderForeground(lipgloss.Color("#2E7D32")),
			admin.SeverityError:   toast.BorderForeground(lipgloss.Color("#C62828")),
			admin.SeverityWarning: toast.BorderForeground(lipgloss.Color("#EF6C00")),
			admin.SeverityInfo:    toast.BorderForeground(lipgloss.Color("#1565C0")),
		},
	}
}
