package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jhoicas/clientes-admin/internal/application/admin"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
)

// MsgNoResults listado vacío (sin clientes o sin coincidencias).
const MsgNoResults = "Sin resultados."

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00467F")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(14)

	severityStyles = map[admin.Severity]lipgloss.Style{
		admin.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32")),
		admin.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#C62828")).Bold(true),
		admin.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF6C00")),
		admin.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#1565C0")),
	}
	severityIcons = map[admin.Severity]string{
		admin.SeveritySuccess: "✓",
		admin.SeverityError:   "✗",
		admin.SeverityWarning: "!",
		admin.SeverityInfo:    "i",
	}
)

// renderPage tabla de la página actual más el pie de paginación.
func renderPage(p admin.Page, search string) string {
	if p.Empty {
		if search != "" {
			return MsgNoResults + mutedStyle.Render(fmt.Sprintf(" (búsqueda: %q)", search))
		}
		return MsgNoResults
	}
	rows := make([][]string, 0, len(p.Items))
	for _, c := range p.Items {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Surname,
			c.Email,
			c.Phone,
			typeLabel(c.Type()),
			c.CompanyName(),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("ID", "Nombre", "Apellido", "Email", "Teléfono", "Tipo", "Razón social").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	footer := fmt.Sprintf("Página %d/%d · %d clientes · %d por página", p.Index+1, p.Count, p.Total, p.Size)
	return t.Render() + "\n" + mutedStyle.Render(footer)
}

// renderCustomer ficha de un cliente.
func renderCustomer(c *entity.Customer) string {
	var sb strings.Builder
	line := func(label, value string) {
		if value == "" {
			value = mutedStyle.Render("—")
		}
		sb.WriteString(labelStyle.Render(label) + value + "\n")
	}
	line("ID", strconv.FormatInt(c.ID, 10))
	line("Nombre", c.Name)
	line("Apellido", c.Surname)
	line("Email", c.Email)
	line("Teléfono", c.Phone)
	line("Tipo", typeLabel(c.Type()))
	if c.Type() == entity.CustomerTypeCorporate {
		line("Razón social", c.CompanyName())
	}
	line("Alta", c.CreatedAt.Local().Format("02/01/2006 15:04"))
	return strings.TrimRight(sb.String(), "\n")
}

// renderFieldErrors un renglón por campo inválido, en orden de formulario.
func renderFieldErrors(errs entity.FieldErrors) string {
	var sb strings.Builder
	for _, f := range []string{
		admin.FieldName, admin.FieldSurname, admin.FieldEmail,
		admin.FieldPhone, admin.FieldType, admin.FieldCompanyName,
	} {
		if msg, ok := errs[f]; ok {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", f, msg))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderNotification(n admin.Notification) string {
	style, ok := severityStyles[n.Severity]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Render(severityIcons[n.Severity] + " " + n.Message)
}

func typeLabel(t entity.CustomerType) string {
	if t == entity.CustomerTypeCorporate {
		return "Corporativo"
	}
	return "Individual"
}
