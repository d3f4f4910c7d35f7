// Package pdf genera el listado de clientes en PDF (A4 horizontal) con Maroto v2.
//
// Layout:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  TÍTULO: Listado de clientes        │  Generado: fecha / total   │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Cliente | Email | Teléfono | Tipo / Razón social | Alta │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  PIE: cantidad de clientes                                       │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/clientes-admin/internal/application/usecase"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.CustomerEncoder = (*MarotoCustomerPDF)(nil)

// MarotoCustomerPDF implementa usecase.CustomerEncoder usando Maroto v2.
type MarotoCustomerPDF struct {
	title string
	now   func() time.Time
}

// NewMarotoCustomerPDF construye el generador; title vacío usa "Listado de clientes".
func NewMarotoCustomerPDF(title string) *MarotoCustomerPDF {
	if title == "" {
		title = "Listado de clientes"
	}
	return &MarotoCustomerPDF{title: title, now: time.Now}
}

func (g *MarotoCustomerPDF) Format() string      { return "pdf" }
func (g *MarotoCustomerPDF) ContentType() string { return "application/pdf" }
func (g *MarotoCustomerPDF) Extension() string   { return "pdf" }

// Encode genera el documento y lo escribe en w.
func (g *MarotoCustomerPDF) Encode(w io.Writer, list []*entity.Customer) error {
	data, err := g.Generate(list)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoCustomerPDF) Generate(list []*entity.Customer) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, g.now(), len(list)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(list)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(len(list)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha de generación + total (der).
func headerRow(title string, now time.Time, total int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(strconv.Itoa(total)+" clientes", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Center),
		h("Cliente", 3, align.Left),
		h("Email", 3, align.Left),
		h("Teléfono", 2, align.Left),
		h("Tipo / Razón social", 2, align.Left),
		h("Alta", 1, align.Center),
	)
}

// tableDetailRows: una fila por cliente, con fondo alterno.
func tableDetailRows(list []*entity.Customer) []core.Row {
	result := make([]core.Row, 0, len(list))
	for i, c := range list {
		r := row.New(7).Add(
			col.New(1).Add(text.New(
				strconv.FormatInt(c.ID, 10),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				strings.TrimSpace(c.Name+" "+c.Surname),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				nonEmpty(c.Email, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(c.Phone, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				categoryLabel(c),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				c.CreatedAt.Format("02/01/06"),
				props.Text{Size: 7, Align: align.Center, Top: 1, Color: colorGray},
			)),
		)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	return result
}

// footerRow: leyenda con el total.
func footerRow(total int) core.Row {
	msg := "Sin clientes registrados."
	if total > 0 {
		msg = fmt.Sprintf("Total: %d clientes, ordenados del más reciente al más antiguo.", total)
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 7, Color: colorGray, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func categoryLabel(c *entity.Customer) string {
	if corp, ok := c.Category.(entity.Corporate); ok {
		return "Corporativo: " + nonEmpty(corp.CompanyName, "—")
	}
	return "Individual"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
