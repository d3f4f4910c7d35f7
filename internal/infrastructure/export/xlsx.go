package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/clientes-admin/internal/application/dto"
	"github.com/jhoicas/clientes-admin/internal/application/usecase"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
)

const (
	sheetName  = "Clientes"
	timeLayout = time.RFC3339
)

// ErrMissingColumns la planilla no tiene las columnas mínimas (name, surname).
var ErrMissingColumns = errors.New("la planilla debe tener columnas name y surname")

// columns encabezados en el orden de exportación.
var columns = []string{"id", "name", "surname", "email", "phone", "type", "companyName", "createdAt"}

// headerAliases encabezados alternativos aceptados al importar (en minúsculas).
var headerAliases = map[string]string{
	"id":           "id",
	"name":         "name",
	"nombre":       "name",
	"surname":      "surname",
	"apellido":     "surname",
	"email":        "email",
	"correo":       "email",
	"phone":        "phone",
	"telefono":     "phone",
	"teléfono":     "phone",
	"type":         "type",
	"tipo":         "type",
	"companyname":  "companyName",
	"company":      "companyName",
	"empresa":      "companyName",
	"razon social": "companyName",
	"razón social": "companyName",
	"createdat":    "createdAt",
}

var (
	_ usecase.CustomerEncoder     = XLSXEncoder{}
	_ usecase.CustomerSheetReader = XLSXReader{}
)

// XLSXEncoder planilla con una fila por cliente.
type XLSXEncoder struct{}

func (XLSXEncoder) Format() string { return "xlsx" }
func (XLSXEncoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (XLSXEncoder) Extension() string { return "xlsx" }

func (XLSXEncoder) Encode(w io.Writer, list []*entity.Customer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	header := make([]any, 0, len(columns))
	for _, c := range columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#00467F"}},
	})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", style); err != nil {
		return err
	}

	for i, c := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			c.ID,
			c.Name,
			c.Surname,
			c.Email,
			c.Phone,
			string(c.Type()),
			c.CompanyName(),
			c.CreatedAt.UTC().Format(timeLayout),
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetName, "B", lastCol, 22); err != nil {
		return err
	}
	return f.Write(w)
}

// XLSXReader lee la primera hoja: la fila 1 es el encabezado y las siguientes los clientes.
// Las columnas id y createdAt se ignoran; las filas vacías se omiten.
type XLSXReader struct{}

func (XLSXReader) ReadCustomers(r io.Reader) ([]usecase.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir planilla: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("la planilla no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []usecase.ImportRow{}, nil
	}

	index := headerIndex(rows[0])
	if _, ok := index["name"]; !ok {
		return nil, ErrMissingColumns
	}
	if _, ok := index["surname"]; !ok {
		return nil, ErrMissingColumns
	}

	out := make([]usecase.ImportRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		get := func(key string) string {
			pos, ok := index[key]
			if !ok || pos >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[pos])
		}
		out = append(out, usecase.ImportRow{
			Row: i + 2,
			Request: dto.CustomerRequest{
				Name:        get("name"),
				Surname:     get("surname"),
				Email:       get("email"),
				Phone:       get("phone"),
				Type:        get("type"),
				CompanyName: get("companyName"),
			},
		})
	}
	return out, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return index
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
