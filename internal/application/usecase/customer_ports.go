package usecase

import (
	"io"

	"github.com/jhoicas/clientes-admin/internal/application/dto"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
)

// CustomerEncoder codifica el listado de clientes en un formato de archivo
// (implementado en infrastructure/export).
type CustomerEncoder interface {
	Format() string
	ContentType() string
	Extension() string
	Encode(w io.Writer, list []*entity.Customer) error
}

// ImportRow fila leída de una planilla de importación (Row es el número de fila, base 1).
type ImportRow struct {
	Row     int
	Request dto.CustomerRequest
}

// CustomerSheetReader lee filas de clientes de una planilla.
type CustomerSheetReader interface {
	ReadCustomers(r io.Reader) ([]ImportRow, error)
}
