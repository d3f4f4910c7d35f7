// Package admin implementa el flujo de administración de clientes independiente de la
// interfaz: listado con búsqueda y paginación, formulario de alta/edición, notificaciones y
// la sesión que los coordina sobre un repository.CustomerRepository.
package admin

import (
	"errors"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/clientes-admin/internal/domain/entity"
)

// PageSizes tamaños de página admitidos.
var PageSizes = []int{5, 10, 20, 50}

// DefaultPageSize tamaño inicial de página.
const DefaultPageSize = 5

// ErrInvalidPageSize tamaño de página fuera de PageSizes.
var ErrInvalidPageSize = errors.New("tamaño de página no admitido")

// ValidPageSize indica si n está en PageSizes.
func ValidPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

// Matches indica si el término aparece (sin distinguir mayúsculas, con plegado Unicode) en
// name, surname, email, phone o companyName. Un término vacío coincide siempre.
func Matches(c *entity.Customer, term string) bool {
	return matches(cases.Fold(), c, foldTerm(term))
}

func foldTerm(term string) string {
	return cases.Fold().String(term)
}

func matches(folder cases.Caser, c *entity.Customer, folded string) bool {
	if folded == "" {
		return true
	}
	for _, field := range []string{c.Name, c.Surname, c.Email, c.Phone, c.CompanyName()} {
		if field != "" && strings.Contains(folder.String(field), folded) {
			return true
		}
	}
	return false
}

// Filter devuelve, en el mismo orden, los clientes que coinciden con el término.
func Filter(list []*entity.Customer, term string) []*entity.Customer {
	folded := foldTerm(term)
	if folded == "" {
		return slices.Clone(list)
	}
	folder := cases.Fold()
	out := make([]*entity.Customer, 0, len(list))
	for _, c := range list {
		if matches(folder, c, folded) {
			out = append(out, c)
		}
	}
	return out
}

// Page porción visible de un listado filtrado.
type Page struct {
	Items []*entity.Customer
	Index int // base 0
	Size  int
	Total int // total filtrado
	Count int // cantidad de páginas; 0 si no hay resultados
	Empty bool
}

// Paginate corta la lista en la página index (acotada al rango válido).
func Paginate(list []*entity.Customer, index, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(list)
	count := (total + size - 1) / size
	if index >= count {
		index = count - 1
	}
	if index < 0 {
		index = 0
	}
	p := Page{Index: index, Size: size, Total: total, Count: count, Empty: total == 0}
	if total == 0 {
		p.Items = []*entity.Customer{}
		return p
	}
	start := index * size
	end := min(start+size, total)
	p.Items = list[start:end]
	return p
}

// ListView estado del listado: registros, término de búsqueda, página y tamaño de página.
// No modifica los registros.
type ListView struct {
	records  []*entity.Customer
	filtered []*entity.Customer
	search   string
	page     int
	size     int
}

// NewListView construye la vista; un tamaño no admitido usa DefaultPageSize.
func NewListView(pageSize int) *ListView {
	if !ValidPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	return &ListView{size: pageSize, filtered: []*entity.Customer{}}
}

// SetRecords reemplaza los registros conservando búsqueda y página (acotada).
func (v *ListView) SetRecords(list []*entity.Customer) {
	v.records = slices.Clone(list)
	v.refilter()
}

// Records registros actuales sin filtrar.
func (v *ListView) Records() []*entity.Customer {
	return slices.Clone(v.records)
}

// SetSearch cambia el término y vuelve a la primera página.
func (v *ListView) SetSearch(term string) {
	v.search = term
	v.page = 0
	v.refilter()
}

// Search término actual.
func (v *ListView) Search() string { return v.search }

// SetPageSize cambia el tamaño de página y vuelve a la primera página.
func (v *ListView) SetPageSize(n int) error {
	if !ValidPageSize(n) {
		return ErrInvalidPageSize
	}
	v.size = n
	v.page = 0
	return nil
}

// PageSize tamaño actual.
func (v *ListView) PageSize() int { return v.size }

// CyclePageSize avanza (delta>0) o retrocede por PageSizes.
func (v *ListView) CyclePageSize(delta int) {
	i := slices.Index(PageSizes, v.size)
	i = (i + delta + len(PageSizes)) % len(PageSizes)
	_ = v.SetPageSize(PageSizes[i])
}

// SetPage va a la página index (acotada).
func (v *ListView) SetPage(index int) {
	v.page = index
	v.page = v.Current().Index
}

// NextPage y PrevPage navegan sin salirse del rango.
func (v *ListView) NextPage() { v.SetPage(v.page + 1) }
func (v *ListView) PrevPage() { v.SetPage(v.page - 1) }

// Filtered lista completa filtrada.
func (v *ListView) Filtered() []*entity.Customer {
	return slices.Clone(v.filtered)
}

// Current página visible.
func (v *ListView) Current() Page {
	return Paginate(v.filtered, v.page, v.size)
}

func (v *ListView) refilter() {
	v.filtered = Filter(v.records, v.search)
	v.page = Paginate(v.filtered, v.page, v.size).Index
}
