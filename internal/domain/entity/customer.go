package entity

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// CustomerInput campos mutables de un cliente (sin ID ni CreatedAt).
type CustomerInput struct {
	Name     string
	Surname  string
	Email    string
	Phone    string
	Category Category
}

// Type devuelve el tipo de la categoría (individual si no hay categoría).
func (in CustomerInput) Type() CustomerType {
	if in.Category == nil {
		return CustomerTypeIndividual
	}
	return in.Category.Type()
}

// CompanyName devuelve la razón social; vacío salvo para Corporate.
func (in CustomerInput) CompanyName() string {
	if c, ok := in.Category.(Corporate); ok {
		return c.CompanyName
	}
	return ""
}

// Normalized recorta espacios y garantiza una categoría no nula.
func (in CustomerInput) Normalized() CustomerInput {
	out := CustomerInput{
		Name:    strings.TrimSpace(in.Name),
		Surname: strings.TrimSpace(in.Surname),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
	}
	out.Category = NewCategory(in.Type(), strings.TrimSpace(in.CompanyName()))
	return out
}

// Customer representa un cliente del CRM.
type Customer struct {
	ID        int64
	CreatedAt time.Time
	CustomerInput
}

// Clone devuelve una copia independiente (la categoría es un valor, no comparte memoria).
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Apply reemplaza los campos mutables conservando ID y CreatedAt.
func (c *Customer) Apply(in CustomerInput) {
	c.CustomerInput = in.Normalized()
}

// NextCustomerID devuelve max(id)+1, o 1 si la lista está vacía.
func NextCustomerID(list []*Customer) int64 {
	var maxID int64
	for _, c := range list {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	return maxID + 1
}

// NextCreatedAt devuelve now, salvo que sea anterior al último CreatedAt (reloj hacia atrás).
func NextCreatedAt(list []*Customer, now time.Time) time.Time {
	for _, c := range list {
		if c.CreatedAt.After(now) {
			now = c.CreatedAt
		}
	}
	return now
}

// SortByIDDesc ordena en sitio del más reciente (ID mayor) al más antiguo.
func SortByIDDesc(list []*Customer) {
	slices.SortFunc(list, func(a, b *Customer) int { return cmp.Compare(b.ID, a.ID) })
}
