package entity

import "strings"

// CustomerType tipo de cliente tal como viaja en la API ("individual" | "corporate").
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "individual"
	CustomerTypeCorporate  CustomerType = "corporate"
)

// ParseCustomerType normaliza el tipo recibido. Acepta los alias heredados del frontend
// ("bireysel", "kurumsal"); vacío equivale a individual.
func ParseCustomerType(s string) (CustomerType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "individual", "bireysel":
		return CustomerTypeIndividual, true
	case "corporate", "kurumsal":
		return CustomerTypeCorporate, true
	default:
		return "", false
	}
}

// Category es la variante etiquetada del cliente: Individual o Corporate{CompanyName}.
// La razón social sólo existe dentro de Corporate.
type Category interface {
	Type() CustomerType
	isCategory()
}

// Individual cliente persona natural.
type Individual struct{}

// Corporate cliente empresa, con su razón social.
type Corporate struct {
	CompanyName string
}

func (Individual) Type() CustomerType { return CustomerTypeIndividual }
func (Corporate) Type() CustomerType  { return CustomerTypeCorporate }
func (Individual) isCategory()        {}
func (Corporate) isCategory()         {}

// NewCategory construye la variante a partir del par plano (type, companyName).
// Para individual la razón social se descarta.
func NewCategory(t CustomerType, companyName string) Category {
	if t == CustomerTypeCorporate {
		return Corporate{CompanyName: companyName}
	}
	return Individual{}
}
