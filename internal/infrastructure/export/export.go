// Package export codifica el listado de clientes en JSON, YAML y XLSX y lee planillas XLSX
// para importaciones. El PDF vive en infrastructure/pdf.
package export

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/clientes-admin/internal/application/dto"
	"github.com/jhoicas/clientes-admin/internal/application/usecase"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
)

var (
	_ usecase.CustomerEncoder = JSONEncoder{}
	_ usecase.CustomerEncoder = YAMLEncoder{}
)

// Encoders codificadores de este paquete (json, yaml, xlsx).
func Encoders() []usecase.CustomerEncoder {
	return []usecase.CustomerEncoder{JSONEncoder{}, YAMLEncoder{}, XLSXEncoder{}}
}

// JSONEncoder lista con el mismo formato que GET /api/customers.
type JSONEncoder struct{}

func (JSONEncoder) Format() string      { return "json" }
func (JSONEncoder) ContentType() string { return "application/json" }
func (JSONEncoder) Extension() string   { return "json" }

func (JSONEncoder) Encode(w io.Writer, list []*entity.Customer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.ToCustomerResponses(list))
}

// yamlCustomer cliente en YAML (mismas claves que la API).
type yamlCustomer struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Surname     string `yaml:"surname"`
	Email       string `yaml:"email,omitempty"`
	Phone       string `yaml:"phone,omitempty"`
	Type        string `yaml:"type"`
	CompanyName string `yaml:"companyName,omitempty"`
	CreatedAt   string `yaml:"createdAt"`
}

// YAMLEncoder lista como documento YAML con la clave customers.
type YAMLEncoder struct{}

func (YAMLEncoder) Format() string      { return "yaml" }
func (YAMLEncoder) ContentType() string { return "application/yaml" }
func (YAMLEncoder) Extension() string   { return "yaml" }

func (YAMLEncoder) Encode(w io.Writer, list []*entity.Customer) error {
	doc := struct {
		Customers []yamlCustomer `yaml:"customers"`
	}{Customers: make([]yamlCustomer, 0, len(list))}
	for _, c := range list {
		doc.Customers = append(doc.Customers, yamlCustomer{
			ID:          c.ID,
			Name:        c.Name,
			Surname:     c.Surname,
			Email:       c.Email,
			Phone:       c.Phone,
			Type:        string(c.Type()),
			CompanyName: c.CompanyName(),
			CreatedAt:   c.CreatedAt.UTC().Format(timeLayout),
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
