package dto

import (
	"fmt"
	"time"

	"github.com/jhoicas/clientes-admin/internal/domain"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
)

// CustomerRequest body para POST /api/customers y PUT /api/customers/:id.
// ID sólo se usa en PUT y debe coincidir con el de la ruta.
type CustomerRequest struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Type        string `json:"type,omitempty"` // individual | corporate (acepta bireysel | kurumsal)
	CompanyName string `json:"companyName,omitempty"`
}

// ToInput convierte el body a la entrada de dominio; un tipo desconocido es ErrInvalidInput.
func (r CustomerRequest) ToInput() (entity.CustomerInput, error) {
	t, ok := entity.ParseCustomerType(r.Type)
	if !ok {
		return entity.CustomerInput{}, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, r.Type)
	}
	return entity.CustomerInput{
		Name:     r.Name,
		Surname:  r.Surname,
		Email:    r.Email,
		Phone:    r.Phone,
		Category: entity.NewCategory(t, r.CompanyName),
	}.Normalized(), nil
}

// NewCustomerRequest arma el body a partir de la entrada de dominio.
func NewCustomerRequest(in entity.CustomerInput) CustomerRequest {
	return CustomerRequest{
		Name:        in.Name,
		Surname:     in.Surname,
		Email:       in.Email,
		Phone:       in.Phone,
		Type:        string(in.Type()),
		CompanyName: in.CompanyName(),
	}
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Type        string    `json:"type"`
	CompanyName string    `json:"companyName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToCustomerResponse mapea la entidad a la respuesta.
func ToCustomerResponse(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Surname:     c.Surname,
		Email:       c.Email,
		Phone:       c.Phone,
		Type:        string(c.Type()),
		CompanyName: c.CompanyName(),
		CreatedAt:   c.CreatedAt,
	}
}

// ToCustomerResponses mapea una lista.
func ToCustomerResponses(list []*entity.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToCustomerResponse(c))
	}
	return out
}

// ToEntity reconstruye la entidad (cliente remoto).
func (r CustomerResponse) ToEntity() *entity.Customer {
	t, ok := entity.ParseCustomerType(r.Type)
	if !ok {
		t = entity.CustomerTypeIndividual
	}
	return &entity.Customer{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		CustomerInput: entity.CustomerInput{
			Name:     r.Name,
			Surname:  r.Surname,
			Email:    r.Email,
			Phone:    r.Phone,
			Category: entity.NewCategory(t, r.CompanyName),
		},
	}
}

// CustomerPageResponse listado filtrado y paginado (GET /api/customers?search=&page=&pageSize=).
type CustomerPageResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
	Empty bool               `json:"empty"`
}

// ImportSkip fila omitida en una importación.
type ImportSkip struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResponse resultado de POST /api/customers/import.
type ImportResponse struct {
	Created []CustomerResponse `json:"created"`
	Skipped []ImportSkip       `json:"skipped"`
}
