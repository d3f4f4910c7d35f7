// Package remote implementa repository.CustomerRepository contra la API REST de clientes.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/clientes-admin/internal/application/dto"
	"github.com/jhoicas/clientes-admin/internal/domain"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// maxBody límite de lectura de respuestas.
const maxBody = 8 << 20

// CustomerRepo cliente HTTP de /api/customers.
type CustomerRepo struct {
	baseURL    string
	httpClient *http.Client
}

// NewCustomerRepository construye el cliente. timeout 0 = 10 s.
func NewCustomerRepository(baseURL string, timeout time.Duration) *CustomerRepo {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CustomerRepo{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/customers",
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient reemplaza el cliente HTTP (tests).
func (r *CustomerRepo) WithHTTPClient(c *http.Client) *CustomerRepo {
	r.httpClient = c
	return r
}

func (r *CustomerRepo) List(ctx context.Context) ([]*entity.Customer, error) {
	var out []dto.CustomerResponse
	if err := r.do(ctx, http.MethodGet, "", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	list := make([]*entity.Customer, 0, len(out))
	for _, c := range out {
		list = append(list, c.ToEntity())
	}
	entity.SortByIDDesc(list)
	return list, nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	var out dto.CustomerResponse
	if err := r.do(ctx, http.MethodGet, idPath(id), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.ToEntity(), nil
}

func (r *CustomerRepo) Create(ctx context.Context, in entity.CustomerInput) (*entity.Customer, error) {
	var out dto.CustomerResponse
	if err := r.do(ctx, http.MethodPost, "", dto.NewCustomerRequest(in), http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return out.ToEntity(), nil
}

func (r *CustomerRepo) Update(ctx context.Context, id int64, in entity.CustomerInput) (*entity.Customer, error) {
	body := dto.NewCustomerRequest(in)
	body.ID = &id
	var out dto.CustomerResponse
	if err := r.do(ctx, http.MethodPut, idPath(id), body, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.ToEntity(), nil
}

func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	return r.do(ctx, http.MethodDelete, idPath(id), nil, http.StatusNoContent, nil)
}

func idPath(id int64) string {
	return "/" + strconv.FormatInt(id, 10)
}

// do envía la petición y decodifica la respuesta en out si el estado es want.
// 404 se traduce a domain.ErrNotFound, 400 de validación a domain.ErrInvalidInput
// y cualquier otro fallo a domain.ErrTransport.
func (r *CustomerRepo) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: crear request: %w", domain.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: timeout o cancelación: %w", domain.ErrTransport, ctx.Err())
		}
		return fmt.Errorf("%w: %s %s: %w", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%w: leer respuesta: %w", domain.ErrTransport, err)
	}

	if resp.StatusCode != want {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: deserializar respuesta: %w", domain.ErrTransport, err)
	}
	return nil
}

func statusError(status int, raw []byte) error {
	var er dto.ErrorResponse
	_ = json.Unmarshal(raw, &er)
	switch {
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusBadRequest && er.Code == "ID_MISMATCH":
		return fmt.Errorf("%w: %s", domain.ErrIDMismatch, er.Message)
	case status == http.StatusBadRequest && len(er.Fields) > 0:
		return entity.FieldErrors(er.Fields)
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, er.Message)
	}
	msg := er.Message
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	return fmt.Errorf("%w: HTTP %d: %s", domain.ErrTransport, status, msg)
}
