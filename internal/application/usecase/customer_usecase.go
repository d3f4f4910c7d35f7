package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/clientes-admin/internal/application/admin"
	"github.com/jhoicas/clientes-admin/internal/application/dto"
	"github.com/jhoicas/clientes-admin/internal/domain"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/domain/repository"
	"github.com/jhoicas/clientes-admin/pkg/logger"
)

var (
	// ErrUnsupportedFormat formato de exportación sin codificador registrado.
	ErrUnsupportedFormat = fmt.Errorf("%w: formato no soportado", domain.ErrInvalidInput)
	// ErrImportUnavailable importación sin lector de planillas configurado.
	ErrImportUnavailable = errors.New("importación no disponible")
)

// ExportFile archivo generado por Export.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// CustomerUseCase casos de uso del CRUD de clientes detrás de la API REST.
type CustomerUseCase struct {
	repo     repository.CustomerRepository
	policy   entity.ValidationPolicy
	batch    repository.CustomerBatchCreator
	encoders map[string]CustomerEncoder
	sheet    CustomerSheetReader
	log      *logger.Logger
	now      func() time.Time
}

// CustomerOption configura el caso de uso.
type CustomerOption func(*CustomerUseCase)

// WithBatchCreator usa una creación atómica por lotes para las importaciones.
func WithBatchCreator(b repository.CustomerBatchCreator) CustomerOption {
	return func(uc *CustomerUseCase) { uc.batch = b }
}

// WithEncoders registra los formatos de exportación.
func WithEncoders(encoders ...CustomerEncoder) CustomerOption {
	return func(uc *CustomerUseCase) {
		for _, e := range encoders {
			uc.encoders[strings.ToLower(e.Format())] = e
		}
	}
}

// WithSheetReader habilita la importación de planillas.
func WithSheetReader(r CustomerSheetReader) CustomerOption {
	return func(uc *CustomerUseCase) { uc.sheet = r }
}

// WithLogger asigna el logger.
func WithLogger(l *logger.Logger) CustomerOption {
	return func(uc *CustomerUseCase) { uc.log = l }
}

// NewCustomerUseCase construye el caso de uso. Si el repositorio también crea por lotes
// se usa para importar.
func NewCustomerUseCase(repo repository.CustomerRepository, policy entity.ValidationPolicy, opts ...CustomerOption) *CustomerUseCase {
	if policy == "" {
		policy = entity.DefaultValidationPolicy
	}
	uc := &CustomerUseCase{
		repo:     repo,
		policy:   policy,
		encoders: map[string]CustomerEncoder{},
		log:      logger.Nop(),
		now:      time.Now,
	}
	if b, ok := repo.(repository.CustomerBatchCreator); ok {
		uc.batch = b
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// Policy política de validación aplicada.
func (uc *CustomerUseCase) Policy() entity.ValidationPolicy { return uc.policy }

// Formats formatos de exportación registrados, ordenados.
func (uc *CustomerUseCase) Formats() []string {
	out := make([]string, 0, len(uc.encoders))
	for f := range uc.encoders {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// List lista todos los clientes (ID descendente).
func (uc *CustomerUseCase) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToCustomerResponses(list), nil
}

// Page filtra y pagina con la misma lógica del listado de administración.
// Un pageSize no admitido es ErrInvalidInput; la página se acota al rango válido.
func (uc *CustomerUseCase) Page(ctx context.Context, search string, page, pageSize int) (*dto.CustomerPageResponse, error) {
	if pageSize == 0 {
		pageSize = admin.DefaultPageSize
	}
	if !admin.ValidPageSize(pageSize) {
		return nil, fmt.Errorf("%w: pageSize debe ser uno de %v", domain.ErrInvalidInput, admin.PageSizes)
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	p := admin.Paginate(admin.Filter(list, search), page, pageSize)
	return &dto.CustomerPageResponse{
		Items: dto.ToCustomerResponses(p.Items),
		Page: dto.PageResponse{
			Page:      p.Index,
			PageSize:  p.Size,
			Total:     p.Total,
			PageCount: p.Count,
			Search:    search,
		},
		Empty: p.Empty,
	}, nil
}

// GetByID obtiene un cliente; domain.ErrNotFound si no existe.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id int64) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToCustomerResponse(c)
	return &out, nil
}

// Create valida y crea un cliente. Un id en el body se ignora.
func (uc *CustomerUseCase) Create(ctx context.Context, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	in, err := uc.validate(req)
	if err != nil {
		return nil, err
	}
	c, err := uc.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("customer_id", c.ID).Msg("cliente creado")
	out := dto.ToCustomerResponse(c)
	return &out, nil
}

// Update valida y actualiza. Si el body trae id debe coincidir con el de la ruta (ErrIDMismatch).
func (uc *CustomerUseCase) Update(ctx context.Context, id int64, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if req.ID != nil && *req.ID != id {
		return nil, domain.ErrIDMismatch
	}
	in, err := uc.validate(req)
	if err != nil {
		return nil, err
	}
	c, err := uc.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("customer_id", c.ID).Msg("cliente actualizado")
	out := dto.ToCustomerResponse(c)
	return &out, nil
}

// Delete elimina un cliente; domain.ErrNotFound si no existe.
func (uc *CustomerUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int64("customer_id", id).Msg("cliente eliminado")
	return nil
}

// Export codifica todos los clientes en el formato pedido.
func (uc *CustomerUseCase) Export(ctx context.Context, format string) (*ExportFile, error) {
	enc, ok := uc.encoders[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (disponibles: %s)", ErrUnsupportedFormat, format, strings.Join(uc.Formats(), ", "))
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, list); err != nil {
		return nil, fmt.Errorf("exportar %s: %w", enc.Format(), err)
	}
	return &ExportFile{
		Name:        fmt.Sprintf("clientes-%s.%s", uc.now().Format("20060102-150405"), enc.Extension()),
		ContentType: enc.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// ImportSheet lee una planilla e importa sus filas.
func (uc *CustomerUseCase) ImportSheet(ctx context.Context, r io.Reader) (*dto.ImportResponse, error) {
	if uc.sheet == nil {
		return nil, ErrImportUnavailable
	}
	rows, err := uc.sheet.ReadCustomers(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return uc.Import(ctx, rows)
}

// Import valida cada fila; las inválidas se omiten con su motivo y las válidas se crean
// (en un solo lote si el repositorio lo permite).
func (uc *CustomerUseCase) Import(ctx context.Context, rows []ImportRow) (*dto.ImportResponse, error) {
	res := &dto.ImportResponse{Created: []dto.CustomerResponse{}, Skipped: []dto.ImportSkip{}}
	valid := make([]entity.CustomerInput, 0, len(rows))
	for _, row := range rows {
		in, err := uc.validate(row.Request)
		if err != nil {
			res.Skipped = append(res.Skipped, dto.ImportSkip{Row: row.Row, Reason: err.Error()})
			continue
		}
		valid = append(valid, in)
	}
	if len(valid) == 0 {
		return res, nil
	}

	var created []*entity.Customer
	if uc.batch != nil {
		list, err := uc.batch.CreateBatch(ctx, valid)
		if err != nil {
			return nil, err
		}
		created = list
	} else {
		for _, in := range valid {
			c, err := uc.repo.Create(ctx, in)
			if err != nil {
				return nil, err
			}
			created = append(created, c)
		}
	}
	res.Created = dto.ToCustomerResponses(created)
	uc.log.Info().Int("created", len(created)).Int("skipped", len(res.Skipped)).Msg("importación de clientes")
	return res, nil
}

func (uc *CustomerUseCase) validate(req dto.CustomerRequest) (entity.CustomerInput, error) {
	in, err := req.ToInput()
	if err != nil {
		return entity.CustomerInput{}, err
	}
	if errs := uc.policy.Validate(in); errs != nil {
		return entity.CustomerInput{}, errs
	}
	return in, nil
}
