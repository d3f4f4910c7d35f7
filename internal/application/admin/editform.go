package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/domain/repository"
)

var (
	// ErrFormClosed operación sobre un formulario que no está abierto.
	ErrFormClosed = errors.New("el formulario no está abierto")
	// ErrNotEditing eliminar sin un cliente seleccionado.
	ErrNotEditing = errors.New("no hay cliente seleccionado")
	// ErrUnknownField nombre de campo inexistente.
	ErrUnknownField = errors.New("campo desconocido")
)

// Nombres de campo (coinciden con la API JSON).
const (
	FieldName        = "name"
	FieldSurname     = "surname"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldType        = "type"
	FieldCompanyName = "companyName"
)

// FormFields valores editables del formulario.
type FormFields struct {
	Name        string
	Surname     string
	Email       string
	Phone       string
	Type        entity.CustomerType
	CompanyName string
}

func defaultFields() FormFields {
	return FormFields{Type: entity.CustomerTypeIndividual}
}

func fieldsFrom(c *entity.Customer) FormFields {
	return FormFields{
		Name:        c.Name,
		Surname:     c.Surname,
		Email:       c.Email,
		Phone:       c.Phone,
		Type:        c.Type(),
		CompanyName: c.CompanyName(),
	}
}

// EditForm formulario único de alta y edición. El modo lo decide si Open recibió un cliente.
type EditForm struct {
	policy  entity.ValidationPolicy
	open    bool
	editing *entity.Customer
	fields  FormFields
	errs    entity.FieldErrors
}

// NewEditForm construye el formulario cerrado con la política de validación indicada.
func NewEditForm(policy entity.ValidationPolicy) *EditForm {
	if policy == "" {
		policy = entity.DefaultValidationPolicy
	}
	return &EditForm{policy: policy, fields: defaultFields()}
}

// Open abre el formulario. Con existing != nil precarga sus datos (edición); con nil
// restablece los valores por defecto (alta). Siempre reinicia todos los campos.
func (f *EditForm) Open(existing *entity.Customer) {
	f.open = true
	f.errs = nil
	if existing == nil {
		f.editing = nil
		f.fields = defaultFields()
		return
	}
	f.editing = existing.Clone()
	f.fields = fieldsFrom(existing)
}

// Close cierra sin guardar.
func (f *EditForm) Close() {
	f.open = false
	f.errs = nil
}

// IsOpen indica si el formulario está abierto.
func (f *EditForm) IsOpen() bool { return f.open }

// IsEditing indica modo edición (hay cliente seleccionado).
func (f *EditForm) IsEditing() bool { return f.editing != nil }

// Editing cliente seleccionado o nil.
func (f *EditForm) Editing() *entity.Customer { return f.editing.Clone() }

// Policy política de validación en uso.
func (f *EditForm) Policy() entity.ValidationPolicy { return f.policy }

// Fields valores actuales.
func (f *EditForm) Fields() FormFields { return f.fields }

// Errors errores de la última validación (nil si no hubo).
func (f *EditForm) Errors() entity.FieldErrors { return f.errs }

// ShowsCompanyName indica si el campo razón social está visible.
func (f *EditForm) ShowsCompanyName() bool {
	return f.fields.Type == entity.CustomerTypeCorporate
}

// SetType cambia la categoría; al salir de corporate la razón social se borra.
func (f *EditForm) SetType(t entity.CustomerType) {
	if t != entity.CustomerTypeCorporate {
		t = entity.CustomerTypeIndividual
		f.fields.CompanyName = ""
	}
	f.fields.Type = t
}

// ToggleType alterna individual/corporate.
func (f *EditForm) ToggleType() {
	if f.fields.Type == entity.CustomerTypeCorporate {
		f.SetType(entity.CustomerTypeIndividual)
		return
	}
	f.SetType(entity.CustomerTypeCorporate)
}

// Set asigna un campo por nombre. La razón social sólo se acepta para corporate.
func (f *EditForm) Set(field, value string) error {
	switch field {
	case FieldName:
		f.fields.Name = value
	case FieldSurname:
		f.fields.Surname = value
	case FieldEmail:
		f.fields.Email = value
	case FieldPhone:
		f.fields.Phone = value
	case FieldType:
		t, ok := entity.ParseCustomerType(value)
		if !ok {
			return fmt.Errorf("tipo %q: %w", value, ErrUnknownField)
		}
		f.SetType(t)
	case FieldCompanyName:
		if f.ShowsCompanyName() {
			f.fields.CompanyName = value
		}
	default:
		return fmt.Errorf("%s: %w", field, ErrUnknownField)
	}
	delete(f.errs, field)
	return nil
}

// Get devuelve el valor de un campo por nombre.
func (f *EditForm) Get(field string) string {
	switch field {
	case FieldName:
		return f.fields.Name
	case FieldSurname:
		return f.fields.Surname
	case FieldEmail:
		return f.fields.Email
	case FieldPhone:
		return f.fields.Phone
	case FieldType:
		return string(f.fields.Type)
	case FieldCompanyName:
		return f.fields.CompanyName
	}
	return ""
}

// Input entrada de dominio equivalente a los campos actuales.
func (f *EditForm) Input() entity.CustomerInput {
	return entity.CustomerInput{
		Name:     f.fields.Name,
		Surname:  f.fields.Surname,
		Email:    f.fields.Email,
		Phone:    f.fields.Phone,
		Category: entity.NewCategory(f.fields.Type, f.fields.CompanyName),
	}.Normalized()
}

// Validate aplica la política y guarda los errores por campo.
func (f *EditForm) Validate() entity.FieldErrors {
	f.errs = f.policy.Validate(f.Input())
	return f.errs
}

// Save valida y, si todo es correcto, crea o actualiza en el repositorio y cierra el formulario.
// Con errores de validación no llama al repositorio, el formulario queda abierto y el error
// devuelto es entity.FieldErrors. Si el repositorio falla el formulario también queda abierto.
func (f *EditForm) Save(ctx context.Context, repo repository.CustomerRepository) (c *entity.Customer, created bool, err error) {
	if !f.open {
		return nil, false, ErrFormClosed
	}
	if errs := f.Validate(); errs != nil {
		return nil, false, errs
	}
	in := f.Input()
	if f.editing == nil {
		c, err = repo.Create(ctx, in)
		created = true
	} else {
		c, err = repo.Update(ctx, f.editing.ID, in)
	}
	if err != nil {
		return nil, created, err
	}
	f.Close()
	return c, created, nil
}

// Title texto de cabecera según el modo.
func (f *EditForm) Title() string {
	if f.editing == nil {
		return "Nuevo cliente"
	}
	return strings.TrimSpace("Editar cliente " + f.editing.Name + " " + f.editing.Surname)
}
