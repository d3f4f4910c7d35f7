package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/clientes-admin/internal/domain"
)

// ValidationPolicy conjunto de campos obligatorios al guardar un cliente.
type ValidationPolicy string

const (
	// PolicyMinimal exige name y surname.
	PolicyMinimal ValidationPolicy = "minimal"
	// PolicyStrict exige name, surname y email.
	PolicyStrict ValidationPolicy = "strict"
	// PolicyTyped exige name, surname y companyName cuando el cliente es corporativo.
	PolicyTyped ValidationPolicy = "typed"
)

// DefaultValidationPolicy política usada cuando la configuración no indica otra.
const DefaultValidationPolicy = PolicyTyped

// ParseValidationPolicy valida el nombre de la política.
func ParseValidationPolicy(s string) (ValidationPolicy, error) {
	switch p := ValidationPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DefaultValidationPolicy, nil
	case PolicyMinimal, PolicyStrict, PolicyTyped:
		return p, nil
	default:
		return "", fmt.Errorf("política de validación desconocida: %q", s)
	}
}

// FieldErrors errores por campo (clave = nombre JSON del campo).
type FieldErrors map[string]string

// Error implementa error con los campos ordenados para una salida estable.
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validación: " + strings.Join(parts, "; ")
}

// Unwrap permite errors.Is(err, domain.ErrInvalidInput).
func (fe FieldErrors) Unwrap() error { return domain.ErrInvalidInput }

// Validate aplica la política sobre la entrada ya normalizada. Devuelve nil si es válida.
func (p ValidationPolicy) Validate(in CustomerInput) FieldErrors {
	in = in.Normalized()
	errs := FieldErrors{}
	if in.Name == "" {
		errs["name"] = "requerido"
	}
	if in.Surname == "" {
		errs["surname"] = "requerido"
	}
	switch p {
	case PolicyStrict:
		if in.Email == "" {
			errs["email"] = "requerido"
		}
	case PolicyTyped:
		if in.Type() == CustomerTypeCorporate && in.CompanyName() == "" {
			errs["companyName"] = "requerido para clientes corporativos"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
