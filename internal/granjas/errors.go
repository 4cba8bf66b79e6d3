package granjas

import "errors"

var (
	ErrNotFound    = errors.New("granja no encontrada")
	ErrForbidden   = errors.New("permiso denegado")
	ErrEmptyUpdate = errors.New("no hay campos para actualizar")
)

// ErrAdminRequired is the admin-update path's role failure. It surfaces as
// 403 like the other permission failures but stays distinguishable in logs.
var ErrAdminRequired = &adminRequiredError{}

type adminRequiredError struct{}

func (*adminRequiredError) Error() string { return "se requieren permisos de administrador" }
func (*adminRequiredError) Unwrap() error { return ErrForbidden }

// NullFieldError reports an explicit null for a column the schema cannot
// clear. Surfaces as 400, like an empty update.
type NullFieldError struct {
	Field string
}

func (e *NullFieldError) Error() string {
	return "el campo no admite valor nulo: " + e.Field
}

// RestrictedFieldError reports a captura caller trying to set one of the
// three admin-only fields. It names the offending field.
type RestrictedFieldError struct {
	Field string
}

func (e *RestrictedFieldError) Error() string {
	return "no tiene permisos para modificar el campo: " + e.Field
}

func (e *RestrictedFieldError) Unwrap() error { return ErrForbidden }

// ScopeError reports a captura caller acting on a granja outside their
// association grants.
type ScopeError struct {
	IDGranja int64
}

func (e *ScopeError) Error() string {
	return "no tiene permisos sobre esta granja"
}

func (e *ScopeError) Unwrap() error { return ErrForbidden }
