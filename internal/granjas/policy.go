package granjas

import (
	"granjas-api/internal/auth"
	"granjas-api/internal/rbac"
)

// Field visibility and row scoping live here so every entry point (list, get,
// create, both update paths, delete) shares one decision point instead of
// re-deriving the rules inline.

var restrictedFields = map[string]struct{}{
	ColEstatusAnterior: {},
	ColEstatusActual:   {},
	ColRegistroCenso:   {},
}

// IsRestrictedField reports whether column is one of the three admin-only
// fields.
func IsRestrictedField(column string) bool {
	_, ok := restrictedFields[column]
	return ok
}

// FilterForRead returns the representation of g the caller may see: the full
// record for admin, the public projection (admin-only keys absent) for
// captura. g is copied, never mutated.
func FilterForRead(g Granja, ident auth.Identity) any {
	if rbac.IsAdmin(ident.TipoUsuario) {
		return g
	}
	return GranjaPublica{
		IDGranja:           g.IDGranja,
		GranjaBase:         g.GranjaBase,
		CreadoPor:          g.CreadoPor,
		FechaCreacion:      g.FechaCreacion,
		FechaActualizacion: g.FechaActualizacion,
	}
}

// ValidateWrite rejects a non-admin write that sets any restricted field to a
// non-null value. Null/absent restricted fields pass; the caller simply is
// not setting them.
func ValidateWrite(ident auth.Identity, proposed []fieldValue) error {
	if rbac.IsAdmin(ident.TipoUsuario) {
		return nil
	}
	for _, fv := range proposed {
		if !IsRestrictedField(fv.Column) {
			continue
		}
		if fv.Value != nil {
			return &RestrictedFieldError{Field: fv.Column}
		}
	}
	return nil
}

// VisibleAssociations returns the association filter for list queries.
// unrestricted is true for admin (no filter). For captura the returned list
// may be empty, which means the caller sees nothing.
func VisibleAssociations(ident auth.Identity) (assocs []string, unrestricted bool) {
	if rbac.IsAdmin(ident.TipoUsuario) {
		return nil, true
	}
	return ident.AsociacionesPermitidas, false
}

// CanView reports whether the caller may see a single stored row, judged
// against the row's association.
func CanView(ident auth.Identity, g Granja) bool {
	if rbac.IsAdmin(ident.TipoUsuario) {
		return true
	}
	if g.Asociacion == nil {
		return false
	}
	for _, a := range ident.AsociacionesPermitidas {
		if a == *g.Asociacion {
			return true
		}
	}
	return false
}

// CanMutate reports whether the caller may update or delete the stored row.
// Delete permission is defined as equal to edit permission.
func CanMutate(ident auth.Identity, g Granja) bool {
	return CanView(ident, g)
}
