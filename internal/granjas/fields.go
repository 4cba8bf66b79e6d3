package granjas

// The three admin-only columns. This set is fixed by the registry's data
// responsibility rules, not configurable at runtime.
const (
	ColEstatusAnterior = "estatus_anterior"
	ColEstatusActual   = "estatus_actual"
	ColRegistroCenso   = "registro_censo"
)

type updateField struct {
	column string
	value  func(*GranjaUpdate) any
}

// granjaUpdateFields is the static allow-list for the general update path:
// the columns both roles may write, in canonical column order. Keeping the
// mapping in one table avoids stringly-typed field access drifting between
// the create, update, and list paths.
var granjaUpdateFields = []updateField{
	{"asociacion", func(u *GranjaUpdate) any { return deref(u.Asociacion) }},
	{"estratificacion", func(u *GranjaUpdate) any { return deref(u.Estratificacion) }},
	{"clave_municipio_inegi", func(u *GranjaUpdate) any { return deref(u.ClaveMunicipioINEGI) }},
	{"municipio", func(u *GranjaUpdate) any { return deref(u.Municipio) }},
	{"nombre_granja", func(u *GranjaUpdate) any { return deref(u.NombreGranja) }},
	{"propietario_ap_paterno", func(u *GranjaUpdate) any { return deref(u.PropietarioApPaterno) }},
	{"propietario_ap_materno", func(u *GranjaUpdate) any { return deref(u.PropietarioApMaterno) }},
	{"propietario_nombres", func(u *GranjaUpdate) any { return deref(u.PropietarioNombres) }},
	{"clave_registro_produccion", func(u *GranjaUpdate) any { return deref(u.ClaveRegistroProduccion) }},
	{"estatus_folio", func(u *GranjaUpdate) any { return deref(u.EstatusFolio) }},
	{"tipo_produccion", func(u *GranjaUpdate) any { return deref(u.TipoProduccion) }},
	{"numero_casetas", func(u *GranjaUpdate) any { return deref(u.NumeroCasetas) }},
	{"capacidad_instalada", func(u *GranjaUpdate) any { return deref(u.CapacidadInstalada) }},
	{"poblacion_cerdos_s", func(u *GranjaUpdate) any { return deref(u.PoblacionCerdosS) }},
	{"poblacion_cerdos_hr", func(u *GranjaUpdate) any { return deref(u.PoblacionCerdosHR) }},
	{"poblacion_cerdos_hrzo", func(u *GranjaUpdate) any { return deref(u.PoblacionCerdosHRZO) }},
	{"poblacion_cerdos_l", func(u *GranjaUpdate) any { return deref(u.PoblacionCerdosL) }},
	{"poblacion_cerdos_d", func(u *GranjaUpdate) any { return deref(u.PoblacionCerdosD) }},
	{"poblacion_cerdos_e", func(u *GranjaUpdate) any { return deref(u.PoblacionCerdosE) }},
	{"poblacion_total", func(u *GranjaUpdate) any { return deref(u.PoblacionTotal) }},
	{"tipo_establecimiento_destino", func(u *GranjaUpdate) any { return deref(u.TipoEstablecimientoDestino) }},
	{"nombre_establecimiento_destino", func(u *GranjaUpdate) any { return deref(u.NombreEstablecimientoDestino) }},
	{"ubicacion_establecimiento_destino", func(u *GranjaUpdate) any { return deref(u.UbicacionEstablecimientoDestino) }},
	{"ubicacion_granja", func(u *GranjaUpdate) any { return deref(u.UbicacionGranja) }},
	{"georreferenciacion_ln", func(u *GranjaUpdate) any { return deref(u.GeorreferenciacionLn) }},
	{"georreferenciacion_lo", func(u *GranjaUpdate) any { return deref(u.GeorreferenciacionLo) }},
}

// nullableColumns are the updatable columns that may be cleared with an
// explicit null. The rest are NOT NULL in the granjas table; an explicit
// null for them is rejected before any SQL runs instead of surfacing as a
// constraint violation.
var nullableColumns = map[string]struct{}{
	"asociacion":                        {},
	"estratificacion":                   {},
	"clave_municipio_inegi":             {},
	"propietario_ap_materno":            {},
	"clave_registro_produccion":         {},
	"estatus_folio":                     {},
	"tipo_establecimiento_destino":      {},
	"nombre_establecimiento_destino":    {},
	"ubicacion_establecimiento_destino": {},
	"ubicacion_granja":                  {},
	"georreferenciacion_ln":             {},
	"georreferenciacion_lo":             {},
}

func isNullableColumn(column string) bool {
	_, ok := nullableColumns[column]
	return ok
}

var updatableColumnSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(granjaUpdateFields))
	for _, f := range granjaUpdateFields {
		s[f.column] = struct{}{}
	}
	return s
}()

type adminUpdateField struct {
	column string
	value  func(*GranjaAdminUpdate) any
}

var granjaAdminUpdateFields = []adminUpdateField{
	{ColEstatusAnterior, func(u *GranjaAdminUpdate) any { return deref(u.EstatusAnterior) }},
	{ColEstatusActual, func(u *GranjaAdminUpdate) any { return deref(u.EstatusActual) }},
	{ColRegistroCenso, func(u *GranjaAdminUpdate) any { return deref(u.RegistroCenso) }},
}
