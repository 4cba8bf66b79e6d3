package granjas

import (
	"encoding/json"
	"time"
)

// Granja is one production unit registered by the association. The three
// admin-only columns (estatus_anterior, estatus_actual, registro_censo) live
// here alongside the public ones; FilterForRead decides who gets to see them.
type Granja struct {
	IDGranja int64 `json:"id_granja" db:"id_granja"`

	GranjaBase

	// Admin-only fields. Hidden from captura responses and writable only
	// through the admin update path.
	EstatusAnterior *EstatusUnidad `json:"estatus_anterior" db:"estatus_anterior"`
	EstatusActual   *EstatusUnidad `json:"estatus_actual" db:"estatus_actual"`
	RegistroCenso   *bool          `json:"registro_censo" db:"registro_censo"`

	// System-assigned; never client-writable.
	CreadoPor          int64     `json:"creado_por" db:"creado_por"`
	FechaCreacion      time.Time `json:"fecha_creacion" db:"fecha_creacion"`
	FechaActualizacion time.Time `json:"fecha_actualizacion" db:"fecha_actualizacion"`
}

// GranjaPublica is the captura-facing projection: same shape minus the three
// admin-only fields. Keys are absent, not null, in its JSON form.
type GranjaPublica struct {
	IDGranja int64 `json:"id_granja"`

	GranjaBase

	CreadoPor          int64     `json:"creado_por"`
	FechaCreacion      time.Time `json:"fecha_creacion"`
	FechaActualizacion time.Time `json:"fecha_actualizacion"`
}

// GranjaBase holds the fields both roles may read and write.
type GranjaBase struct {
	Asociacion          *string `json:"asociacion" db:"asociacion"`
	Estratificacion     *string `json:"estratificacion" db:"estratificacion"`
	ClaveMunicipioINEGI *string `json:"clave_municipio_inegi" db:"clave_municipio_inegi"`

	Municipio            string  `json:"municipio" db:"municipio"`
	NombreGranja         string  `json:"nombre_granja" db:"nombre_granja"`
	PropietarioApPaterno string  `json:"propietario_ap_paterno" db:"propietario_ap_paterno"`
	PropietarioApMaterno *string `json:"propietario_ap_materno" db:"propietario_ap_materno"`
	PropietarioNombres   string  `json:"propietario_nombres" db:"propietario_nombres"`

	ClaveRegistroProduccion *string       `json:"clave_registro_produccion" db:"clave_registro_produccion"`
	EstatusFolio            *EstatusFolio `json:"estatus_folio" db:"estatus_folio"`

	TipoProduccion     TipoProduccion `json:"tipo_produccion" db:"tipo_produccion"`
	NumeroCasetas      int            `json:"numero_casetas" db:"numero_casetas"`
	CapacidadInstalada int            `json:"capacidad_instalada" db:"capacidad_instalada"`

	// Headcount by stage: sementales, hembras de reemplazo, hembras en
	// reproducción, lechones, destetes, engorda.
	PoblacionCerdosS    *int `json:"poblacion_cerdos_s" db:"poblacion_cerdos_s"`
	PoblacionCerdosHR   *int `json:"poblacion_cerdos_hr" db:"poblacion_cerdos_hr"`
	PoblacionCerdosHRZO *int `json:"poblacion_cerdos_hrzo" db:"poblacion_cerdos_hrzo"`
	PoblacionCerdosL    *int `json:"poblacion_cerdos_l" db:"poblacion_cerdos_l"`
	PoblacionCerdosD    *int `json:"poblacion_cerdos_d" db:"poblacion_cerdos_d"`
	PoblacionCerdosE    *int `json:"poblacion_cerdos_e" db:"poblacion_cerdos_e"`
	PoblacionTotal      *int `json:"poblacion_total" db:"poblacion_total"`

	TipoEstablecimientoDestino      *TipoEstablecimiento `json:"tipo_establecimiento_destino" db:"tipo_establecimiento_destino"`
	NombreEstablecimientoDestino    *string              `json:"nombre_establecimiento_destino" db:"nombre_establecimiento_destino"`
	UbicacionEstablecimientoDestino *string              `json:"ubicacion_establecimiento_destino" db:"ubicacion_establecimiento_destino"`

	UbicacionGranja      *string  `json:"ubicacion_granja" db:"ubicacion_granja"`
	GeorreferenciacionLn *float64 `json:"georreferenciacion_ln" db:"georreferenciacion_ln"`
	GeorreferenciacionLo *float64 `json:"georreferenciacion_lo" db:"georreferenciacion_lo"`
}

type EstatusFolio string

const (
	EstatusFolioActivo    EstatusFolio = "Activo"
	EstatusFolioPendiente EstatusFolio = "Pendiente"
	EstatusFolioVencido   EstatusFolio = "Vencido"
	EstatusFolioCancelado EstatusFolio = "Cancelado"
)

type TipoProduccion string

const (
	TipoProduccionCicloCompleto TipoProduccion = "Ciclo Completo"
	TipoProduccionEngorda       TipoProduccion = "Engorda"
	TipoProduccionCria          TipoProduccion = "Cría"
	TipoProduccionReproduccion  TipoProduccion = "Reproducción"
)

type TipoEstablecimiento string

const (
	TipoEstablecimientoRastro   TipoEstablecimiento = "Rastro"
	TipoEstablecimientoMatadero TipoEstablecimiento = "Matadero"
	TipoEstablecimientoMercado  TipoEstablecimiento = "Mercado"
	TipoEstablecimientoOtro     TipoEstablecimiento = "Otro"
)

type EstatusUnidad string

const (
	EstatusUnidadActiva         EstatusUnidad = "Activa"
	EstatusUnidadInactiva       EstatusUnidad = "Inactiva"
	EstatusUnidadSuspendida     EstatusUnidad = "Suspendida"
	EstatusUnidadEnConstruccion EstatusUnidad = "En Construcción"
)

// GranjaCreate is the creation payload. Required-field validation happens at
// the binding layer; unknown JSON keys are dropped by the decoder, matching
// the "outside the allow-list is ignored" contract.
type GranjaCreate struct {
	Asociacion          *string `json:"asociacion"`
	Estratificacion     *string `json:"estratificacion"`
	ClaveMunicipioINEGI *string `json:"clave_municipio_inegi"`

	Municipio            string  `json:"municipio" binding:"required"`
	NombreGranja         string  `json:"nombre_granja" binding:"required"`
	PropietarioApPaterno string  `json:"propietario_ap_paterno" binding:"required"`
	PropietarioApMaterno *string `json:"propietario_ap_materno"`
	PropietarioNombres   string  `json:"propietario_nombres" binding:"required"`

	ClaveRegistroProduccion *string       `json:"clave_registro_produccion"`
	EstatusFolio            *EstatusFolio `json:"estatus_folio" binding:"omitempty,oneof=Activo Pendiente Vencido Cancelado"`

	TipoProduccion     TipoProduccion `json:"tipo_produccion" binding:"required,oneof='Ciclo Completo' Engorda Cría Reproducción"`
	NumeroCasetas      *int           `json:"numero_casetas" binding:"required"`
	CapacidadInstalada *int           `json:"capacidad_instalada" binding:"required"`

	PoblacionCerdosS    *int `json:"poblacion_cerdos_s"`
	PoblacionCerdosHR   *int `json:"poblacion_cerdos_hr"`
	PoblacionCerdosHRZO *int `json:"poblacion_cerdos_hrzo"`
	PoblacionCerdosL    *int `json:"poblacion_cerdos_l"`
	PoblacionCerdosD    *int `json:"poblacion_cerdos_d"`
	PoblacionCerdosE    *int `json:"poblacion_cerdos_e"`
	PoblacionTotal      *int `json:"poblacion_total"`

	TipoEstablecimientoDestino      *TipoEstablecimiento `json:"tipo_establecimiento_destino" binding:"omitempty,oneof=Rastro Matadero Mercado Otro"`
	NombreEstablecimientoDestino    *string              `json:"nombre_establecimiento_destino"`
	UbicacionEstablecimientoDestino *string              `json:"ubicacion_establecimiento_destino"`

	UbicacionGranja      *string  `json:"ubicacion_granja"`
	GeorreferenciacionLn *float64 `json:"georreferenciacion_ln"`
	GeorreferenciacionLo *float64 `json:"georreferenciacion_lo"`

	// Admin-only; ValidateWrite rejects non-null values from captura.
	EstatusAnterior *EstatusUnidad `json:"estatus_anterior" binding:"omitempty,oneof=Activa Inactiva Suspendida 'En Construcción'"`
	EstatusActual   *EstatusUnidad `json:"estatus_actual" binding:"omitempty,oneof=Activa Inactiva Suspendida 'En Construcción'"`
	RegistroCenso   *bool          `json:"registro_censo"`
}

// restrictedValues exposes the admin-only values for ValidateWrite, keyed by
// column name so a violation can name the offending field.
func (c GranjaCreate) restrictedValues() []fieldValue {
	return []fieldValue{
		{ColEstatusAnterior, deref(c.EstatusAnterior)},
		{ColEstatusActual, deref(c.EstatusActual)},
		{ColRegistroCenso, deref(c.RegistroCenso)},
	}
}

type fieldValue struct {
	Column string
	Value  any
}

// GranjaUpdate is the partial-update payload for the general update path.
// A key that is absent leaves the column unchanged; a key explicitly set to
// null clears it. UnmarshalJSON records which keys were present.
type GranjaUpdate struct {
	Asociacion          *string `json:"asociacion"`
	Estratificacion     *string `json:"estratificacion"`
	ClaveMunicipioINEGI *string `json:"clave_municipio_inegi"`

	Municipio            *string `json:"municipio"`
	NombreGranja         *string `json:"nombre_granja"`
	PropietarioApPaterno *string `json:"propietario_ap_paterno"`
	PropietarioApMaterno *string `json:"propietario_ap_materno"`
	PropietarioNombres   *string `json:"propietario_nombres"`

	ClaveRegistroProduccion *string       `json:"clave_registro_produccion"`
	EstatusFolio            *EstatusFolio `json:"estatus_folio" binding:"omitempty,oneof=Activo Pendiente Vencido Cancelado"`

	TipoProduccion     *TipoProduccion `json:"tipo_produccion" binding:"omitempty,oneof='Ciclo Completo' Engorda Cría Reproducción"`
	NumeroCasetas      *int            `json:"numero_casetas"`
	CapacidadInstalada *int            `json:"capacidad_instalada"`

	PoblacionCerdosS    *int `json:"poblacion_cerdos_s"`
	PoblacionCerdosHR   *int `json:"poblacion_cerdos_hr"`
	PoblacionCerdosHRZO *int `json:"poblacion_cerdos_hrzo"`
	PoblacionCerdosL    *int `json:"poblacion_cerdos_l"`
	PoblacionCerdosD    *int `json:"poblacion_cerdos_d"`
	PoblacionCerdosE    *int `json:"poblacion_cerdos_e"`
	PoblacionTotal      *int `json:"poblacion_total"`

	TipoEstablecimientoDestino      *TipoEstablecimiento `json:"tipo_establecimiento_destino" binding:"omitempty,oneof=Rastro Matadero Mercado Otro"`
	NombreEstablecimientoDestino    *string              `json:"nombre_establecimiento_destino"`
	UbicacionEstablecimientoDestino *string              `json:"ubicacion_establecimiento_destino"`

	UbicacionGranja      *string  `json:"ubicacion_granja"`
	GeorreferenciacionLn *float64 `json:"georreferenciacion_ln"`
	GeorreferenciacionLo *float64 `json:"georreferenciacion_lo"`

	present map[string]struct{}
}

func (u *GranjaUpdate) UnmarshalJSON(data []byte) error {
	type alias GranjaUpdate
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	*u = GranjaUpdate(a)
	u.present = make(map[string]struct{}, len(keys))
	for k := range keys {
		if _, ok := updatableColumnSet[k]; ok {
			u.present[k] = struct{}{}
		}
	}
	return nil
}

// IsSet reports whether the payload carried the column's key, regardless of
// whether its value was null.
func (u *GranjaUpdate) IsSet(column string) bool {
	_, ok := u.present[column]
	return ok
}

// Changes returns the columns to update and their values (nil for explicit
// null), in the canonical column order.
func (u *GranjaUpdate) Changes() ([]string, []any) {
	var cols []string
	var vals []any
	for _, f := range granjaUpdateFields {
		if !u.IsSet(f.column) {
			continue
		}
		cols = append(cols, f.column)
		vals = append(vals, f.value(u))
	}
	return cols, vals
}

// GranjaAdminUpdate carries only the three admin-only fields.
type GranjaAdminUpdate struct {
	EstatusAnterior *EstatusUnidad `json:"estatus_anterior" binding:"omitempty,oneof=Activa Inactiva Suspendida 'En Construcción'"`
	EstatusActual   *EstatusUnidad `json:"estatus_actual" binding:"omitempty,oneof=Activa Inactiva Suspendida 'En Construcción'"`
	RegistroCenso   *bool          `json:"registro_censo"`

	present map[string]struct{}
}

func (u *GranjaAdminUpdate) UnmarshalJSON(data []byte) error {
	type alias GranjaAdminUpdate
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	*u = GranjaAdminUpdate(a)
	u.present = make(map[string]struct{}, len(keys))
	for k := range keys {
		if IsRestrictedField(k) {
			u.present[k] = struct{}{}
		}
	}
	return nil
}

func (u *GranjaAdminUpdate) IsSet(column string) bool {
	_, ok := u.present[column]
	return ok
}

func (u *GranjaAdminUpdate) Changes() ([]string, []any) {
	var cols []string
	var vals []any
	for _, f := range granjaAdminUpdateFields {
		if !u.IsSet(f.column) {
			continue
		}
		cols = append(cols, f.column)
		vals = append(vals, f.value(u))
	}
	return cols, vals
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
