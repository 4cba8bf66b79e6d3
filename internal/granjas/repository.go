package granjas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// NOTE: This repository assumes the granjas table from the association's
// schema: id_granja BIGSERIAL, the 26 public columns, the 3 admin-only
// columns, and creado_por/fecha_creacion/fecha_actualizacion.

const granjaColumns = `
id_granja, asociacion, estratificacion, clave_municipio_inegi, municipio,
nombre_granja, propietario_ap_paterno, propietario_ap_materno, propietario_nombres,
clave_registro_produccion, estatus_folio, tipo_produccion, numero_casetas,
capacidad_instalada, poblacion_cerdos_s, poblacion_cerdos_hr, poblacion_cerdos_hrzo,
poblacion_cerdos_l, poblacion_cerdos_d, poblacion_cerdos_e, poblacion_total,
tipo_establecimiento_destino, nombre_establecimiento_destino,
ubicacion_establecimiento_destino, ubicacion_granja, georreferenciacion_ln,
georreferenciacion_lo, estatus_anterior, estatus_actual, registro_censo,
creado_por, fecha_creacion, fecha_actualizacion`

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGranja(s scanner) (Granja, error) {
	var g Granja
	err := s.Scan(
		&g.IDGranja,
		&g.Asociacion,
		&g.Estratificacion,
		&g.ClaveMunicipioINEGI,
		&g.Municipio,
		&g.NombreGranja,
		&g.PropietarioApPaterno,
		&g.PropietarioApMaterno,
		&g.PropietarioNombres,
		&g.ClaveRegistroProduccion,
		&g.EstatusFolio,
		&g.TipoProduccion,
		&g.NumeroCasetas,
		&g.CapacidadInstalada,
		&g.PoblacionCerdosS,
		&g.PoblacionCerdosHR,
		&g.PoblacionCerdosHRZO,
		&g.PoblacionCerdosL,
		&g.PoblacionCerdosD,
		&g.PoblacionCerdosE,
		&g.PoblacionTotal,
		&g.TipoEstablecimientoDestino,
		&g.NombreEstablecimientoDestino,
		&g.UbicacionEstablecimientoDestino,
		&g.UbicacionGranja,
		&g.GeorreferenciacionLn,
		&g.GeorreferenciacionLo,
		&g.EstatusAnterior,
		&g.EstatusActual,
		&g.RegistroCenso,
		&g.CreadoPor,
		&g.FechaCreacion,
		&g.FechaActualizacion,
	)
	return g, err
}

func getGranja(ctx context.Context, q querier, id int64) (Granja, error) {
	query := `SELECT ` + granjaColumns + ` FROM granjas WHERE id_granja = $1`
	g, err := scanGranja(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Granja{}, ErrNotFound
	}
	return g, err
}

type listQuery struct {
	// Asociaciones restricts rows to these associations when restricted
	// is true; restricted with an empty list is handled by the service
	// (no query at all).
	Asociaciones []string
	Restricted   bool

	// Optional equality filters.
	Asociacion string
	Municipio  string

	Limit int
	Skip  int
}

func listGranjas(ctx context.Context, q querier, lq listQuery) ([]Granja, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + granjaColumns + ` FROM granjas WHERE 1=1`)
	var args []any

	if lq.Restricted {
		placeholders := make([]string, len(lq.Asociaciones))
		for i, a := range lq.Asociaciones {
			args = append(args, a)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		b.WriteString(" AND asociacion IN (" + strings.Join(placeholders, ",") + ")")
	}

	if lq.Asociacion != "" {
		args = append(args, lq.Asociacion)
		fmt.Fprintf(&b, " AND asociacion = $%d", len(args))
	}
	if lq.Municipio != "" {
		args = append(args, lq.Municipio)
		fmt.Fprintf(&b, " AND municipio = $%d", len(args))
	}

	args = append(args, lq.Limit)
	fmt.Fprintf(&b, " ORDER BY fecha_creacion DESC LIMIT $%d", len(args))
	args = append(args, lq.Skip)
	fmt.Fprintf(&b, " OFFSET $%d", len(args))

	rows, err := q.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Granja{}
	for rows.Next() {
		g, err := scanGranja(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func insertGranja(ctx context.Context, q querier, g Granja) (Granja, error) {
	const query = `
INSERT INTO granjas (
  asociacion, estratificacion, clave_municipio_inegi, municipio, nombre_granja,
  propietario_ap_paterno, propietario_ap_materno, propietario_nombres,
  clave_registro_produccion, estatus_folio, tipo_produccion, numero_casetas,
  capacidad_instalada, poblacion_cerdos_s, poblacion_cerdos_hr, poblacion_cerdos_hrzo,
  poblacion_cerdos_l, poblacion_cerdos_d, poblacion_cerdos_e, poblacion_total,
  tipo_establecimiento_destino, nombre_establecimiento_destino,
  ubicacion_establecimiento_destino, ubicacion_granja, georreferenciacion_ln,
  georreferenciacion_lo, estatus_anterior, estatus_actual, registro_censo,
  creado_por, fecha_creacion, fecha_actualizacion
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,
  $17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32
)
RETURNING ` + granjaColumns
	return scanGranja(q.QueryRowContext(ctx, query,
		g.Asociacion,
		g.Estratificacion,
		g.ClaveMunicipioINEGI,
		g.Municipio,
		g.NombreGranja,
		g.PropietarioApPaterno,
		g.PropietarioApMaterno,
		g.PropietarioNombres,
		g.ClaveRegistroProduccion,
		g.EstatusFolio,
		g.TipoProduccion,
		g.NumeroCasetas,
		g.CapacidadInstalada,
		g.PoblacionCerdosS,
		g.PoblacionCerdosHR,
		g.PoblacionCerdosHRZO,
		g.PoblacionCerdosL,
		g.PoblacionCerdosD,
		g.PoblacionCerdosE,
		g.PoblacionTotal,
		g.TipoEstablecimientoDestino,
		g.NombreEstablecimientoDestino,
		g.UbicacionEstablecimientoDestino,
		g.UbicacionGranja,
		g.GeorreferenciacionLn,
		g.GeorreferenciacionLo,
		g.EstatusAnterior,
		g.EstatusActual,
		g.RegistroCenso,
		g.CreadoPor,
		g.FechaCreacion,
		g.FechaActualizacion,
	))
}

// updateGranja applies the given column changes plus the update timestamp.
// cols and vals come from a Changes() call and are never empty here.
func updateGranja(ctx context.Context, q querier, id int64, cols []string, vals []any, now time.Time) (Granja, error) {
	var b strings.Builder
	b.WriteString(`UPDATE granjas SET `)

	var args []any
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		args = append(args, vals[i])
		fmt.Fprintf(&b, "%s = $%d", col, len(args))
	}
	args = append(args, now)
	fmt.Fprintf(&b, ", fecha_actualizacion = $%d", len(args))
	args = append(args, id)
	fmt.Fprintf(&b, " WHERE id_granja = $%d RETURNING ", len(args))
	b.WriteString(granjaColumns)

	g, err := scanGranja(q.QueryRowContext(ctx, b.String(), args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Granja{}, ErrNotFound
	}
	return g, err
}

func deleteGranja(ctx context.Context, q querier, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM granjas WHERE id_granja = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
