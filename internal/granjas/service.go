package granjas

import (
	"context"
	"database/sql"
	"time"

	"granjas-api/internal/audit"
	"granjas-api/internal/auth"
	"granjas-api/internal/rbac"
	"granjas-api/pkg/utils"
)

const defaultListLimit = 100

// Service is the permission-aware CRUD surface over granjas. Every operation
// takes the caller's Identity and applies the row-scoping and field-visibility
// policies before touching storage. Mutations append exactly one audit record
// inside the same transaction.
type Service struct {
	db    *sql.DB
	audit audit.Recorder
	clock func() time.Time
}

func NewService(db *sql.DB, recorder audit.Recorder) *Service {
	return &Service{db: db, audit: recorder, clock: time.Now}
}

type ListParams struct {
	Asociacion string
	Municipio  string
	Skip       int
	Limit      int
}

// List returns the granjas visible to the caller, newest first. A captura
// user with no association grants gets an empty list without a query.
func (s *Service) List(ctx context.Context, ident auth.Identity, p ListParams) ([]Granja, error) {
	assocs, unrestricted := VisibleAssociations(ident)
	if !unrestricted && len(assocs) == 0 {
		return []Granja{}, nil
	}

	if p.Limit <= 0 {
		p.Limit = defaultListLimit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}

	return listGranjas(ctx, s.db, listQuery{
		Asociaciones: assocs,
		Restricted:   !unrestricted,
		Asociacion:   p.Asociacion,
		Municipio:    p.Municipio,
		Limit:        p.Limit,
		Skip:         p.Skip,
	})
}

// Get returns a single granja. Existence is checked before permission, so an
// unauthorized caller on an existing row gets Forbidden, not NotFound.
func (s *Service) Get(ctx context.Context, ident auth.Identity, id int64) (Granja, error) {
	g, err := getGranja(ctx, s.db, id)
	if err != nil {
		return Granja{}, err
	}
	if !CanView(ident, g) {
		return Granja{}, &ScopeError{IDGranja: id}
	}
	return g, nil
}

// Create persists a new granja. Captura callers may not set any of the three
// admin-only fields; the violation names the field. Creator and both
// timestamps are stamped server-side.
func (s *Service) Create(ctx context.Context, ident auth.Identity, req GranjaCreate) (Granja, error) {
	if err := ValidateWrite(ident, req.restrictedValues()); err != nil {
		return Granja{}, err
	}

	now := s.clock().UTC()
	g := Granja{
		GranjaBase: GranjaBase{
			Asociacion:                      req.Asociacion,
			Estratificacion:                 req.Estratificacion,
			ClaveMunicipioINEGI:             req.ClaveMunicipioINEGI,
			Municipio:                       req.Municipio,
			NombreGranja:                    req.NombreGranja,
			PropietarioApPaterno:            req.PropietarioApPaterno,
			PropietarioApMaterno:            req.PropietarioApMaterno,
			PropietarioNombres:              req.PropietarioNombres,
			ClaveRegistroProduccion:         req.ClaveRegistroProduccion,
			EstatusFolio:                    req.EstatusFolio,
			TipoProduccion:                  req.TipoProduccion,
			NumeroCasetas:                   intOrZero(req.NumeroCasetas),
			CapacidadInstalada:              intOrZero(req.CapacidadInstalada),
			PoblacionCerdosS:                zeroIfNil(req.PoblacionCerdosS),
			PoblacionCerdosHR:               zeroIfNil(req.PoblacionCerdosHR),
			PoblacionCerdosHRZO:             zeroIfNil(req.PoblacionCerdosHRZO),
			PoblacionCerdosL:                zeroIfNil(req.PoblacionCerdosL),
			PoblacionCerdosD:                zeroIfNil(req.PoblacionCerdosD),
			PoblacionCerdosE:                zeroIfNil(req.PoblacionCerdosE),
			PoblacionTotal:                  zeroIfNil(req.PoblacionTotal),
			TipoEstablecimientoDestino:      req.TipoEstablecimientoDestino,
			NombreEstablecimientoDestino:    req.NombreEstablecimientoDestino,
			UbicacionEstablecimientoDestino: req.UbicacionEstablecimientoDestino,
			UbicacionGranja:                 req.UbicacionGranja,
			GeorreferenciacionLn:            req.GeorreferenciacionLn,
			GeorreferenciacionLo:            req.GeorreferenciacionLo,
		},
		EstatusAnterior:    req.EstatusAnterior,
		EstatusActual:      req.EstatusActual,
		RegistroCenso:      req.RegistroCenso,
		CreadoPor:          ident.IDUsuario,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}

	var out Granja
	err := utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		persisted, err := insertGranja(ctx, tx, g)
		if err != nil {
			return err
		}
		out = persisted
		return s.audit.AppendTx(ctx, tx, audit.Record{
			IDUsuario:       ident.IDUsuario,
			IDGranja:        persisted.IDGranja,
			TablaAfectada:   audit.TablaGranjas,
			Accion:          audit.ActionInsert,
			CampoModificado: "creación de registro",
		})
	})
	if err != nil {
		return Granja{}, err
	}
	return out, nil
}

// Update applies the general (both-roles) partial update. Only keys present
// in the payload change; a present null clears nullable columns and is
// rejected for NOT NULL ones. Existence is checked before permission; an
// empty change set is a BadRequest.
func (s *Service) Update(ctx context.Context, ident auth.Identity, id int64, upd *GranjaUpdate) (Granja, error) {
	var out Granja
	err := utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		existing, err := getGranja(ctx, tx, id)
		if err != nil {
			return err
		}
		if !CanMutate(ident, existing) {
			return &ScopeError{IDGranja: id}
		}

		cols, vals := upd.Changes()
		if len(cols) == 0 {
			return ErrEmptyUpdate
		}
		for i, col := range cols {
			if vals[i] == nil && !isNullableColumn(col) {
				return &NullFieldError{Field: col}
			}
		}

		updated, err := updateGranja(ctx, tx, id, cols, vals, s.clock().UTC())
		if err != nil {
			return err
		}
		out = updated
		return s.audit.AppendTx(ctx, tx, audit.Record{
			IDUsuario:     ident.IDUsuario,
			IDGranja:      id,
			TablaAfectada: audit.TablaGranjas,
			Accion:        audit.ActionUpdate,
		})
	})
	if err != nil {
		return Granja{}, err
	}
	return out, nil
}

// UpdateAdminFields changes only the three admin-only fields. Unlike the
// other operations the role check runs before the existence check, so a
// captura caller fails identically for existing and non-existing ids.
func (s *Service) UpdateAdminFields(ctx context.Context, ident auth.Identity, id int64, upd *GranjaAdminUpdate) (Granja, error) {
	if !rbac.IsAdmin(ident.TipoUsuario) {
		return Granja{}, ErrAdminRequired
	}

	var out Granja
	err := utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := getGranja(ctx, tx, id); err != nil {
			return err
		}

		cols, vals := upd.Changes()
		if len(cols) == 0 {
			return ErrEmptyUpdate
		}

		updated, err := updateGranja(ctx, tx, id, cols, vals, s.clock().UTC())
		if err != nil {
			return err
		}
		out = updated
		return s.audit.AppendTx(ctx, tx, audit.Record{
			IDUsuario:       ident.IDUsuario,
			IDGranja:        id,
			TablaAfectada:   audit.TablaGranjas,
			Accion:          audit.ActionUpdate,
			CampoModificado: "campos admin",
		})
	})
	if err != nil {
		return Granja{}, err
	}
	return out, nil
}

// Delete removes a granja. Delete permission equals edit permission.
func (s *Service) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	return utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		existing, err := getGranja(ctx, tx, id)
		if err != nil {
			return err
		}
		if !CanMutate(ident, existing) {
			return &ScopeError{IDGranja: id}
		}

		if err := deleteGranja(ctx, tx, id); err != nil {
			return err
		}
		return s.audit.AppendTx(ctx, tx, audit.Record{
			IDUsuario:     ident.IDUsuario,
			IDGranja:      id,
			TablaAfectada: audit.TablaGranjas,
			Accion:        audit.ActionDelete,
		})
	})
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// zeroIfNil keeps the headcount columns numeric: an omitted count is stored
// as 0, matching how the capture sheets treat blank cells.
func zeroIfNil(p *int) *int {
	if p == nil {
		zero := 0
		return &zero
	}
	return p
}
