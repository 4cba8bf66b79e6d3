package audit

import (
	"context"
	"database/sql"
	"errors"
)

// Recorder is the persistence contract for audit records.
//
// It MUST be append-only; no Update/Delete methods exist by design.
// AppendTx takes the caller's transaction so a mutation and its record
// commit atomically.
type Recorder interface {
	AppendTx(ctx context.Context, tx *sql.Tx, r Record) error
}

var ErrInvalidRecord = errors.New("audit: invalid record")

// SQLRepo appends records to the logs_cambios table.
type SQLRepo struct{}

func NewSQLRepo() *SQLRepo { return &SQLRepo{} }

func (SQLRepo) AppendTx(ctx context.Context, tx *sql.Tx, r Record) error {
	if err := validate(r); err != nil {
		return err
	}

	const q = `
INSERT INTO logs_cambios (id_usuario, id_granja, tabla_afectada, accion, campo_modificado)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := tx.ExecContext(ctx, q,
		r.IDUsuario,
		r.IDGranja,
		r.TablaAfectada,
		r.Accion,
		nullableString(r.CampoModificado),
	)
	return err
}

func validate(r Record) error {
	if r.IDUsuario == 0 || r.IDGranja == 0 {
		return ErrInvalidRecord
	}
	if r.TablaAfectada == "" {
		return ErrInvalidRecord
	}
	switch r.Accion {
	case ActionInsert, ActionUpdate, ActionDelete:
	default:
		return ErrInvalidRecord
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
