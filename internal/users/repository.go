package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// NOTE: This repository assumes the following table exists:
//
//   usuarios (
//     id_usuario BIGSERIAL PRIMARY KEY,
//     nombre TEXT NOT NULL,
//     email TEXT NOT NULL UNIQUE,
//     password_hash TEXT NOT NULL,
//     tipo_usuario TEXT NOT NULL,
//     asociaciones_permitidas JSONB NOT NULL DEFAULT '[]',
//     activo BOOLEAN NOT NULL DEFAULT TRUE,
//     fecha_creacion TIMESTAMPTZ NOT NULL
//   )

const userColumns = `id_usuario, nombre, email, password_hash, tipo_usuario, asociaciones_permitidas, activo, fecha_creacion`

// userRow carries the full row, including the password hash; only
// Authenticate inspects the hash, everything else converts to Usuario.
type userRow struct {
	Usuario
	PasswordHash string
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func scanUser(row *sql.Row) (userRow, error) {
	var u userRow
	var asociaciones []byte
	err := row.Scan(
		&u.IDUsuario,
		&u.Nombre,
		&u.Email,
		&u.PasswordHash,
		&u.TipoUsuario,
		&asociaciones,
		&u.Activo,
		&u.FechaCreacion,
	)
	if err != nil {
		return userRow{}, err
	}
	if len(asociaciones) > 0 {
		if err := json.Unmarshal(asociaciones, &u.AsociacionesPermitidas); err != nil {
			return userRow{}, err
		}
	}
	return u, nil
}

func getUserByID(ctx context.Context, q querier, id int64) (userRow, error) {
	const query = `SELECT ` + userColumns + ` FROM usuarios WHERE id_usuario = $1`
	u, err := scanUser(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return userRow{}, ErrNotFound
	}
	return u, err
}

func getActiveUserByEmail(ctx context.Context, q querier, email string) (userRow, error) {
	const query = `SELECT ` + userColumns + ` FROM usuarios WHERE email = $1 AND activo = TRUE`
	u, err := scanUser(q.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return userRow{}, ErrNotFound
	}
	return u, err
}

func insertUser(ctx context.Context, q querier, u userRow, now time.Time) (userRow, error) {
	asociaciones, err := json.Marshal(asociacionesOrEmpty(u.AsociacionesPermitidas))
	if err != nil {
		return userRow{}, err
	}

	const query = `
INSERT INTO usuarios (nombre, email, password_hash, tipo_usuario, asociaciones_permitidas, activo, fecha_creacion)
VALUES ($1, $2, $3, $4, $5, TRUE, $6)
RETURNING ` + userColumns
	return scanUser(q.QueryRowContext(ctx, query,
		u.Nombre,
		u.Email,
		u.PasswordHash,
		u.TipoUsuario,
		asociaciones,
		now,
	))
}

func listUsers(ctx context.Context, q querier) ([]Usuario, error) {
	const query = `SELECT ` + userColumns + ` FROM usuarios ORDER BY fecha_creacion DESC`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Usuario{}
	for rows.Next() {
		var u userRow
		var asociaciones []byte
		if err := rows.Scan(
			&u.IDUsuario,
			&u.Nombre,
			&u.Email,
			&u.PasswordHash,
			&u.TipoUsuario,
			&asociaciones,
			&u.Activo,
			&u.FechaCreacion,
		); err != nil {
			return nil, err
		}
		if len(asociaciones) > 0 {
			if err := json.Unmarshal(asociaciones, &u.AsociacionesPermitidas); err != nil {
				return nil, err
			}
		}
		out = append(out, u.Usuario)
	}
	return out, rows.Err()
}

func deactivateUser(ctx context.Context, q querier, id int64) error {
	const query = `UPDATE usuarios SET activo = FALSE WHERE id_usuario = $1`
	res, err := q.ExecContext(ctx, query, id)
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

func asociacionesOrEmpty(a []string) []string {
	if a == nil {
		return []string{}
	}
	return a
}
