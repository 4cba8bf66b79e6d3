package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreate_RejectsInvalidArgs(t *testing.T) {
	svc := NewService((*sql.DB)(nil))
	ctx := context.Background()

	cases := []CreateRequest{
		{Email: "a@b.mx", Password: "12345678", TipoUsuario: "captura"},                   // missing nombre
		{Nombre: "Ana", Password: "12345678", TipoUsuario: "captura"},                     // missing email
		{Nombre: "Ana", Email: "a@b.mx", Password: "corta", TipoUsuario: "captura"},       // short password
		{Nombre: "Ana", Email: "a@b.mx", Password: "12345678", TipoUsuario: "supervisor"}, // unknown role
	}
	for _, req := range cases {
		if _, err := svc.Create(ctx, req); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument for %+v, got %v", req, err)
		}
	}
}

func TestAuthenticate_VerifiesBcryptHash(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2pass"), bcrypt.MinCost)
	require.NoError(t, err)

	cols := []string{"id_usuario", "nombre", "email", "password_hash", "tipo_usuario", "asociaciones_permitidas", "activo", "fecha_creacion"}
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(cols).
			AddRow(int64(3), "Ana", "ana@example.com", string(hash), "captura", []byte(`["A1"]`), true, time.Now())
	}

	svc := NewService(db)

	mock.ExpectQuery(`SELECT .+ FROM usuarios WHERE email = \$1 AND activo = TRUE`).
		WithArgs("ana@example.com").
		WillReturnRows(row())

	u, err := svc.Authenticate(context.Background(), "Ana@Example.com ", "hunter2pass")
	require.NoError(t, err)
	require.Equal(t, int64(3), u.IDUsuario)
	require.Equal(t, []string{"A1"}, u.AsociacionesPermitidas)

	mock.ExpectQuery(`SELECT .+ FROM usuarios WHERE email = \$1 AND activo = TRUE`).
		WithArgs("ana@example.com").
		WillReturnRows(row())

	_, err = svc.Authenticate(context.Background(), "ana@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate_UnknownEmailIsInvalidCredentials(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM usuarios WHERE email = \$1 AND activo = TRUE`).
		WithArgs("nadie@example.com").
		WillReturnError(sql.ErrNoRows)

	svc := NewService(db)
	_, err = svc.Authenticate(context.Background(), "nadie@example.com", "whatever1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveIdentity_RejectsInactive(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id_usuario", "nombre", "email", "password_hash", "tipo_usuario", "asociaciones_permitidas", "activo", "fecha_creacion"}
	mock.ExpectQuery(`SELECT .+ FROM usuarios WHERE id_usuario = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(5), "Luis", "luis@example.com", "x", "captura", []byte(`[]`), false, time.Now()))

	svc := NewService(db)
	_, err = svc.ResolveIdentity(context.Background(), 5)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivate_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE usuarios SET activo = FALSE WHERE id_usuario = \$1`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	svc := NewService(db)
	require.ErrorIs(t, svc.Deactivate(context.Background(), 99), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
