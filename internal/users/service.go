package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"granjas-api/internal/auth"
	"granjas-api/internal/rbac"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("usuario no encontrado")
	ErrInvalidCredentials = errors.New("credenciales incorrectas")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrEmailTaken         = errors.New("email ya registrado")
)

// Service manages usuarios accounts and doubles as the identity provider
// for the auth middleware.
type Service struct {
	db    *sql.DB
	clock func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

// Create registers a user. Admin-only at the route layer.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Usuario, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Nombre == "" || req.Email == "" {
		return Usuario{}, ErrInvalidArgument
	}
	if len(req.Password) < 8 {
		return Usuario{}, ErrInvalidArgument
	}
	if !rbac.IsValidRole(req.TipoUsuario) {
		return Usuario{}, ErrInvalidArgument
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Usuario{}, err
	}

	row, err := insertUser(ctx, s.db, userRow{
		Usuario: Usuario{
			Nombre:                 req.Nombre,
			Email:                  req.Email,
			TipoUsuario:            req.TipoUsuario,
			AsociacionesPermitidas: req.AsociacionesPermitidas,
		},
		PasswordHash: string(hash),
	}, s.clock().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return Usuario{}, ErrEmailTaken
		}
		return Usuario{}, err
	}
	return row.Usuario, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Usuario, error) {
	if id <= 0 {
		return Usuario{}, ErrInvalidArgument
	}
	row, err := getUserByID(ctx, s.db, id)
	if err != nil {
		return Usuario{}, err
	}
	return row.Usuario, nil
}

func (s *Service) List(ctx context.Context) ([]Usuario, error) {
	return listUsers(ctx, s.db)
}

// Deactivate marks a user inactive. Their tokens stop resolving on the next
// request because the middleware re-reads the row.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidArgument
	}
	return deactivateUser(ctx, s.db, id)
}

// Authenticate verifies email+password against the stored bcrypt hash.
// Inactive users fail identically to unknown emails.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Usuario, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Usuario{}, ErrInvalidCredentials
	}

	row, err := getActiveUserByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Usuario{}, ErrInvalidCredentials
		}
		return Usuario{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return Usuario{}, ErrInvalidCredentials
	}
	return row.Usuario, nil
}

// ResolveIdentity implements auth.IdentityResolver. It rejects unknown and
// deactivated users so a stale token cannot outlive its account.
func (s *Service) ResolveIdentity(ctx context.Context, userID int64) (auth.Identity, error) {
	row, err := getUserByID(ctx, s.db, userID)
	if err != nil {
		return auth.Identity{}, err
	}
	if !row.Activo {
		return auth.Identity{}, ErrNotFound
	}
	return auth.Identity{
		IDUsuario:              row.IDUsuario,
		Email:                  row.Email,
		TipoUsuario:            row.TipoUsuario,
		AsociacionesPermitidas: row.AsociacionesPermitidas,
	}, nil
}

// isUniqueViolation matches Postgres unique_violation (23505) on the
// usuarios email index.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
