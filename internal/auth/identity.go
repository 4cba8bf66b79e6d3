package auth

import (
	"context"
	"errors"
)

// Identity is the authenticated caller for the lifetime of one request.
// It is built by the auth middleware from the verified token plus a fresh
// read of the usuarios row, then treated as immutable.
//
// Role semantics (admin bypass, association scoping) are interpreted by
// internal/rbac and the granjas policies, not here.
type Identity struct {
	IDUsuario   int64
	Email       string
	TipoUsuario string

	// AsociacionesPermitidas scopes captura users to their associations.
	// Ignored for admin; admin sees every row.
	AsociacionesPermitidas []string
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, ident)
}

func IdentityFrom(ctx context.Context) (Identity, error) {
	if v, ok := ctx.Value(ctxKey{}).(Identity); ok && v.IDUsuario != 0 {
		return v, nil
	}
	return Identity{}, errors.New("identity not in context")
}
