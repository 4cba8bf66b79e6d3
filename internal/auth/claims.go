package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const TokenTypeAccess TokenType = "access"

// Claims are the only supported JWT claims shape for this service.
// Tokens intentionally carry no role or association grants: the middleware
// re-reads the usuarios row on every request, so revoking a grant or
// deactivating a user takes effect immediately instead of at token expiry.
type Claims struct {
	jwt.RegisteredClaims

	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	TokenType TokenType `json:"token_type"`
}
