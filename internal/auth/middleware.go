package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// IdentityResolver turns a verified token subject into a live Identity.
// Implemented by the usuarios service; it must reject inactive users.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID int64) (Identity, error)
}

// RequireUser verifies the bearer token, re-reads the caller's usuarios row
// and injects the Identity into request context. Row- and field-level
// permission checks stay in the granjas service; this only authenticates.
func RequireUser(m *Manager, resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tok := strings.TrimPrefix(raw, bearerPrefix)

		claims, err := m.Verify(tok, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ident, err := resolver.ResolveIdentity(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "usuario no encontrado"})
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), ident))

		// Also store on gin context for handler convenience.
		c.Set("user_id", ident.IDUsuario)
		c.Set("role", ident.TipoUsuario)

		c.Next()
	}
}
