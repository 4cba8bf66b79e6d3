package rbac

import (
	"net/http"

	"granjas-api/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireAdmin gates routes that only administrators may reach, such as user
// management. Granja-level checks (association scoping, the three admin-only
// fields) stay in the granjas service; this is route-level RBAC only.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, err := auth.IdentityFrom(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
			return
		}
		if !IsAdmin(ident.TipoUsuario) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "se requieren permisos de administrador"})
			return
		}
		c.Next()
	}
}
