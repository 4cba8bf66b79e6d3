package rbac

// Role names. Keep these stable; they are persisted in usuarios.tipo_usuario
// and embedded in issued tokens.
const (
	RoleAdmin   = "admin"
	RoleCaptura = "captura"
)

func IsAdmin(role string) bool { return role == RoleAdmin }

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCaptura:
		return true
	default:
		return false
	}
}
