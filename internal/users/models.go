package users

import "time"

// Usuario is an account of the association's capture staff or an
// administrator. The password hash never leaves this package.
type Usuario struct {
	IDUsuario   int64  `json:"id_usuario" db:"id_usuario"`
	Nombre      string `json:"nombre" db:"nombre"`
	Email       string `json:"email" db:"email"`
	TipoUsuario string `json:"tipo_usuario" db:"tipo_usuario"`

	// AsociacionesPermitidas is the row-scoping grant list for captura
	// users. Stored as JSONB.
	AsociacionesPermitidas []string `json:"asociaciones_permitidas" db:"asociaciones_permitidas"`

	Activo        bool      `json:"activo" db:"activo"`
	FechaCreacion time.Time `json:"fecha_creacion" db:"fecha_creacion"`
}

// CreateRequest is the admin-facing payload for registering a user.
type CreateRequest struct {
	Nombre                 string   `json:"nombre" binding:"required"`
	Email                  string   `json:"email" binding:"required,email"`
	Password               string   `json:"password" binding:"required,min=8"`
	TipoUsuario            string   `json:"tipo_usuario" binding:"required,oneof=admin captura"`
	AsociacionesPermitidas []string `json:"asociaciones_permitidas"`
}
