package main

import (
	"granjas-api/internal/httpapi"
	"granjas-api/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc) {
	// public
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"servicio": "granjas-api", "estado": "ok"})
	})
	r.GET("/api/health", h.Health)
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	r.POST("/api/auth/login", h.Login)

	// protected API group; every route re-reads the caller's usuarios row
	api := r.Group("/api")
	api.Use(authMW)
	{
		granjas := api.Group("/granjas")
		{
			granjas.GET("", h.ListGranjas)
			granjas.POST("", h.CreateGranja)
			granjas.GET("/:granja_id", h.GetGranja)
			granjas.PUT("/:granja_id", h.UpdateGranja)
			granjas.PUT("/:granja_id/admin", h.UpdateGranjaAdmin)
			granjas.DELETE("/:granja_id", h.DeleteGranja)
		}

		// usuarios management is admin-only at the route layer
		usuarios := api.Group("/usuarios")
		usuarios.Use(rbac.RequireAdmin())
		{
			usuarios.GET("", h.ListUsuarios)
			usuarios.POST("", h.CreateUsuario)
			usuarios.GET("/:usuario_id", h.GetUsuario)
			usuarios.DELETE("/:usuario_id", h.DeactivateUsuario)
		}
	}
}
