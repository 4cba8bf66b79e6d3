package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"granjas-api/internal/auth"
	"granjas-api/internal/granjas"
	"granjas-api/internal/metrics"
	"granjas-api/internal/users"
	"granjas-api/pkg/logger"
	"granjas-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth    *auth.Manager
	Limiter *auth.LoginLimiter
	Users   *users.Service
	Granjas *granjas.Service
	Metrics *metrics.Set

	// DB is only used by the health endpoint.
	DB *sql.DB
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login validates credentials and issues an access token. Failed attempts
// count against a per-email fixed window; a success resets it.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email y password son requeridos"})
		return
	}

	if !h.Limiter.Allow(c.Request.Context(), req.Email) {
		h.Metrics.RecordLogin("throttled")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "demasiados intentos, intente más tarde"})
		return
	}

	u, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			h.Metrics.RecordLogin("rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "credenciales incorrectas"})
			return
		}
		logger.FromGin(c).Error("login failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}

	token, err := h.Auth.Issue(time.Now(), u.IDUsuario, u.Email)
	if err != nil {
		logger.FromGin(c).Error("token issuance failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}

	h.Limiter.Reset(c.Request.Context(), req.Email)
	h.Metrics.RecordLogin("ok")
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"tipo_usuario": u.TipoUsuario,
	})
}

// --- Health ---

func (h Handlers) Health(c *gin.Context) {
	if err := utils.HealthCheck(c.Request.Context(), h.DB, 2*time.Second); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
}

// --- Usuarios (admin-only at the route layer) ---

func (h Handlers) CreateUsuario(c *gin.Context) {
	var req users.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.Users.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "email ya registrado"})
		case errors.Is(err, users.ErrInvalidArgument):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "datos de usuario inválidos"})
		default:
			logger.FromGin(c).Error("create usuario failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		}
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h Handlers) ListUsuarios(c *gin.Context) {
	out, err := h.Users.List(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("list usuarios failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) GetUsuario(c *gin.Context) {
	id, ok := pathID(c, "usuario_id")
	if !ok {
		return
	}
	u, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "usuario no encontrado"})
			return
		}
		logger.FromGin(c).Error("get usuario failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h Handlers) DeactivateUsuario(c *gin.Context) {
	id, ok := pathID(c, "usuario_id")
	if !ok {
		return
	}
	if err := h.Users.Deactivate(c.Request.Context(), id); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "usuario no encontrado"})
			return
		}
		logger.FromGin(c).Error("deactivate usuario failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "usuario desactivado"})
}

// --- helpers ---

// identity pulls the authenticated caller or aborts with 401. The auth
// middleware always sets it on protected routes; the guard covers misuse.
func identity(c *gin.Context) (auth.Identity, bool) {
	ident, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return auth.Identity{}, false
	}
	return ident, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": name + " inválido"})
		return 0, false
	}
	return id, true
}
