package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"granjas-api/internal/audit"
	"granjas-api/internal/granjas"
	"granjas-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ListGranjas returns the caller's visible granjas, newest first, with the
// role-appropriate field projection applied per row.
func (h Handlers) ListGranjas(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		return
	}

	params := granjas.ListParams{
		Asociacion: c.Query("asociacion"),
		Municipio:  c.Query("municipio"),
	}
	var perr error
	if params.Skip, perr = queryInt(c, "skip", 0); perr != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "skip inválido"})
		return
	}
	if params.Limit, perr = queryInt(c, "limit", 0); perr != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit inválido"})
		return
	}

	out, err := h.Granjas.List(c.Request.Context(), ident, params)
	if err != nil {
		h.writeGranjaError(c, err)
		return
	}

	views := make([]any, 0, len(out))
	for _, g := range out {
		views = append(views, granjas.FilterForRead(g, ident))
	}
	c.JSON(http.StatusOK, views)
}

func (h Handlers) GetGranja(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "granja_id")
	if !ok {
		return
	}

	g, err := h.Granjas.Get(c.Request.Context(), ident, id)
	if err != nil {
		h.writeGranjaError(c, err)
		return
	}
	c.JSON(http.StatusOK, granjas.FilterForRead(g, ident))
}

func (h Handlers) CreateGranja(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		return
	}

	var req granjas.GranjaCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.Granjas.Create(c.Request.Context(), ident, req)
	if err != nil {
		h.writeGranjaError(c, err)
		return
	}
	h.Metrics.RecordMutation(string(audit.ActionInsert))
	// The response goes through the same projection as reads: a captura
	// creator never sees the admin-only fields back.
	c.JSON(http.StatusCreated, granjas.FilterForRead(g, ident))
}

func (h Handlers) UpdateGranja(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "granja_id")
	if !ok {
		return
	}

	var upd granjas.GranjaUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.Granjas.Update(c.Request.Context(), ident, id, &upd)
	if err != nil {
		h.writeGranjaError(c, err)
		return
	}
	h.Metrics.RecordMutation(string(audit.ActionUpdate))
	c.JSON(http.StatusOK, granjas.FilterForRead(g, ident))
}

func (h Handlers) UpdateGranjaAdmin(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "granja_id")
	if !ok {
		return
	}

	var upd granjas.GranjaAdminUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.Granjas.UpdateAdminFields(c.Request.Context(), ident, id, &upd)
	if err != nil {
		h.writeGranjaError(c, err)
		return
	}
	h.Metrics.RecordMutation(string(audit.ActionUpdate))
	c.JSON(http.StatusOK, granjas.FilterForRead(g, ident))
}

func (h Handlers) DeleteGranja(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "granja_id")
	if !ok {
		return
	}

	if err := h.Granjas.Delete(c.Request.Context(), ident, id); err != nil {
		h.writeGranjaError(c, err)
		return
	}
	h.Metrics.RecordMutation(string(audit.ActionDelete))
	c.JSON(http.StatusOK, gin.H{"mensaje": "granja eliminada correctamente"})
}

// writeGranjaError maps service errors to HTTP statuses. Permission failures
// all surface as 403 but are logged with their sub-case so scope violations
// and restricted-field writes stay distinguishable.
func (h Handlers) writeGranjaError(c *gin.Context, err error) {
	var rf *granjas.RestrictedFieldError
	var se *granjas.ScopeError
	var nf *granjas.NullFieldError

	switch {
	case errors.Is(err, granjas.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "granja no encontrada"})
	case errors.As(err, &nf):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": nf.Error()})
	case errors.As(err, &rf):
		logger.FromGin(c).Warn("restricted field write rejected", "campo", rf.Field)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": rf.Error()})
	case errors.As(err, &se):
		logger.FromGin(c).Warn("granja out of caller scope", "id_granja", se.IDGranja)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": se.Error()})
	case errors.Is(err, granjas.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, granjas.ErrEmptyUpdate):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": granjas.ErrEmptyUpdate.Error()})
	default:
		logger.FromGin(c).Error("granja operation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
	}
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(name + " inválido")
	}
	return n, nil
}
