// Package api exposes the entity metadata manager over HTTP
package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/auth"
	"github.com/railsuser2014/WebVella-ERP/internal/engine"
	apperrors "github.com/railsuser2014/WebVella-ERP/internal/errors"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

// Handler contains all meta API handlers
type Handler struct {
	manager *engine.EntityManager
	tokens  *auth.JWTService
	logger  *slog.Logger
}

// NewHandler creates a new API handler
func NewHandler(manager *engine.EntityManager, tokens *auth.JWTService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		manager: manager,
		tokens:  tokens,
		logger:  logger.With("component", "api"),
	}
}

// respond writes an envelope: 200 when it succeeded, 400 otherwise
func respond[T any](c *gin.Context, resp *models.Response[T]) {
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, resp)
}

// parseRef reads a path parameter that holds either an id or a name
func parseRef(c *gin.Context, param string) (uuid.UUID, string) {
	v := c.Param(param)
	if id, err := uuid.Parse(v); err == nil {
		return id, ""
	}
	return uuid.Nil, v
}

// bindJSON decodes the body into dst and answers 400 on failure
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWith(c, apperrors.NewBadRequestError("invalid request body: "+err.Error()))
		return false
	}
	return true
}

// entityFor reads the entity addressed by the :entity parameter. On failure
// the envelope has already been written.
func (h *Handler) entityFor(c *gin.Context) (*models.Entity, bool) {
	var resp *models.EntityResponse
	if id, name := parseRef(c, "entity"); name == "" {
		resp = h.manager.ReadEntity(c.Request.Context(), id)
	} else {
		resp = h.manager.ReadEntityByName(c.Request.Context(), name)
	}
	if !resp.Success {
		respond(c, resp)
		return nil, false
	}
	return resp.Object, true
}

// Health reports that the server is up
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// =============================================================================
// ENTITY ENDPOINTS
// =============================================================================

// ListEntities returns every entity
// GET /api/v1/meta/entity
func (h *Handler) ListEntities(c *gin.Context) {
	respond(c, h.manager.ReadEntities(c.Request.Context()))
}

// GetEntity returns one entity by id or name
// GET /api/v1/meta/entity/:entity
func (h *Handler) GetEntity(c *gin.Context) {
	if id, name := parseRef(c, "entity"); name == "" {
		respond(c, h.manager.ReadEntity(c.Request.Context(), id))
	} else {
		respond(c, h.manager.ReadEntityByName(c.Request.Context(), name))
	}
}

// CreateEntity creates an entity with its default fields
// POST /api/v1/meta/entity
func (h *Handler) CreateEntity(c *gin.Context) {
	var input models.Entity
	if !bindJSON(c, &input) {
		return
	}
	respond(c, h.manager.CreateEntity(c.Request.Context(), &input))
}

// UpdateEntity replaces the descriptive attributes of an entity
// PATCH /api/v1/meta/entity/:entity
func (h *Handler) UpdateEntity(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	var input models.Entity
	if !bindJSON(c, &input) {
		return
	}
	input.ID = entity.ID
	respond(c, h.manager.UpdateEntity(c.Request.Context(), &input))
}

// DeleteEntity deletes an entity
// DELETE /api/v1/meta/entity/:entity
func (h *Handler) DeleteEntity(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	respond(c, h.manager.DeleteEntity(c.Request.Context(), entity.ID))
}

// GetEntityPermissions returns what the caller may do with the entity's records
// GET /api/v1/meta/entity/:entity/permissions
func (h *Handler) GetEntityPermissions(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	var roles []uuid.UUID
	if claims := claimsFrom(c); claims != nil {
		roles = claims.Roles
	}
	c.JSON(http.StatusOK, auth.PermissionsFor(entity, roles))
}

// =============================================================================
// FIELD ENDPOINTS
// =============================================================================

// fieldFor resolves the :item parameter to a field of entity
func (h *Handler) fieldFor(c *gin.Context, entity *models.Entity) (uuid.UUID, bool) {
	id, name := parseRef(c, "item")
	if name != "" {
		f := entity.FieldByName(name)
		if f == nil {
			resp := models.NewResponse[models.Field]()
			resp.Success = false
			resp.Message = "Field with such Name does not exist!"
			resp.Errors = append(resp.Errors, models.NewError("id", name, resp.Message))
			respond(c, resp)
			return uuid.Nil, false
		}
		id = f.Common().ID
	}
	return id, true
}

// decodeField reads a field body carrying its kind
func decodeField(c *gin.Context) (models.Field, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWith(c, apperrors.NewBadRequestError("failed to read request body"))
		return nil, false
	}
	field, err := models.DecodeField(body)
	if err != nil {
		abortWith(c, apperrors.NewBadRequestError(err.Error()))
		return nil, false
	}
	return field, true
}

// ListFields returns the fields of an entity
// GET /api/v1/meta/entity/:entity/field
func (h *Handler) ListFields(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	respond(c, h.manager.ReadFields(c.Request.Context(), entity.ID))
}

// GetField returns one field by id or name
// GET /api/v1/meta/entity/:entity/field/:item
func (h *Handler) GetField(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	fieldID, ok := h.fieldFor(c, entity)
	if !ok {
		return
	}
	respond(c, h.manager.ReadField(c.Request.Context(), entity.ID, fieldID))
}

// CreateField adds a field and its record column
// POST /api/v1/meta/entity/:entity/field
func (h *Handler) CreateField(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	field, ok := decodeField(c)
	if !ok {
		return
	}
	respond(c, h.manager.CreateField(c.Request.Context(), entity.ID, field, true))
}

// UpdateField replaces a field of the same kind
// PUT /api/v1/meta/entity/:entity/field/:item
func (h *Handler) UpdateField(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	fieldID, ok := h.fieldFor(c, entity)
	if !ok {
		return
	}
	field, ok := decodeField(c)
	if !ok {
		return
	}
	field.Common().ID = fieldID
	respond(c, h.manager.UpdateField(c.Request.Context(), entity.ID, field))
}

// DeleteField removes a field and its record column
// DELETE /api/v1/meta/entity/:entity/field/:item
func (h *Handler) DeleteField(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	fieldID, ok := h.fieldFor(c, entity)
	if !ok {
		return
	}
	respond(c, h.manager.DeleteField(c.Request.Context(), entity.ID, fieldID, true))
}
