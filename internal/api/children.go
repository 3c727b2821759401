package api

import (
	"github.com/gin-gonic/gin"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

// =============================================================================
// RECORD LIST ENDPOINTS
// =============================================================================

// ListRecordLists returns the record lists of an entity
// GET /api/v1/meta/entity/:entity/list
func (h *Handler) ListRecordLists(c *gin.Context) {
	ctx := c.Request.Context()
	if id, name := parseRef(c, "entity"); name == "" {
		respond(c, h.manager.ReadRecordLists(ctx, id))
	} else {
		respond(c, h.manager.ReadRecordListsByName(ctx, name))
	}
}

// recordListFor reads the list addressed by :item on entity
func (h *Handler) recordListFor(c *gin.Context, entity *models.Entity) *models.RecordListResponse {
	if id, name := parseRef(c, "item"); name == "" {
		return h.manager.ReadRecordList(c.Request.Context(), entity.ID, id)
	}
	return h.manager.ReadRecordListByName(c.Request.Context(), entity.Name, c.Param("item"))
}

// GetRecordList returns one record list
// GET /api/v1/meta/entity/:entity/list/:item
func (h *Handler) GetRecordList(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	respond(c, h.recordListFor(c, entity))
}

// CreateRecordList adds a record list to an entity
// POST /api/v1/meta/entity/:entity/list
func (h *Handler) CreateRecordList(c *gin.Context) {
	var input models.RecordList
	if !bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()
	if id, name := parseRef(c, "entity"); name == "" {
		respond(c, h.manager.CreateRecordList(ctx, id, &input))
	} else {
		respond(c, h.manager.CreateRecordListByName(ctx, name, &input))
	}
}

// UpdateRecordList replaces a record list
// PUT /api/v1/meta/entity/:entity/list/:item
func (h *Handler) UpdateRecordList(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	current := h.recordListFor(c, entity)
	if !current.Success {
		respond(c, current)
		return
	}
	var input models.RecordList
	if !bindJSON(c, &input) {
		return
	}
	input.ID = current.Object.ID
	respond(c, h.manager.UpdateRecordList(c.Request.Context(), entity.ID, &input))
}

// DeleteRecordList removes a record list
// DELETE /api/v1/meta/entity/:entity/list/:item
func (h *Handler) DeleteRecordList(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	current := h.recordListFor(c, entity)
	if !current.Success {
		respond(c, current)
		return
	}
	respond(c, h.manager.DeleteRecordList(c.Request.Context(), entity.ID, current.Object.ID))
}

// ListAllRecordLists returns the record lists of every entity
// GET /api/v1/meta/list
func (h *Handler) ListAllRecordLists(c *gin.Context) {
	respond(c, h.manager.ReadAllRecordLists(c.Request.Context()))
}

// =============================================================================
// RECORD VIEW ENDPOINTS
// =============================================================================

// ListRecordViews returns the record views of an entity
// GET /api/v1/meta/entity/:entity/view
func (h *Handler) ListRecordViews(c *gin.Context) {
	ctx := c.Request.Context()
	if id, name := parseRef(c, "entity"); name == "" {
		respond(c, h.manager.ReadRecordViews(ctx, id))
	} else {
		respond(c, h.manager.ReadRecordViewsByName(ctx, name))
	}
}

// recordViewFor reads the view addressed by :item on entity
func (h *Handler) recordViewFor(c *gin.Context, entity *models.Entity) *models.RecordViewResponse {
	if id, name := parseRef(c, "item"); name == "" {
		return h.manager.ReadRecordView(c.Request.Context(), entity.ID, id)
	}
	return h.manager.ReadRecordViewByName(c.Request.Context(), entity.Name, c.Param("item"))
}

// GetRecordView returns one record view
// GET /api/v1/meta/entity/:entity/view/:item
func (h *Handler) GetRecordView(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	respond(c, h.recordViewFor(c, entity))
}

// CreateRecordView adds a record view to an entity
// POST /api/v1/meta/entity/:entity/view
func (h *Handler) CreateRecordView(c *gin.Context) {
	var input models.RecordView
	if !bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()
	if id, name := parseRef(c, "entity"); name == "" {
		respond(c, h.manager.CreateRecordView(ctx, id, &input))
	} else {
		respond(c, h.manager.CreateRecordViewByName(ctx, name, &input))
	}
}

// UpdateRecordView replaces a record view
// PUT /api/v1/meta/entity/:entity/view/:item
func (h *Handler) UpdateRecordView(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	current := h.recordViewFor(c, entity)
	if !current.Success {
		respond(c, current)
		return
	}
	var input models.RecordView
	if !bindJSON(c, &input) {
		return
	}
	input.ID = current.Object.ID
	respond(c, h.manager.UpdateRecordView(c.Request.Context(), entity.ID, &input))
}

// DeleteRecordView removes a record view
// DELETE /api/v1/meta/entity/:entity/view/:item
func (h *Handler) DeleteRecordView(c *gin.Context) {
	entity, ok := h.entityFor(c)
	if !ok {
		return
	}
	current := h.recordViewFor(c, entity)
	if !current.Success {
		respond(c, current)
		return
	}
	respond(c, h.manager.DeleteRecordView(c.Request.Context(), entity.ID, current.Object.ID))
}

// ListAllRecordViews returns the record views of every entity
// GET /api/v1/meta/view
func (h *Handler) ListAllRecordViews(c *gin.Context) {
	respond(c, h.manager.ReadAllRecordViews(c.Request.Context()))
}

// =============================================================================
// RELATION ENDPOINTS
// =============================================================================

// ListRelations returns every relation
// GET /api/v1/meta/relation
func (h *Handler) ListRelations(c *gin.Context) {
	respond(c, h.manager.ReadRelations(c.Request.Context()))
}

func (h *Handler) readRelation(c *gin.Context) *models.RelationResponse {
	if id, name := parseRef(c, "relation"); name == "" {
		return h.manager.ReadRelation(c.Request.Context(), id)
	}
	return h.manager.ReadRelationByName(c.Request.Context(), c.Param("relation"))
}

// GetRelation returns one relation by id or name
// GET /api/v1/meta/relation/:relation
func (h *Handler) GetRelation(c *gin.Context) {
	respond(c, h.readRelation(c))
}

// CreateRelation registers a relation between two entities
// POST /api/v1/meta/relation
func (h *Handler) CreateRelation(c *gin.Context) {
	var input models.EntityRelation
	if !bindJSON(c, &input) {
		return
	}
	respond(c, h.manager.CreateRelation(c.Request.Context(), &input))
}

// DeleteRelation removes a relation nothing goes through
// DELETE /api/v1/meta/relation/:relation
func (h *Handler) DeleteRelation(c *gin.Context) {
	current := h.readRelation(c)
	if !current.Success {
		respond(c, current)
		return
	}
	respond(c, h.manager.DeleteRelation(c.Request.Context(), current.Object.ID))
}
