package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/homeqr/server/audit"
	mw "github.com/homeqr/server/middleware"
	"github.com/homeqr/server/schema"
)

// FieldHandler handles field-catalog endpoints.
type FieldHandler struct {
	schema *schema.Service
	audit  *audit.Service
}

// NewFieldHandler creates a new FieldHandler. audit may be nil.
func NewFieldHandler(s *schema.Service, a *audit.Service) *FieldHandler {
	return &FieldHandler{schema: s, audit: a}
}

func (h *FieldHandler) logAudit(c *gin.Context, action string, typeID, fieldID *int64, req interface{}, start time.Time, err error) {
	if h.audit == nil {
		return
	}
	entry := audit.Entry{
		TraceID:    mw.GetTraceID(c),
		Action:     action,
		TypeID:     typeID,
		FieldID:    fieldID,
		Request:    req,
		IP:         c.ClientIP(),
		DurationMs: int(time.Since(start).Milliseconds()),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	h.audit.Log(entry)
}

type fieldRequest struct {
	Label       string `json:"label"        binding:"required,min=1,max=128"`
	Kind        string `json:"kind"         binding:"required"`
	Required    bool   `json:"required"`
	OptionsText string `json:"options_text"`
	Key         string `json:"key"`
	OrderIndex  int    `json:"order_index"`
}

func (r fieldRequest) input() schema.FieldInput {
	return schema.FieldInput{
		Label:       r.Label,
		Kind:        r.Kind,
		Required:    r.Required,
		OptionsText: r.OptionsText,
		Key:         r.Key,
	}
}

// Create handles POST /api/types/:id/fields.
func (h *FieldHandler) Create(c *gin.Context) {
	start := time.Now()
	typeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	field, err := h.schema.CreateField(c.Request.Context(), typeID, req.input())
	if err != nil {
		h.logAudit(c, "field_create", &typeID, nil, req, start, err)
		abortWithError(c, err)
		return
	}
	h.logAudit(c, "field_create", &typeID, &field.ID, req, start, nil)
	c.JSON(http.StatusCreated, field)
}

// Update handles PUT /api/types/:id/fields/:field_id.
func (h *FieldHandler) Update(c *gin.Context) {
	start := time.Now()
	typeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	fieldID, err := strconv.ParseInt(c.Param("field_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid field id"})
		return
	}
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	field, err := h.schema.UpdateField(c.Request.Context(), fieldID, typeID, req.input(), req.OrderIndex)
	if err != nil {
		h.logAudit(c, "field_update", &typeID, &fieldID, req, start, err)
		abortWithError(c, err)
		return
	}
	h.logAudit(c, "field_update", &typeID, &fieldID, req, start, nil)
	c.JSON(http.StatusOK, field)
}

// Delete handles DELETE /api/fields/:id.
func (h *FieldHandler) Delete(c *gin.Context) {
	start := time.Now()
	fieldID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.schema.DeleteField(c.Request.Context(), fieldID); err != nil {
		h.logAudit(c, "field_delete", nil, &fieldID, nil, start, err)
		abortWithError(c, err)
		return
	}
	h.logAudit(c, "field_delete", nil, &fieldID, nil, start, nil)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type reorderRequest struct {
	FieldIDs []int64 `json:"field_ids"`
}

// Reorder handles POST /api/types/:id/fields/reorder. Ids that no longer
// belong to the type are skipped; only a payload that is not an id list at
// all is rejected.
func (h *FieldHandler) Reorder(c *gin.Context) {
	start := time.Now()
	typeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logAudit(c, "fields_reorder", &typeID, nil, nil, start, schema.ErrInvalidPayload)
		abortWithError(c, schema.ErrInvalidPayload)
		return
	}

	if err := h.schema.ReorderFields(c.Request.Context(), typeID, req.FieldIDs); err != nil {
		h.logAudit(c, "fields_reorder", &typeID, nil, req, start, err)
		abortWithError(c, err)
		return
	}
	h.logAudit(c, "fields_reorder", &typeID, nil, req, start, nil)
	c.JSON(http.StatusOK, gin.H{"message": "reordered"})
}
