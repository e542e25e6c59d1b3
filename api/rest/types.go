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

// TypeHandler handles item-type catalog endpoints.
type TypeHandler struct {
	schema *schema.Service
	audit  *audit.Service
}

// NewTypeHandler creates a new TypeHandler. audit may be nil when auditing
// is disabled.
func NewTypeHandler(s *schema.Service, a *audit.Service) *TypeHandler {
	return &TypeHandler{schema: s, audit: a}
}

func (h *TypeHandler) logAudit(c *gin.Context, action string, typeID *int64, req interface{}, start time.Time, err error) {
	if h.audit == nil {
		return
	}
	entry := audit.Entry{
		TraceID:    mw.GetTraceID(c),
		Action:     action,
		TypeID:     typeID,
		Request:    req,
		IP:         c.ClientIP(),
		DurationMs: int(time.Since(start).Milliseconds()),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	h.audit.Log(entry)
}

type typeRequest struct {
	Name string `json:"name" binding:"required,min=1,max=64"`
}

// List handles GET /api/types.
func (h *TypeHandler) List(c *gin.Context) {
	types, err := h.schema.ListTypes(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

// Create handles POST /api/types.
func (h *TypeHandler) Create(c *gin.Context) {
	start := time.Now()
	var req typeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	typ, err := h.schema.CreateType(c.Request.Context(), req.Name)
	if err != nil {
		h.logAudit(c, "type_create", nil, req, start, err)
		abortWithError(c, err)
		return
	}
	h.logAudit(c, "type_create", &typ.ID, req, start, nil)
	c.JSON(http.StatusCreated, typ)
}

// Rename handles PUT /api/types/:id.
func (h *TypeHandler) Rename(c *gin.Context) {
	start := time.Now()
	typeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req typeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	typ, err := h.schema.RenameType(c.Request.Context(), typeID, req.Name)
	if err != nil {
		h.logAudit(c, "type_rename", &typeID, req, start, err)
		abortWithError(c, err)
		return
	}
	h.logAudit(c, "type_rename", &typeID, req, start, nil)
	c.JSON(http.StatusOK, typ)
}

// Delete handles DELETE /api/types/:id. Items keep existing with their type
// cleared; the fields and stored values of the type are gone for good.
func (h *TypeHandler) Delete(c *gin.Context) {
	start := time.Now()
	typeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.schema.DeleteType(c.Request.Context(), typeID); err != nil {
		h.logAudit(c, "type_delete", &typeID, nil, start, err)
		abortWithError(c, err)
		return
	}
	h.logAudit(c, "type_delete", &typeID, nil, start, nil)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// Fields handles GET /api/types/:id/fields.
func (h *TypeHandler) Fields(c *gin.Context) {
	typeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	fields, err := h.schema.ListFields(c.Request.Context(), typeID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": fields})
}
