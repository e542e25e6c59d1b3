package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeqr/server/hierarchy"
	"github.com/homeqr/server/qr"
	"go.uber.org/zap"
)

// ContainerHandler handles container endpoints, including QR labels.
type ContainerHandler struct {
	hier   *hierarchy.Service
	qrgen  *qr.Generator
	logger *zap.Logger
}

// NewContainerHandler creates a new ContainerHandler.
func NewContainerHandler(hier *hierarchy.Service, qrgen *qr.Generator, logger *zap.Logger) *ContainerHandler {
	return &ContainerHandler{hier: hier, qrgen: qrgen, logger: logger}
}

type containerRequest struct {
	Type     string `json:"type"      binding:"required"`
	Name     string `json:"name"      binding:"required,min=1,max=128"`
	ParentID string `json:"parent_id" binding:"required"`
	Note     string `json:"note"`
}

// Create handles POST /api/containers. A label PNG is written as a side
// effect; a failed write is logged but never fails the create.
func (h *ContainerHandler) Create(c *gin.Context) {
	var req containerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	container, err := h.hier.CreateContainer(c.Request.Context(), req.Type, req.Name, req.ParentID, req.Note)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := h.qrgen.SaveLabel(c.Request.Context(), container.ID, container.Name); err != nil {
		h.logger.Warn("qr label save failed",
			zap.String("container_id", container.ID), zap.Error(err))
	}
	c.JSON(http.StatusCreated, container)
}

// Detail handles GET /api/containers/:id — the container, its placement
// and its items.
func (h *ContainerHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	container, err := h.hier.GetContainer(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	parent, err := h.hier.GetNode(ctx, container.ParentID)
	if err != nil && !errors.Is(err, hierarchy.ErrNotFound) {
		abortWithError(c, err)
		return
	}
	var top interface{}
	if parent != nil && parent.ParentID != nil {
		if t, err := h.hier.GetNode(ctx, *parent.ParentID); err == nil {
			top = t
		}
	}
	items, err := h.hier.ContainerItems(ctx, container.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"container": container,
		"parent":    parent,
		"top":       top,
		"items":     items,
	})
}

// QRPNG handles GET /api/containers/:id/qr.png — the printable label,
// rendered fresh or from cache, never browser-cached.
func (h *ContainerHandler) QRPNG(c *gin.Context) {
	container, err := h.hier.GetContainer(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	data, err := h.qrgen.LabelPNG(c.Request.Context(), container.ID, container.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store, max-age=0")
	c.Data(http.StatusOK, "image/png", data)
}

// RefreshQR handles POST /api/containers/:id/qr/refresh — re-renders the
// label file after a rename.
func (h *ContainerHandler) RefreshQR(c *gin.Context) {
	container, err := h.hier.GetContainer(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.qrgen.SaveLabel(c.Request.Context(), container.ID, container.Name); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refreshed"})
}

type moveContainerRequest struct {
	DestParentID string `json:"dest_parent_id" binding:"required"`
}

// Move handles POST /api/containers/:id/move — re-parents the container
// onto another shelf or drawer, subject to the placement rules.
func (h *ContainerHandler) Move(c *gin.Context) {
	var req moveContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.hier.MoveContainer(c.Request.Context(), c.Param("id"), req.DestParentID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "moved"})
}

// Delete handles DELETE /api/containers/:id.
func (h *ContainerHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	parentID, err := h.hier.DeleteContainer(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.qrgen.RemoveLabel(id)
	c.JSON(http.StatusOK, gin.H{"message": "deleted", "parent_id": parentID})
}
