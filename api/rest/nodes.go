package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeqr/server/hierarchy"
	"github.com/homeqr/server/qr"
)

// NodeHandler handles storage-node endpoints.
type NodeHandler struct {
	hier  *hierarchy.Service
	qrgen *qr.Generator
}

// NewNodeHandler creates a new NodeHandler.
func NewNodeHandler(hier *hierarchy.Service, qrgen *qr.Generator) *NodeHandler {
	return &NodeHandler{hier: hier, qrgen: qrgen}
}

type nodeRequest struct {
	Type     string  `json:"type"      binding:"required"`
	Name     string  `json:"name"      binding:"required,min=1,max=128"`
	ParentID *string `json:"parent_id"`
	Note     string  `json:"note"`
}

// List handles GET /api/nodes — the top-level cabinets and wardrobes.
func (h *NodeHandler) List(c *gin.Context) {
	top, err := h.hier.TopNodes(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": top})
}

// Create handles POST /api/nodes.
func (h *NodeHandler) Create(c *gin.Context) {
	var req nodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	node, err := h.hier.CreateNode(c.Request.Context(), req.Type, req.Name, req.ParentID, req.Note)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

// Detail handles GET /api/nodes/:id — the node with its parent, child
// nodes and containers.
func (h *NodeHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	node, err := h.hier.GetNode(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	var parent interface{}
	if node.ParentID != nil {
		if p, err := h.hier.GetNode(ctx, *node.ParentID); err == nil {
			parent = p
		}
	}
	children, err := h.hier.NodeChildren(ctx, node.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	containers, err := h.hier.NodeContainers(ctx, node.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"node":       node,
		"parent":     parent,
		"children":   children,
		"containers": containers,
	})
}

// Delete handles DELETE /api/nodes/:id. The whole subtree goes: child
// nodes, containers, items, values — and the label files of the deleted
// containers.
func (h *NodeHandler) Delete(c *gin.Context) {
	containerIDs, parentID, err := h.hier.DeleteNode(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	for _, id := range containerIDs {
		h.qrgen.RemoveLabel(id)
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted", "parent_id": parentID})
}
