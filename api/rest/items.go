package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/homeqr/server/hierarchy"
	"github.com/homeqr/server/schema"
)

// ItemHandler handles item lifecycle endpoints.
type ItemHandler struct {
	schema *schema.Service
	hier   *hierarchy.Service
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(s *schema.Service, hier *hierarchy.Service) *ItemHandler {
	return &ItemHandler{schema: s, hier: hier}
}

type itemRequest struct {
	Name   string           `json:"name" binding:"required,min=1,max=128"`
	Qty    *int             `json:"qty"  binding:"omitempty,min=0"`
	Note   string           `json:"note"`
	TypeID *int64           `json:"type_id"`
	Values map[int64]string `json:"values"`
}

func (r itemRequest) input() schema.ItemInput {
	qty := 1
	if r.Qty != nil {
		qty = *r.Qty
	}
	return schema.ItemInput{
		Name:   r.Name,
		Qty:    qty,
		Note:   r.Note,
		TypeID: r.TypeID,
		Values: r.Values,
	}
}

// Create handles POST /api/containers/:id/items.
func (h *ItemHandler) Create(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.schema.CreateItem(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update handles PUT /api/containers/:id/items/:item_id. The item lookup is
// scoped to the container in the path.
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.schema.UpdateItem(c.Request.Context(), itemID, c.Param("id"), req.input())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/containers/:id/items/:item_id.
func (h *ItemHandler) Delete(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	if err := h.schema.DeleteItem(c.Request.Context(), itemID, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// Detail handles GET /api/items/:id — the item plus every field of its
// type, each with the stored value when one exists.
func (h *ItemHandler) Detail(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	item, fields, err := h.schema.ItemDetail(c.Request.Context(), itemID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "fields": fields})
}

type valuesRequest struct {
	ItemIDs []int64 `json:"item_ids" binding:"required"`
}

// Values handles POST /api/items/values — bulk fetch of stored values for
// many items at once, for list views.
func (h *ItemHandler) Values(c *gin.Context) {
	var req valuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	values, err := h.schema.ValuesForItems(c.Request.Context(), req.ItemIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"values": values})
}

type moveItemRequest struct {
	DestContainerID string `json:"dest_container_id" binding:"required"`
}

// Move handles POST /api/containers/:id/items/:item_id/move.
func (h *ItemHandler) Move(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req moveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.hier.MoveItem(c.Request.Context(), itemID, req.DestContainerID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "moved"})
}
