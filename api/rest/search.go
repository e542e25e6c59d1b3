package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeqr/server/hierarchy"
)

// SearchHandler handles the global search endpoint.
type SearchHandler struct {
	hier *hierarchy.Service
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(hier *hierarchy.Service) *SearchHandler {
	return &SearchHandler{hier: hier}
}

// Search handles GET /api/search?q= — containers matched by name, type,
// placement or the items inside them.
func (h *SearchHandler) Search(c *gin.Context) {
	q := c.Query("q")
	hits, err := h.hier.Search(c.Request.Context(), q)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if hits == nil {
		hits = []hierarchy.SearchHit{}
	}
	c.JSON(http.StatusOK, gin.H{"q": q, "results": hits})
}
