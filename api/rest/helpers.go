package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeqr/server/hierarchy"
	"github.com/homeqr/server/schema"
)

// abortWithError maps service errors onto HTTP responses. Anything not in
// the taxonomy is a datastore failure and becomes a 500.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schema.ErrNotFound) || errors.Is(err, hierarchy.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, schema.ErrInvalidKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid field kind"})
	case errors.Is(err, schema.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
	case errors.Is(err, schema.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": "name already exists"})
	case errors.Is(err, hierarchy.ErrNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
