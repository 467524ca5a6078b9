package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomvoice/feedback_backend/stores"
)

// respondError maps store errors onto the HTTP taxonomy. Every error body
// carries a machine-readable kind next to the human text.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, stores.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "not_found"})
	case errors.Is(err, stores.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "conflict"})
	case errors.Is(err, stores.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
	case errors.Is(err, stores.ErrTokenSpaceExhausted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "conflict"})
	case errors.Is(err, stores.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable", "kind": "unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "kind": "internal"})
	}
}
