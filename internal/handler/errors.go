package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/comparathor/backend/internal/service"
	"github.com/gin-gonic/gin"
)

// writeServiceError maps service failures to HTTP statuses. Anything
// unexpected is logged with context and reduced to a generic 500 body.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
	case errors.Is(err, service.ErrDuplicateRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "role already exists"})
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
	default:
		log.Printf("[API] Unexpected error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := parseInt64(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
