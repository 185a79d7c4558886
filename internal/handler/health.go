package handler

import (
	"net/http"

	"github.com/comparathor/backend/internal/model"
	"github.com/gin-gonic/gin"
)

// Health check endpoint.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.StatusResponse{Status: "ok"})
}

// Root endpoint.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Comparathor API is running",
	})
}
