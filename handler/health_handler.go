package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler interface {
	HandleRoot(c *gin.Context)
	HandleHealthz(c *gin.Context)
}

type healthHandler struct {
	message string
}

// NewHealthHandler creates the health endpoints. The message identifies
// which of the front-ends is answering.
func NewHealthHandler(message string) HealthHandler {
	return &healthHandler{message: message}
}

func (h *healthHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.message})
}

func (h *healthHandler) HandleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
