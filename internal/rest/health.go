package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kjanuda/Blogme/api"
	"github.com/kjanuda/Blogme/shared/db"
)

type HealthHandler struct {
	database db.Database
}

func NewHealthHandler(database db.Database) *HealthHandler {
	return &HealthHandler{database: database}
}

// Health handles GET /health, reporting whether the store is reachable.
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.database.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
}
