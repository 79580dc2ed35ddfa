package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Dashboard stats
// @Tags stats
// @Produce json
// @Success 200 {object} service.Stats
// @Router /api/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Issues.Stats())
}
