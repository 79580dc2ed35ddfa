package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Reset demo data
// @Description Drops every record and reloads the seed
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/admin/reset [post]
func (h *Handler) AdminReset(c *gin.Context) {
	if err := h.Store.Reset(); err != nil {
		h.writeDomainError(c, err)
		return
	}
	h.Logger.Warn().Msg("store reset")
	c.JSON(http.StatusOK, gin.H{"status": "ok", "issues": len(h.Store.GetAllIssues())})
}
