package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ClassifyRequest struct {
	Description string `json:"description" validate:"required,max=5000"`
	ImageBase64 string `json:"imageBase64"`
}

// @Summary Preview classification
// @Description Runs the classifier without storing anything
// @Tags classify
// @Accept json
// @Produce json
// @Param body body ClassifyRequest true "report text"
// @Success 200 {object} models.AIAnalysis
// @Router /api/classify [post]
func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if !h.bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.Issues.Preview(c.Request.Context(), req.Description, req.ImageBase64))
}
