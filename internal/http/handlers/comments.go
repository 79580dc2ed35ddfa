package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type CreateCommentRequest struct {
	AuthorID string `json:"authorId"`
	Body     string `json:"body" validate:"required,max=2000"`
}

// @Summary List comments
// @Tags comments
// @Produce json
// @Param id path string true "issue id"
// @Success 200 {array} models.Comment
// @Router /api/issues/{id}/comments [get]
func (h *Handler) CommentsList(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.GetCommentsByIssueID(c.Param("id")))
}

// @Summary Add comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "issue id"
// @Param body body CreateCommentRequest true "comment"
// @Success 201 {object} models.Comment
// @Failure 404 {object} map[string]any
// @Router /api/issues/{id}/comments [post]
func (h *Handler) CommentCreate(c *gin.Context) {
	var req CreateCommentRequest
	if !h.bind(c, &req) {
		return
	}
	authorID := callerID(c, req.AuthorID)
	if strings.TrimSpace(authorID) == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "authorId is required", nil)
		return
	}
	comment, err := h.Store.CreateComment(c.Param("id"), authorID, req.Body)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
