package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maintain_ai/backend/internal/models"
)

type CreateUserRequest struct {
	Username         string      `json:"username" validate:"required,max=80"`
	Email            string      `json:"email" validate:"omitempty,email"`
	Role             models.Role `json:"role" validate:"omitempty,oneof=user admin"`
	CredibilityScore int         `json:"credibilityScore" validate:"omitempty,min=1,max=10"`
	ExternalAuthID   string      `json:"externalAuthId" validate:"omitempty,max=128"`
}

// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param body body CreateUserRequest true "user"
// @Success 201 {object} models.User
// @Failure 409 {object} map[string]any
// @Router /api/users [post]
func (h *Handler) UserCreate(c *gin.Context) {
	var req CreateUserRequest
	if !h.bind(c, &req) {
		return
	}
	user, err := h.Store.CreateUser(models.User{
		Username:         req.Username,
		Email:            req.Email,
		Role:             req.Role,
		CredibilityScore: req.CredibilityScore,
		ExternalAuthID:   req.ExternalAuthID,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) UserDetails(c *gin.Context) {
	user, ok := h.Store.GetUser(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Issues reported by a user
// @Tags users
// @Produce json
// @Param id path string true "user id"
// @Success 200 {array} IssueView
// @Router /api/users/{id}/issues [get]
func (h *Handler) UserIssues(c *gin.Context) {
	if _, ok := h.Store.GetUser(c.Param("id")); !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
		return
	}
	items := h.Store.GetUserIssues(c.Param("id"))
	out := make([]IssueView, 0, len(items))
	for _, item := range items {
		out = append(out, h.view(item))
	}
	c.JSON(http.StatusOK, out)
}
