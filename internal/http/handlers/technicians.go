package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maintain_ai/backend/internal/models"
)

type CreateTechnicianRequest struct {
	Name      string                  `json:"name" validate:"required,max=120"`
	Specialty string                  `json:"specialty" validate:"required,max=120"`
	Status    models.TechnicianStatus `json:"status" validate:"omitempty,oneof=available busy offline"`
	Phone     *string                 `json:"phone" validate:"omitempty,max=40"`
	Email     *string                 `json:"email" validate:"omitempty,email"`
}

type UpdateTechnicianRequest struct {
	Name      *string                  `json:"name" validate:"omitempty,min=1,max=120"`
	Specialty *string                  `json:"specialty" validate:"omitempty,min=1,max=120"`
	Status    *models.TechnicianStatus `json:"status" validate:"omitempty,oneof=available busy offline"`
	Phone     *string                  `json:"phone" validate:"omitempty,max=40"`
	Email     *string                  `json:"email" validate:"omitempty,email"`
}

// @Summary List technicians
// @Tags technicians
// @Produce json
// @Success 200 {array} models.Technician
// @Router /api/technicians [get]
func (h *Handler) TechniciansList(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.GetTechnicians())
}

func (h *Handler) TechnicianDetails(c *gin.Context) {
	tech, ok := h.Store.GetTechnician(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Technician not found", nil)
		return
	}
	c.JSON(http.StatusOK, tech)
}

// @Summary Create technician
// @Tags technicians
// @Accept json
// @Produce json
// @Param body body CreateTechnicianRequest true "technician"
// @Success 201 {object} models.Technician
// @Router /api/technicians [post]
func (h *Handler) TechnicianCreate(c *gin.Context) {
	var req CreateTechnicianRequest
	if !h.bind(c, &req) {
		return
	}
	tech, err := h.Store.CreateTechnician(models.Technician{
		Name:      req.Name,
		Specialty: req.Specialty,
		Status:    req.Status,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tech)
}

func (h *Handler) TechnicianUpdate(c *gin.Context) {
	var req UpdateTechnicianRequest
	if !h.bind(c, &req) {
		return
	}
	tech, ok, err := h.Store.UpdateTechnician(c.Param("id"), models.TechnicianPatch{
		Name:      req.Name,
		Specialty: req.Specialty,
		Status:    req.Status,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Technician not found", nil)
		return
	}
	c.JSON(http.StatusOK, tech)
}
