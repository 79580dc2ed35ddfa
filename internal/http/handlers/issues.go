package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/maintain_ai/backend/internal/ai"
	"github.com/maintain_ai/backend/internal/models"
	"github.com/maintain_ai/backend/internal/service"
)

// IssueView is a feed item: the issue, its reporter and a relative age.
type IssueView struct {
	models.IssueWithReporter
	ReportedAgo string `json:"reportedAgo"`
}

type CreateIssueRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=5000"`
	Location    *string  `json:"location" validate:"omitempty,max=500"`
	ImageURLs   []string `json:"imageUrls" validate:"omitempty,max=10,dive,required"`
	// ImageBase64 is a data URL sent to the classifier with the text.
	ImageBase64 string `json:"imageBase64"`
	ReporterID  string `json:"reporterId"`
}

type UpdateIssueRequest struct {
	Title                *string             `json:"title" validate:"omitempty,min=1,max=200"`
	Description          *string             `json:"description" validate:"omitempty,max=5000"`
	Category             *models.Category    `json:"category"`
	Severity             *models.Severity    `json:"severity"`
	Status               *models.IssueStatus `json:"status" validate:"omitempty,oneof=open assigned in_progress resolved"`
	Progress             *int                `json:"progress" validate:"omitempty,min=0,max=100"`
	Location             *string             `json:"location" validate:"omitempty,max=500"`
	ImageURLs            []string            `json:"imageUrls" validate:"omitempty,max=10,dive,required"`
	AssignedTechnicianID *string             `json:"assignedTechnicianId"`
}

type UpvoteRequest struct {
	UserID string `json:"userId"`
}

type AssignRequest struct {
	// TechnicianID may be empty to let the service pick one.
	TechnicianID string `json:"technicianId"`
}

func (h *Handler) view(item models.IssueWithReporter) IssueView {
	return IssueView{IssueWithReporter: item, ReportedAgo: humanize.RelTime(item.CreatedAt, h.now(), "ago", "from now")}
}

// @Summary List issues
// @Description All issues joined with their reporter, newest first
// @Tags issues
// @Produce json
// @Success 200 {array} IssueView
// @Router /api/issues [get]
func (h *Handler) IssuesList(c *gin.Context) {
	items := h.Store.GetAllIssues()
	out := make([]IssueView, 0, len(items))
	for _, item := range items {
		out = append(out, h.view(item))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Issues near a point
// @Tags issues
// @Produce json
// @Param lat query number true "latitude"
// @Param lon query number true "longitude"
// @Param radiusKm query number false "radius in km (default 5)"
// @Success 200 {array} service.NearbyIssue
// @Router /api/issues/nearby [get]
func (h *Handler) IssuesNearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "lat and lon are required numbers", nil)
		return
	}
	radius := 5.0
	if raw := c.Query("radiusKm"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r <= 0 {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "radiusKm must be a positive number", nil)
			return
		}
		radius = r
	}
	c.JSON(http.StatusOK, h.Issues.Nearby(lat, lon, radius))
}

// @Summary Get issue
// @Tags issues
// @Produce json
// @Param id path string true "issue id"
// @Success 200 {object} models.Issue
// @Failure 404 {object} map[string]any
// @Router /api/issues/{id} [get]
func (h *Handler) IssueDetails(c *gin.Context) {
	issue, ok := h.Store.GetIssue(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Issue not found", nil)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// @Summary Submit a report
// @Description Classifies the report and stores it as an open issue
// @Tags issues
// @Accept json
// @Produce json
// @Param body body CreateIssueRequest true "report"
// @Success 201 {object} models.Issue
// @Failure 400 {object} map[string]any
// @Failure 429 {object} map[string]any
// @Router /api/issues [post]
func (h *Handler) IssueCreate(c *gin.Context) {
	var req CreateIssueRequest
	if !h.bind(c, &req) {
		return
	}
	reporterID := callerID(c, req.ReporterID)
	if strings.TrimSpace(reporterID) == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "reporterId is required", nil)
		return
	}

	imageURLs := req.ImageURLs
	if len(imageURLs) == 0 {
		if _, ok := ai.ParseDataURL(req.ImageBase64); ok {
			imageURLs = []string{req.ImageBase64}
		}
	}

	issue, err := h.Issues.SubmitReport(c.Request.Context(), service.ReportInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		ImageURLs:    imageURLs,
		ImageDataURL: req.ImageBase64,
		ReporterID:   reporterID,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, issue)
}

// @Summary Update issue
// @Description Partial update; status moves forward only and progress never decreases
// @Tags issues
// @Accept json
// @Produce json
// @Param id path string true "issue id"
// @Param body body UpdateIssueRequest true "patch"
// @Success 200 {object} models.Issue
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/issues/{id} [patch]
func (h *Handler) IssueUpdate(c *gin.Context) {
	var req UpdateIssueRequest
	if !h.bind(c, &req) {
		return
	}
	patch := models.IssuePatch{
		Title:                req.Title,
		Description:          req.Description,
		Category:             req.Category,
		Severity:             req.Severity,
		Status:               req.Status,
		Progress:             req.Progress,
		Location:             req.Location,
		ImageURLs:            req.ImageURLs,
		AssignedTechnicianID: req.AssignedTechnicianID,
	}
	issue, ok, err := h.Issues.UpdateIssue(c.Param("id"), patch)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Issue not found", nil)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// @Summary Delete issue
// @Tags issues
// @Param id path string true "issue id"
// @Success 204
// @Failure 404 {object} map[string]any
// @Router /api/issues/{id} [delete]
func (h *Handler) IssueDelete(c *gin.Context) {
	if !h.Store.DeleteIssue(c.Param("id")) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Issue not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Toggle upvote
// @Tags issues
// @Accept json
// @Produce json
// @Param id path string true "issue id"
// @Param body body UpvoteRequest true "voter"
// @Success 200 {object} models.UpvoteResult
// @Failure 404 {object} map[string]any
// @Router /api/issues/{id}/upvote [post]
func (h *Handler) IssueUpvote(c *gin.Context) {
	var req UpvoteRequest
	if c.Request.ContentLength != 0 && !h.bind(c, &req) {
		return
	}
	userID := callerID(c, req.UserID)
	if strings.TrimSpace(userID) == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "userId is required", nil)
		return
	}
	res, ok := h.Store.ToggleUpvote(c.Param("id"), userID)
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Issue not found", nil)
		return
	}
	h.Metrics.UpvoteToggled(res.Upvoted)
	c.JSON(http.StatusOK, res)
}

// @Summary Assign technician
// @Tags issues
// @Accept json
// @Produce json
// @Param id path string true "issue id"
// @Param body body AssignRequest false "technician"
// @Success 200 {object} models.Issue
// @Router /api/issues/{id}/assign [post]
func (h *Handler) IssueAssign(c *gin.Context) {
	var req AssignRequest
	if c.Request.ContentLength != 0 && !h.bind(c, &req) {
		return
	}
	issue, ok, err := h.Issues.Assign(c.Param("id"), req.TechnicianID)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Issue not found", nil)
		return
	}
	c.JSON(http.StatusOK, issue)
}
