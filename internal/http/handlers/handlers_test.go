package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maintain_ai/backend/internal/ai"
	"github.com/maintain_ai/backend/internal/db"
	"github.com/maintain_ai/backend/internal/geocode"
	"github.com/maintain_ai/backend/internal/models"
	"github.com/maintain_ai/backend/internal/service"
)

type fakeGeocoder struct{}

func (fakeGeocoder) Geocode(_ context.Context, q string) (geocode.Place, error) {
	if q == "Nizampet" {
		return geocode.Place{Lat: 17.53, Lon: 78.38, DisplayName: "Nizampet"}, nil
	}
	if q == "" {
		return geocode.Place{}, geocode.ErrInvalidQuery
	}
	return geocode.Place{}, geocode.ErrNotFound
}

func (fakeGeocoder) Reverse(_ context.Context, lat, lon float64) (geocode.Place, error) {
	return geocode.Place{Lat: lat, Lon: lon, DisplayName: "Somewhere"}, nil
}

type testEnv struct {
	router *gin.Engine
	store  *db.Store
	user   models.User
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := db.New()
	require.NoError(t, err)
	user, err := store.CreateUser(models.User{Username: "reporter"})
	require.NoError(t, err)

	h := &Handler{
		Store: store,
		Issues: &service.IssueService{
			Store:      store,
			Classifier: &ai.Classifier{Logger: zerolog.Nop()},
			Logger:     zerolog.Nop(),
		},
		Geocoder:  fakeGeocoder{},
		Validator: validator.New(),
		Logger:    zerolog.Nop(),
	}

	r := gin.New()
	r.GET("/api/issues", h.IssuesList)
	r.GET("/api/issues/nearby", h.IssuesNearby)
	r.GET("/api/issues/:id", h.IssueDetails)
	r.POST("/api/issues", h.IssueCreate)
	r.PATCH("/api/issues/:id", h.IssueUpdate)
	r.DELETE("/api/issues/:id", h.IssueDelete)
	r.POST("/api/issues/:id/upvote", h.IssueUpvote)
	r.POST("/api/issues/:id/assign", h.IssueAssign)
	r.GET("/api/issues/:id/comments", h.CommentsList)
	r.POST("/api/issues/:id/comments", h.CommentCreate)
	r.GET("/api/technicians", h.TechniciansList)
	r.POST("/api/technicians", h.TechnicianCreate)
	r.PATCH("/api/technicians/:id", h.TechnicianUpdate)
	r.POST("/api/users", h.UserCreate)
	r.GET("/api/users/:id", h.UserDetails)
	r.GET("/api/users/:id/issues", h.UserIssues)
	r.GET("/api/stats", h.Stats)
	r.GET("/api/geocode", h.Geocode)
	r.GET("/api/reverse-geocode", h.ReverseGeocode)
	r.POST("/api/classify", h.Classify)
	r.POST("/api/admin/reset", h.AdminReset)

	return testEnv{router: r, store: store, user: user}
}

func (e testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e testEnv) createIssue(t *testing.T, description string) models.Issue {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/issues", gin.H{
		"title":       "Report",
		"description": description,
		"reporterId":  e.user.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Issue](t, w)
}

func TestCreateIssueClassifiesWithFallback(t *testing.T) {
	env := newTestEnv(t)
	issue := env.createIssue(t, "Water leak near the main pipe, emergency!")

	assert.Equal(t, models.StatusOpen, issue.Status)
	assert.Equal(t, models.CategoryWaterDrainage, issue.Category)
	assert.Equal(t, models.SeverityCritical, issue.Severity)
	require.NotNil(t, issue.AIAnalysis)
	assert.Equal(t, "Plumbing", issue.AIAnalysis.Domain)
	assert.InDelta(t, 0.6, issue.AIAnalysis.Confidence, 1e-9)
	assert.Equal(t, []string{}, issue.ImageURLs)
}

func TestCreateIssueValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/issues", gin.H{"title": "x", "description": "y", "reporterId": "ghost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[errorBody](t, w).Error.Code)

	w = env.do(t, http.MethodPost, "/api/issues", gin.H{"description": "y", "reporterId": env.user.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/issues", gin.H{"title": "x", "description": "y"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/issues", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decode[errorBody](t, rec).Error.Code)
}

func TestCreateIssueKeepsDataURLImage(t *testing.T) {
	env := newTestEnv(t)
	img := "data:image/png;base64,aGVsbG8="
	w := env.do(t, http.MethodPost, "/api/issues", gin.H{
		"title": "Light", "description": "streetlight out", "reporterId": env.user.ID, "imageBase64": img,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{img}, decode[models.Issue](t, w).ImageURLs)
}

func TestListIssuesNewestFirstWithReporter(t *testing.T) {
	env := newTestEnv(t)
	first := env.createIssue(t, "pothole")
	time.Sleep(2 * time.Millisecond)
	second := env.createIssue(t, "garbage")

	w := env.do(t, http.MethodGet, "/api/issues", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]IssueView](t, w)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
	assert.Equal(t, "reporter", items[0].Reporter.Username)
	assert.NotEmpty(t, items[0].ReportedAgo)
}

func TestIssueDetailsNotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/issues/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[errorBody](t, w).Error.Code)
}

func TestUpdateIssueLifecycle(t *testing.T) {
	env := newTestEnv(t)
	issue := env.createIssue(t, "streetlight flickering")

	w := env.do(t, http.MethodPatch, "/api/issues/missing", gin.H{"progress": 10})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPatch, "/api/issues/"+issue.ID, gin.H{"status": "in_progress", "progress": 40})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 40, decode[models.Issue](t, w).Progress)

	w = env.do(t, http.MethodPatch, "/api/issues/"+issue.ID, gin.H{"status": "open"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", decode[errorBody](t, w).Error.Code)

	w = env.do(t, http.MethodPatch, "/api/issues/"+issue.ID, gin.H{"status": "closed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/api/issues/"+issue.ID, gin.H{"status": "resolved"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, decode[models.Issue](t, w).Progress)
}

func TestUpdateIssueIgnoresUpvotes(t *testing.T) {
	env := newTestEnv(t)
	issue := env.createIssue(t, "graffiti")

	w := env.do(t, http.MethodPatch, "/api/issues/"+issue.ID, gin.H{"upvotes": 99, "title": "Graffiti on wall"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Issue](t, w)
	assert.Zero(t, updated.Upvotes)
	assert.Equal(t, "Graffiti on wall", updated.Title)
}

func TestDeleteIssueTwice(t *testing.T) {
	env := newTestEnv(t)
	issue := env.createIssue(t, "pothole")

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/issues/"+issue.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/issues/"+issue.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/issues/"+issue.ID, nil).Code)
}

func TestUpvoteToggle(t *testing.T) {
	env := newTestEnv(t)
	issue := env.createIssue(t, "pothole")
	path := "/api/issues/" + issue.ID + "/upvote"

	res := decode[models.UpvoteResult](t, env.do(t, http.MethodPost, path, gin.H{"userId": "A"}))
	assert.Equal(t, models.UpvoteResult{Upvoted: true, NewCount: 1}, res)
	res = decode[models.UpvoteResult](t, env.do(t, http.MethodPost, path, gin.H{"userId": "B"}))
	assert.Equal(t, models.UpvoteResult{Upvoted: true, NewCount: 2}, res)
	res = decode[models.UpvoteResult](t, env.do(t, http.MethodPost, path, gin.H{"userId": "A"}))
	assert.Equal(t, models.UpvoteResult{Upvoted: false, NewCount: 1}, res)

	w := env.do(t, http.MethodPost, "/api/issues/missing/upvote", gin.H{"userId": "A"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, path, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignAndTechnicians(t *testing.T) {
	env := newTestEnv(t)
	issue := env.createIssue(t, "pipe burst")

	w := env.do(t, http.MethodPost, "/api/issues/"+issue.ID+"/assign", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "no technicians yet")

	w = env.do(t, http.MethodPost, "/api/technicians", gin.H{"name": "John Smith", "specialty": "Plumbing"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tech := decode[models.Technician](t, w)
	assert.Equal(t, models.TechnicianAvailable, tech.Status)

	w = env.do(t, http.MethodPost, "/api/issues/"+issue.ID+"/assign", gin.H{"technicianId": tech.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assigned := decode[models.Issue](t, w)
	assert.Equal(t, models.StatusAssigned, assigned.Status)
	require.NotNil(t, assigned.AssignedTechnicianID)
	assert.Equal(t, tech.ID, *assigned.AssignedTechnicianID)

	w = env.do(t, http.MethodPost, "/api/issues/"+issue.ID+"/assign", gin.H{"technicianId": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPatch, "/api/technicians/"+tech.ID, gin.H{"status": "busy"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TechnicianBusy, decode[models.Technician](t, w).Status)

	w = env.do(t, http.MethodPost, "/api/technicians", gin.H{"name": "X", "specialty": "Y", "status": "asleep"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	issue := env.createIssue(t, "pothole")
	path := "/api/issues/" + issue.ID + "/comments"

	w := env.do(t, http.MethodPost, path, gin.H{"authorId": env.user.ID, "body": "Seen it too"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/issues/missing/comments", gin.H{"authorId": env.user.ID, "body": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	comments := decode[[]models.Comment](t, env.do(t, http.MethodGet, path, nil))
	require.Len(t, comments, 1)
	assert.Equal(t, "Seen it too", comments[0].Body)
}

func TestUsers(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/users", gin.H{"username": "citizen", "email": "c@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	u := decode[models.User](t, w)
	assert.Equal(t, models.DefaultCredibilityScore, u.CredibilityScore)

	w = env.do(t, http.MethodPost, "/api/users", gin.H{"username": "citizen"})
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/users/"+u.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/users/missing", nil).Code)

	env.createIssue(t, "pothole")
	mine := decode[[]IssueView](t, env.do(t, http.MethodGet, "/api/users/"+env.user.ID+"/issues", nil))
	assert.Len(t, mine, 1)
	theirs := decode[[]IssueView](t, env.do(t, http.MethodGet, "/api/users/"+u.ID+"/issues", nil))
	assert.Empty(t, theirs)
}

func TestStatsAndNearby(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/issues", gin.H{
		"title": "Hole", "description": "pothole", "reporterId": env.user.ID, "location": "17.5326, 78.3849 | Nizampet",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	st := decode[service.Stats](t, env.do(t, http.MethodGet, "/api/stats", nil))
	assert.Equal(t, 1, st.Total)
	assert.Len(t, st.ByCategory, len(models.Categories))

	near := decode[[]service.NearbyIssue](t, env.do(t, http.MethodGet, "/api/issues/nearby?lat=17.53&lon=78.38", nil))
	assert.Len(t, near, 1)

	w = env.do(t, http.MethodGet, "/api/issues/nearby?lat=abc&lon=1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGeocodeEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/geocode?q=Nizampet", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Nizampet", decode[geocode.Place](t, w).DisplayName)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/geocode?q=Atlantis", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/geocode", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/reverse-geocode?lat=1&lon=2", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/reverse-geocode?lat=1", nil).Code)
}

func TestClassifyPreviewDoesNotStore(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/classify", gin.H{"description": "Routine minor pothole touch-up"})
	require.Equal(t, http.StatusOK, w.Code)
	analysis := decode[models.AIAnalysis](t, w)
	assert.Equal(t, "Infrastructure & Road Safety", analysis.Domain)
	assert.Equal(t, models.SeverityMinor, analysis.Severity)
	assert.Empty(t, env.store.GetAllIssues())
}

func TestAdminResetClearsUnseededStore(t *testing.T) {
	env := newTestEnv(t)
	env.createIssue(t, "pothole")

	w := env.do(t, http.MethodPost, "/api/admin/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.store.GetAllIssues())
}
