package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maintain_ai/backend/internal/ai"
	"github.com/maintain_ai/backend/internal/config"
	"github.com/maintain_ai/backend/internal/db"
	"github.com/maintain_ai/backend/internal/geocode"
	"github.com/maintain_ai/backend/internal/http/middleware"
	"github.com/maintain_ai/backend/internal/metrics"
	"github.com/maintain_ai/backend/internal/models"
	"github.com/maintain_ai/backend/internal/ratelimit"
	"github.com/maintain_ai/backend/internal/service"
)

type fixture struct {
	router *gin.Engine
	store  *db.Store
	user   models.User
}

func newFixture(t *testing.T, cfg config.Config, limiter ratelimit.Limiter) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seed, err := db.LoadSeed()
	require.NoError(t, err)
	store, err := db.New(db.WithSeed(seed))
	require.NoError(t, err)
	user, ok := store.GetUserByUsername("user")
	require.True(t, ok)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	deps := Deps{
		Store: store,
		Issues: &service.IssueService{
			Store:      store,
			Classifier: &ai.Classifier{Logger: zerolog.Nop(), Metrics: m},
			Metrics:    m,
			Logger:     zerolog.Nop(),
		},
		Geocoder: geocode.NewNominatim("http://127.0.0.1:1", "", time.Second),
		Limiter:  limiter,
		Metrics:  m,
		Gatherer: reg,
		Logger:   zerolog.Nop(),
	}
	if cfg.CORSAllowed == "" {
		cfg.CORSAllowed = "*"
	}
	return fixture{router: Router(cfg, deps), store: store, user: user}
}

func (f fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestSeededFeed(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)

	w := f.do(http.MethodGet, "/api/issues", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []struct {
		Title       string `json:"title"`
		Upvotes     int    `json:"upvotes"`
		ReportedAgo string `json:"reportedAgo"`
		Reporter    struct {
			Username string `json:"username"`
		} `json:"reporter"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 4)
	assert.Equal(t, "Dangerous pothole causing vehicle damage on MG Road", items[0].Title)
	assert.Equal(t, 156, items[0].Upvotes)
	assert.Equal(t, "user", items[0].Reporter.Username)
	assert.Equal(t, "4 hours ago", items[0].ReportedAgo)
}

func TestWriteRoutesRequireTokenWhenAuthEnabled(t *testing.T) {
	const secret = "test-secret"
	f := newFixture(t, config.Config{AuthJWTSecret: secret}, nil)
	issues := f.store.GetAllIssues()
	path := "/api/issues/" + issues[0].ID + "/upvote"

	w := f.do(http.MethodPost, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, path, "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.SignToken(secret, f.user.ID)
	require.NoError(t, err)
	w = f.do(http.MethodPost, path, token, gin.H{"userId": "someone-else"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, f.store.HasUpvoted(issues[0].ID, f.user.ID), "token identity wins over body")
	assert.False(t, f.store.HasUpvoted(issues[0].ID, "someone-else"))

	w = f.do(http.MethodGet, "/api/issues", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, "reads stay open")
}

func TestReportRateLimit(t *testing.T) {
	f := newFixture(t, config.Config{}, ratelimit.NewMemory(1, 24*time.Hour))
	body := gin.H{"title": "Leak", "description": "pipe leak", "reporterId": f.user.ID}

	w := f.do(http.MethodPost, "/api/issues", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodPost, "/api/issues", "", body)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	var resp struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]int `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RATE_LIMITED", resp.Error.Code)
	assert.Greater(t, resp.Error.Details["retryAfter"], 0)
}

func TestReportRateLimitKeysOnReporter(t *testing.T) {
	f := newFixture(t, config.Config{}, ratelimit.NewMemory(1, 24*time.Hour))
	admin, ok := f.store.GetUserByUsername("admin")
	require.True(t, ok)

	w := f.do(http.MethodPost, "/api/issues", "", gin.H{"title": "Leak", "description": "pipe leak", "reporterId": f.user.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Same client IP, different reporter: separate budget.
	w = f.do(http.MethodPost, "/api/issues", "", gin.H{"title": "Light out", "description": "street light dark", "reporterId": admin.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodPost, "/api/issues", "", gin.H{"title": "Leak again", "description": "pipe leak", "reporterId": f.user.ID})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAdminResetRequiresKey(t *testing.T) {
	f := newFixture(t, config.Config{AdminKey: "letmein"}, nil)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/admin/reset", "", nil).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reset", nil)
	req.Header.Set("X-Admin-Key", "letmein")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	f.do(http.MethodPost, "/api/issues", "", gin.H{"title": "Leak", "description": "pipe leak", "reporterId": f.user.ID})

	w := f.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "maintain_issues_created_total"), body)
	assert.True(t, strings.Contains(body, "maintain_http_request_duration_seconds"), body)
}

func TestRequestIDEchoed(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestRequestIDReplacesOversizedHeader(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, strings.Repeat("x", 200))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	got := w.Header().Get(middleware.RequestIDHeader)
	assert.True(t, strings.HasPrefix(got, "req_"), got)
}
