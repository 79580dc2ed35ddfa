package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maintain_ai/backend/internal/metrics"
	"github.com/maintain_ai/backend/internal/ratelimit"
)

// ReportRateLimit caps submissions per reporter. The key is the authenticated
// user id, else the body's reporterId, else the client IP. Limiter errors
// fail open.
func ReportRateLimit(limiter ratelimit.Limiter, m *metrics.Metrics, l zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := reportLimitKey(c)
		if c.IsAborted() {
			return
		}
		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			l.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			m.ReportRateLimited()
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "Daily report limit reached", gin.H{"retryAfter": retryAfter})
			return
		}
		c.Next()
	}
}

func reportLimitKey(c *gin.Context) string {
	if userID, ok := UserID(c); ok {
		return "user:" + userID
	}
	if reporterID := peekReporterID(c); reporterID != "" {
		return "user:" + reporterID
	}
	return "ip:" + c.ClientIP()
}

// peekReporterID reads reporterId from a JSON body and puts the body back
// for the handler. An oversized body aborts the request in BodyLimit.
func peekReporterID(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), c.Request.Body))
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var body struct {
		ReporterID string `json:"reporterId"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	return strings.TrimSpace(body.ReporterID)
}
