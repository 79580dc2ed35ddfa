package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maintain_ai/backend/internal/category"
	"github.com/maintain_ai/backend/internal/metrics"
	"github.com/maintain_ai/backend/internal/models"
)

const DefaultTimeout = 20 * time.Second

type Source string

const (
	SourceExternal Source = "external"
	SourceFallback Source = "fallback"
)

// Outcome is the two-variant internal result: either the external service
// answered, or the fallback produced the analysis (Err says why).
type Outcome struct {
	Analysis models.AIAnalysis
	Source   Source
	Err      error
}

// Classifier produces an analysis for every report. It makes at most one
// external attempt, bounded by Timeout, and falls back on any failure.
type Classifier struct {
	Adapter Adapter
	Timeout time.Duration
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// Classify returns a complete analysis; it never fails.
func (c *Classifier) Classify(ctx context.Context, req Request) models.AIAnalysis {
	return c.Evaluate(ctx, req).Analysis
}

// Evaluate is Classify with the source of the analysis exposed.
func (c *Classifier) Evaluate(ctx context.Context, req Request) Outcome {
	start := time.Now()
	out := c.attempt(ctx, req)
	reason := ""
	if out.Source == SourceFallback {
		reason = fallbackReason(out.Err)
		c.Logger.Warn().Err(out.Err).Str("reason", reason).Msg("classification fell back to keyword analysis")
	}
	c.Metrics.ObserveClassification(string(out.Source), reason, time.Since(start))
	return out
}

func (c *Classifier) attempt(ctx context.Context, req Request) (out Outcome) {
	if c.Adapter == nil {
		return fallbackOutcome(req, ErrNoCredentials)
	}
	defer func() {
		if r := recover(); r != nil {
			out = fallbackOutcome(req, errors.New("classification adapter panicked"))
		}
	}()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	analysis, err := c.Adapter.Analyze(ctx, req)
	if err != nil {
		return fallbackOutcome(req, err)
	}
	analysis, err = normalize(analysis)
	if err != nil {
		return fallbackOutcome(req, err)
	}
	return Outcome{Analysis: analysis, Source: SourceExternal}
}

// normalize holds every adapter to the same contract as parseAnalysis.
func normalize(a models.AIAnalysis) (models.AIAnalysis, error) {
	a.Domain = strings.TrimSpace(a.Domain)
	if a.Domain == "" {
		return a, fmt.Errorf("%w: missing domain", ErrInvalidResponse)
	}
	severity, ok := models.ParseSeverity(string(a.Severity))
	if !ok {
		return a, fmt.Errorf("%w: unknown severity %q", ErrInvalidResponse, a.Severity)
	}
	a.Severity = severity
	if a.Confidence < 0 || a.Confidence > 1 {
		return a, fmt.Errorf("%w: confidence %v out of range", ErrInvalidResponse, a.Confidence)
	}
	if !a.Category.Valid() {
		a.Category = category.MapDomain(a.Domain)
	}
	return a, nil
}

func fallbackOutcome(req Request, err error) Outcome {
	return Outcome{Analysis: Fallback(req.Description), Source: SourceFallback, Err: err}
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrNoCredentials):
		return "no_credentials"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrEmptyResponse), errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	default:
		return "request_failed"
	}
}
