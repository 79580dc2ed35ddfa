package ai

import (
	"strings"

	"github.com/maintain_ai/backend/internal/category"
	"github.com/maintain_ai/backend/internal/models"
)

const (
	FallbackConfidence = 0.6
	FallbackReasoning  = "Fallback analysis due to AI service unavailability. Manual review recommended for accurate assessment."
	DefaultDomain      = "General Maintenance"
)

type domainRule struct {
	domain   string
	keywords []string
}

// Order matters: the first domain with any matching keyword wins.
var fallbackDomains = []domainRule{
	{"Plumbing", []string{"water", "leak", "pipe", "plumb"}},
	{"Electrical", []string{"light", "electric", "power", "outlet"}},
	{"Infrastructure & Road Safety", []string{"pothole", "road", "pavement"}},
	{"Traffic Management", []string{"traffic", "sign", "signal"}},
	{"Waste Management", []string{"trash", "garbage", "waste"}},
}

var (
	emergencyKeywords = []string{"leak", "flood", "fire", "exposed", "emergency", "urgent", "danger", "broken", "burst"}
	criticalKeywords  = []string{"urgent", "immediate", "danger"}
	majorKeywords     = []string{"major", "significant"}
	minorKeywords     = []string{"minor", "cosmetic", "routine"}
)

// Fallback classifies a description from keywords alone. It is deterministic
// and never fails.
func Fallback(description string) models.AIAnalysis {
	text := strings.ToLower(description)
	domain := fallbackDomain(text)
	return models.AIAnalysis{
		Domain:     domain,
		Category:   category.MapDomain(domain),
		Severity:   fallbackSeverity(text),
		Confidence: FallbackConfidence,
		Reasoning:  FallbackReasoning,
	}
}

func fallbackDomain(text string) string {
	for _, r := range fallbackDomains {
		if containsAny(text, r.keywords) {
			return r.domain
		}
	}
	return DefaultDomain
}

func fallbackSeverity(text string) models.Severity {
	switch {
	case containsAny(text, emergencyKeywords) || containsAny(text, criticalKeywords):
		return models.SeverityCritical
	case containsAny(text, majorKeywords):
		return models.SeverityMajor
	case containsAny(text, minorKeywords):
		return models.SeverityMinor
	default:
		return models.SeverityModerate
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
