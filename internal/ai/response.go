package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/maintain_ai/backend/internal/category"
	"github.com/maintain_ai/backend/internal/models"
)

const analysisPrompt = `You are an expert civic infrastructure analyst. Analyze this maintenance issue using BOTH the image (if provided) and the description.

DESCRIPTION: %q

ANALYSIS INSTRUCTIONS:
1. Examine the image for visual evidence of the maintenance issue: damage patterns, structural issues, safety hazards.
2. Use the description as context, but prioritize visual evidence when an image is present.
3. Keep your reasoning concise: at most 2-3 sentences.

SEVERITY LEVELS (lowercase exactly as shown):
- critical: immediate danger to public safety, major infrastructure failure requiring emergency response
- major: significant safety risk or operational disruption requiring urgent attention
- moderate: noticeable inconvenience or minor safety concerns
- minor: minimal impact, aesthetic issues, or preventive maintenance

DOMAINS: Infrastructure & Road Safety, Public Utilities & Safety, Traffic Management & Child Safety, Waste Management & Public Health, etc.

Respond with valid JSON only:
{"domain": "specific domain name", "severity": "critical|major|moderate|minor", "confidence": 0.95, "reasoning": "brief analysis"}`

func buildPrompt(description string) string {
	return fmt.Sprintf(analysisPrompt, description)
}

// rawAnalysis uses pointers so absent fields can be told apart from zero values.
type rawAnalysis struct {
	Domain     *string  `json:"domain"`
	Category   *string  `json:"category"`
	Severity   *string  `json:"severity"`
	Confidence *float64 `json:"confidence"`
	Reasoning  *string  `json:"reasoning"`
}

var (
	jsonBlockPattern  = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// extractJSON pulls a JSON object out of model output that may be wrapped in
// a markdown fence or surrounded by prose.
func extractJSON(content string) string {
	if m := jsonBlockPattern.FindStringSubmatch(content); len(m) > 1 {
		return m[1]
	}
	return jsonObjectPattern.FindString(content)
}

// parseAnalysis decodes and validates a model response. Every field of the
// response schema must be present and well typed; category is derived from
// the domain when the model leaves it out or returns one outside the set.
func parseAnalysis(content string) (models.AIAnalysis, error) {
	if strings.TrimSpace(content) == "" {
		return models.AIAnalysis{}, ErrEmptyResponse
	}
	body := extractJSON(content)
	if body == "" {
		return models.AIAnalysis{}, fmt.Errorf("%w: no JSON object", ErrInvalidResponse)
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return models.AIAnalysis{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if raw.Domain == nil || strings.TrimSpace(*raw.Domain) == "" {
		return models.AIAnalysis{}, fmt.Errorf("%w: missing domain", ErrInvalidResponse)
	}
	if raw.Severity == nil {
		return models.AIAnalysis{}, fmt.Errorf("%w: missing severity", ErrInvalidResponse)
	}
	severity, ok := models.ParseSeverity(*raw.Severity)
	if !ok {
		return models.AIAnalysis{}, fmt.Errorf("%w: unknown severity %q", ErrInvalidResponse, *raw.Severity)
	}
	if raw.Confidence == nil {
		return models.AIAnalysis{}, fmt.Errorf("%w: missing confidence", ErrInvalidResponse)
	}
	if *raw.Confidence < 0 || *raw.Confidence > 1 {
		return models.AIAnalysis{}, fmt.Errorf("%w: confidence %v out of range", ErrInvalidResponse, *raw.Confidence)
	}
	if raw.Reasoning == nil || strings.TrimSpace(*raw.Reasoning) == "" {
		return models.AIAnalysis{}, fmt.Errorf("%w: missing reasoning", ErrInvalidResponse)
	}

	domain := strings.TrimSpace(*raw.Domain)
	cat := category.MapDomain(domain)
	if raw.Category != nil {
		if c := models.Category(strings.TrimSpace(*raw.Category)); c.Valid() {
			cat = c
		}
	}

	return models.AIAnalysis{
		Domain:     domain,
		Category:   cat,
		Severity:   severity,
		Confidence: *raw.Confidence,
		Reasoning:  strings.TrimSpace(*raw.Reasoning),
	}, nil
}
