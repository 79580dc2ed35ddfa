package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maintain_ai/backend/internal/category"
	"github.com/maintain_ai/backend/internal/models"
)

func TestFallbackWaterLeakEmergency(t *testing.T) {
	got := Fallback("Water leak near the main pipe, emergency!")

	assert.Equal(t, "Plumbing", got.Domain)
	assert.Equal(t, models.SeverityCritical, got.Severity)
	assert.Equal(t, category.MapDomain("Plumbing"), got.Category)
	assert.Equal(t, models.CategoryWaterDrainage, got.Category)
	assert.Equal(t, 0.6, got.Confidence)
	assert.Equal(t, FallbackReasoning, got.Reasoning)
}

func TestFallbackRoutinePothole(t *testing.T) {
	got := Fallback("Routine minor pothole touch-up")

	assert.Equal(t, "Infrastructure & Road Safety", got.Domain)
	assert.Equal(t, models.SeverityMinor, got.Severity)
	assert.Equal(t, models.CategoryRoadsTransport, got.Category)
}

func TestFallbackDomainPriority(t *testing.T) {
	cases := []struct {
		text   string
		domain string
	}{
		// "light" appears before "water" in the text, but Plumbing is checked first.
		{"street light flickering above standing water", "Plumbing"},
		{"power outage on the road", "Electrical"},
		{"pavement cracked near the traffic signal", "Infrastructure & Road Safety"},
		{"stop sign knocked over", "Traffic Management"},
		{"garbage piling up", "Waste Management"},
		{"bench needs a repaint", DefaultDomain},
		{"", DefaultDomain},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.domain, Fallback(tc.text).Domain, "text %q", tc.text)
	}
}

func TestFallbackSeverityOrder(t *testing.T) {
	cases := []struct {
		text     string
		severity models.Severity
	}{
		{"minor crack but the pipe burst", models.SeverityCritical},
		{"IMMEDIATE attention needed", models.SeverityCritical},
		{"significant but minor looking damage", models.SeverityMajor},
		{"cosmetic scuff", models.SeverityMinor},
		{"bench needs a repaint", models.SeverityModerate},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.severity, Fallback(tc.text).Severity, "text %q", tc.text)
	}
}

func TestFallbackDeterministic(t *testing.T) {
	text := "Broken streetlight by the park, major hazard"
	first := Fallback(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Fallback(text))
	}
}
