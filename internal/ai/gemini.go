package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/maintain_ai/backend/internal/models"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiAdapter calls generateContent through the genai SDK with a response
// schema so the model is constrained to the analysis shape.
type GeminiAdapter struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

var geminiResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"domain":     {Type: genai.TypeString},
		"severity":   {Type: genai.TypeString, Enum: []string{"critical", "major", "moderate", "minor"}},
		"confidence": {Type: genai.TypeNumber},
		"reasoning":  {Type: genai.TypeString},
	},
	Required: []string{"domain", "severity", "confidence", "reasoning"},
}

func (g GeminiAdapter) Name() string { return "gemini" }

func (g GeminiAdapter) Analyze(ctx context.Context, req Request) (models.AIAnalysis, error) {
	if strings.TrimSpace(g.APIKey) == "" {
		return models.AIAnalysis{}, ErrNoCredentials
	}
	model := g.Model
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  g.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: strings.TrimSpace(g.BaseURL)},
	})
	if err != nil {
		return models.AIAnalysis{}, fmt.Errorf("gemini client: %w", err)
	}

	var parts []*genai.Part
	if req.Image != nil {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: req.Image.MIMEType, Data: req.Image.Data}})
	}
	parts = append(parts, &genai.Part{Text: buildPrompt(req.Description)})

	resp, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: parts}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   geminiResponseSchema,
		})
	if err != nil {
		return models.AIAnalysis{}, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return models.AIAnalysis{}, ErrEmptyResponse
	}
	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			text.WriteString(p.Text)
		}
	}
	return parseAnalysis(text.String())
}
