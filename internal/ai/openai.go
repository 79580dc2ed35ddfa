package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/maintain_ai/backend/internal/models"
)

// OpenAIAdapter classifies through any OpenAI-compatible chat completions
// endpoint, including Gemini's compatibility layer.
type OpenAIAdapter struct {
	client *openai.Client
	model  string
	ready  bool
}

var analysisSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"domain":     {Type: jsonschema.String},
		"severity":   {Type: jsonschema.String, Enum: []string{"critical", "major", "moderate", "minor"}},
		"confidence": {Type: jsonschema.Number},
		"reasoning":  {Type: jsonschema.String},
	},
	Required: []string{"domain", "severity", "confidence", "reasoning"},
}

func NewOpenAIAdapter(baseURL, apiKey, model string) *OpenAIAdapter {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		ready:  strings.TrimSpace(apiKey) != "",
	}
}

func (o *OpenAIAdapter) Name() string { return "openai" }

func (o *OpenAIAdapter) Analyze(ctx context.Context, req Request) (models.AIAnalysis, error) {
	if o == nil || !o.ready {
		return models.AIAnalysis{}, ErrNoCredentials
	}

	parts := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: buildPrompt(req.Description),
	}}
	if req.Image != nil {
		dataURL := fmt.Sprintf("data:%s;base64,%s", req.Image.MIMEType, base64.StdEncoding.EncodeToString(req.Image.Data))
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailAuto},
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		}},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "maintenance_analysis",
				Schema: &analysisSchema,
			},
		},
	})
	if err != nil {
		return models.AIAnalysis{}, err
	}
	if len(resp.Choices) == 0 {
		return models.AIAnalysis{}, ErrEmptyResponse
	}
	return parseAnalysis(resp.Choices[0].Message.Content)
}
