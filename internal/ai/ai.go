package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"

	"github.com/maintain_ai/backend/internal/models"
)

// Adapter is an external classification service. Implementations return an
// error for anything short of a fully valid analysis; the Classifier turns
// every error into the fallback result.
type Adapter interface {
	Analyze(ctx context.Context, req Request) (models.AIAnalysis, error)
	Name() string
}

type Request struct {
	Description string
	Image       *Image
}

type Image struct {
	MIMEType string
	Data     []byte
}

var (
	ErrNoCredentials   = errors.New("classification service credentials not configured")
	ErrEmptyResponse   = errors.New("empty classification response")
	ErrInvalidResponse = errors.New("invalid classification response")
)

var dataURLPattern = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

// ParseDataURL decodes a "data:<mime>;base64,<payload>" image. Anything else
// yields (nil, false) and the report is classified on text alone.
func ParseDataURL(raw string) (*Image, bool) {
	matches := dataURLPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if matches == nil {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return &Image{MIMEType: matches[1], Data: data}, true
}
