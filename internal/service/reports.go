package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/maintain_ai/backend/internal/ai"
	"github.com/maintain_ai/backend/internal/db"
	"github.com/maintain_ai/backend/internal/models"
)

type ReportInput struct {
	Title       string
	Description string
	Location    *string
	ImageURLs   []string
	// ImageDataURL is an optional "data:<mime>;base64,..." image forwarded to
	// the classifier. Malformed values are ignored.
	ImageDataURL string
	ReporterID   string
}

// SubmitReport classifies the report and stores it as a new open issue.
// Classification never fails the submission; only store validation does.
func (s *IssueService) SubmitReport(ctx context.Context, in ReportInput) (models.Issue, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Issue{}, fmt.Errorf("%w: title is required", db.ErrInvalidIssue)
	}
	if _, ok := s.Store.GetUser(in.ReporterID); !ok {
		return models.Issue{}, fmt.Errorf("%w: %s", db.ErrReporterNotFound, in.ReporterID)
	}

	req := ai.Request{Description: reportText(in.Title, in.Description)}
	if img, ok := ai.ParseDataURL(in.ImageDataURL); ok {
		req.Image = img
	}
	analysis := s.classify(ctx, req)

	issue, err := s.Store.CreateIssue(models.NewIssue{
		Title:       in.Title,
		Description: in.Description,
		Category:    analysis.Category,
		Severity:    analysis.Severity,
		Location:    in.Location,
		ImageURLs:   in.ImageURLs,
		ReporterID:  in.ReporterID,
		AIAnalysis:  &analysis,
	})
	if err != nil {
		return models.Issue{}, err
	}

	s.Metrics.IssueCreated(string(issue.Category))
	s.Logger.Info().
		Str("issue_id", issue.ID).
		Str("category", string(issue.Category)).
		Str("severity", string(issue.Severity)).
		Float64("confidence", analysis.Confidence).
		Msg("report submitted")
	return issue, nil
}

// Preview classifies without persisting anything.
func (s *IssueService) Preview(ctx context.Context, description, imageDataURL string) models.AIAnalysis {
	req := ai.Request{Description: description}
	if img, ok := ai.ParseDataURL(imageDataURL); ok {
		req.Image = img
	}
	return s.classify(ctx, req)
}

func (s *IssueService) classify(ctx context.Context, req ai.Request) models.AIAnalysis {
	if s.Classifier == nil {
		return ai.Fallback(req.Description)
	}
	return s.Classifier.Classify(ctx, req)
}

// reportText is what the classifier reads: the description, or the title when
// the description is blank.
func reportText(title, description string) string {
	if strings.TrimSpace(description) == "" {
		return strings.TrimSpace(title)
	}
	return description
}
