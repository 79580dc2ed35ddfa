package service

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/maintain_ai/backend/internal/ai"
	"github.com/maintain_ai/backend/internal/db"
	"github.com/maintain_ai/backend/internal/metrics"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidProgress   = errors.New("invalid progress")
	ErrTechnicianMissing = errors.New("technician not found")
	ErrNoTechnician      = errors.New("no available technician")
)

// IssueService applies the report and lifecycle rules on top of the Store.
type IssueService struct {
	Store      *db.Store
	Classifier *ai.Classifier
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
}
