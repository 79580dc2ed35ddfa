package db

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maintain_ai/backend/internal/models"
)

var (
	ErrInvalidIssue      = errors.New("invalid issue")
	ErrReporterNotFound  = errors.New("reporter not found")
	ErrIssueNotFound     = errors.New("issue not found")
	ErrInvalidUser       = errors.New("invalid user")
	ErrDuplicateUser     = errors.New("user already exists")
	ErrInvalidTechnician = errors.New("invalid technician")
	ErrInvalidComment    = errors.New("invalid comment")
)

// Store owns every record kind and the upvote relation for the life of the
// process. All access goes through one RWMutex; compound operations such as
// ToggleUpvote run entirely under the write lock.
type Store struct {
	mu          sync.RWMutex
	users       map[string]models.User
	issues      map[string]issueRecord
	technicians map[string]models.Technician
	comments    map[string]models.Comment
	upvotes     map[string]map[string]struct{}
	seq         uint64

	seed  *Seed
	now   func() time.Time
	newID func() string
}

// issueRecord pairs an issue with its insertion sequence, which breaks ties
// between equal createdAt timestamps when listing.
type issueRecord struct {
	issue models.Issue
	seq   uint64
}

type Option func(*Store)

// WithSeed loads the given demo data on construction and on every Reset.
func WithSeed(seed *Seed) Option {
	return func(s *Store) { s.seed = seed }
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func New(opts ...Option) (*Store, error) {
	s := &Store{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset drops every record and re-applies the seed, if any.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = map[string]models.User{}
	s.issues = map[string]issueRecord{}
	s.technicians = map[string]models.Technician{}
	s.comments = map[string]models.Comment{}
	s.upvotes = map[string]map[string]struct{}{}
	s.seq = 0

	if s.seed == nil {
		return nil
	}
	return s.applySeedLocked(s.seed)
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() {}

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}
