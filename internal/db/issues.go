package db

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maintain_ai/backend/internal/models"
)

// CreateIssue persists a classified report. Status, progress and upvotes are
// always forced to their initial values.
func (s *Store) CreateIssue(in models.NewIssue) (models.Issue, error) {
	if strings.TrimSpace(in.ReporterID) == "" {
		return models.Issue{}, fmt.Errorf("%w: reporter id is required", ErrInvalidIssue)
	}
	if strings.TrimSpace(in.Title) == "" {
		return models.Issue{}, fmt.Errorf("%w: title is required", ErrInvalidIssue)
	}
	if !in.Category.Valid() {
		return models.Issue{}, fmt.Errorf("%w: unknown category %q", ErrInvalidIssue, in.Category)
	}
	severity, ok := models.ParseSeverity(string(in.Severity))
	if !ok {
		return models.Issue{}, fmt.Errorf("%w: unknown severity %q", ErrInvalidIssue, in.Severity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[in.ReporterID]; !ok {
		return models.Issue{}, fmt.Errorf("%w: %s", ErrReporterNotFound, in.ReporterID)
	}

	now := s.now()
	issue := models.Issue{
		ID:          s.newID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Severity:    severity,
		Status:      models.StatusOpen,
		Progress:    0,
		Location:    copyString(in.Location),
		ImageURLs:   copyStrings(in.ImageURLs),
		ReporterID:  in.ReporterID,
		AIAnalysis:  copyAnalysis(in.AIAnalysis),
		Upvotes:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.issues[issue.ID] = issueRecord{issue: issue, seq: s.nextSeq()}
	return cloneIssue(issue), nil
}

// GetAllIssues returns every issue joined with its reporter, newest first.
func (s *Store) GetAllIssues() []models.IssueWithReporter {
	return s.listIssues(func(models.Issue) bool { return true })
}

// GetUserIssues returns the issues reported by userID, newest first.
func (s *Store) GetUserIssues(userID string) []models.IssueWithReporter {
	return s.listIssues(func(i models.Issue) bool { return i.ReporterID == userID })
}

func (s *Store) listIssues(keep func(models.Issue) bool) []models.IssueWithReporter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]issueRecord, 0, len(s.issues))
	for _, rec := range s.issues {
		if keep(rec.issue) {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.issue.CreatedAt.Equal(b.issue.CreatedAt) {
			return a.issue.CreatedAt.After(b.issue.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]models.IssueWithReporter, 0, len(records))
	for _, rec := range records {
		reporter, ok := s.users[rec.issue.ReporterID]
		if !ok {
			reporter = unknownUser(rec.issue.ReporterID)
		}
		out = append(out, models.IssueWithReporter{Issue: cloneIssue(rec.issue), Reporter: reporter})
	}
	return out
}

func (s *Store) GetIssue(id string) (models.Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.issues[id]
	if !ok {
		return models.Issue{}, false
	}
	return cloneIssue(rec.issue), true
}

// UpdateIssue merges patch over the stored issue and refreshes updatedAt.
// It reports false for an unknown id. Field values are checked against the
// data model; lifecycle ordering is the service layer's concern.
func (s *Store) UpdateIssue(id string, patch models.IssuePatch) (models.Issue, bool, error) {
	return s.UpdateIssueFunc(id, func(models.Issue) (models.IssuePatch, error) { return patch, nil })
}

// UpdateIssueFunc derives the patch from the current issue under the write
// lock, so checks made by fn cannot race with other writers. fn must not call
// back into the Store.
func (s *Store) UpdateIssueFunc(id string, fn func(current models.Issue) (models.IssuePatch, error)) (models.Issue, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.issues[id]
	if !ok {
		return models.Issue{}, false, nil
	}
	patch, err := fn(cloneIssue(rec.issue))
	if err != nil {
		return models.Issue{}, true, err
	}
	issue := rec.issue

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return models.Issue{}, true, fmt.Errorf("%w: title cannot be empty", ErrInvalidIssue)
		}
		issue.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		issue.Description = *patch.Description
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return models.Issue{}, true, fmt.Errorf("%w: unknown category %q", ErrInvalidIssue, *patch.Category)
		}
		issue.Category = *patch.Category
	}
	if patch.Severity != nil {
		severity, ok := models.ParseSeverity(string(*patch.Severity))
		if !ok {
			return models.Issue{}, true, fmt.Errorf("%w: unknown severity %q", ErrInvalidIssue, *patch.Severity)
		}
		issue.Severity = severity
	}
	if patch.Status != nil {
		if patch.Status.Rank() < 0 {
			return models.Issue{}, true, fmt.Errorf("%w: unknown status %q", ErrInvalidIssue, *patch.Status)
		}
		issue.Status = *patch.Status
	}
	if patch.Progress != nil {
		if *patch.Progress < 0 || *patch.Progress > 100 {
			return models.Issue{}, true, fmt.Errorf("%w: progress %d out of range", ErrInvalidIssue, *patch.Progress)
		}
		issue.Progress = *patch.Progress
	}
	if patch.Location != nil {
		issue.Location = copyString(patch.Location)
	}
	if patch.ImageURLs != nil {
		issue.ImageURLs = copyStrings(patch.ImageURLs)
	}
	if patch.AssignedTechnicianID != nil {
		// An empty id clears the assignment.
		if *patch.AssignedTechnicianID == "" {
			issue.AssignedTechnicianID = nil
		} else {
			issue.AssignedTechnicianID = copyString(patch.AssignedTechnicianID)
		}
	}
	if patch.AIAnalysis != nil {
		if issue.AIAnalysis != nil {
			return models.Issue{}, true, fmt.Errorf("%w: ai analysis is immutable once set", ErrInvalidIssue)
		}
		issue.AIAnalysis = copyAnalysis(patch.AIAnalysis)
	}

	issue.UpdatedAt = s.now()
	rec.issue = issue
	s.issues[id] = rec
	return cloneIssue(issue), true, nil
}

// DeleteIssue removes the issue only. Its comments and voter set are left
// in place as orphans.
func (s *Store) DeleteIssue(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.issues[id]; !ok {
		return false
	}
	delete(s.issues, id)
	return true
}

// ToggleUpvote flips userID's vote on the issue and keeps the cached count
// equal to the voter set size. An unknown issue is reported as false and
// leaves the upvote relation untouched.
func (s *Store) ToggleUpvote(issueID, userID string) (models.UpvoteResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.issues[issueID]
	if !ok {
		return models.UpvoteResult{}, false
	}

	voters, ok := s.upvotes[issueID]
	if !ok {
		voters = map[string]struct{}{}
		s.upvotes[issueID] = voters
	}
	_, had := voters[userID]
	if had {
		delete(voters, userID)
	} else {
		voters[userID] = struct{}{}
	}

	rec.issue.Upvotes = len(voters)
	rec.issue.UpdatedAt = s.now()
	s.issues[issueID] = rec

	return models.UpvoteResult{Upvoted: !had, NewCount: len(voters)}, true
}

// HasUpvoted reports whether userID is in the issue's voter set.
func (s *Store) HasUpvoted(issueID, userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.upvotes[issueID][userID]
	return ok
}

// VoterCount is the size of the issue's voter set.
func (s *Store) VoterCount(issueID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.upvotes[issueID])
}

func cloneIssue(i models.Issue) models.Issue {
	i.Location = copyString(i.Location)
	i.ImageURLs = copyStrings(i.ImageURLs)
	i.AssignedTechnicianID = copyString(i.AssignedTechnicianID)
	i.AIAnalysis = copyAnalysis(i.AIAnalysis)
	return i
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyStrings(v []string) []string {
	out := make([]string, len(v))
	copy(out, v)
	return out
}

func copyAnalysis(a *models.AIAnalysis) *models.AIAnalysis {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
