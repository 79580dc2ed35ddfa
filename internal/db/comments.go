package db

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maintain_ai/backend/internal/models"
)

// CreateComment attaches a comment to an existing issue.
func (s *Store) CreateComment(issueID, authorID, body string) (models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return models.Comment{}, fmt.Errorf("%w: body is required", ErrInvalidComment)
	}
	if strings.TrimSpace(authorID) == "" {
		return models.Comment{}, fmt.Errorf("%w: author is required", ErrInvalidComment)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.issues[issueID]; !ok {
		return models.Comment{}, fmt.Errorf("%w: %s", ErrIssueNotFound, issueID)
	}
	c := models.Comment{
		ID:        s.newID(),
		IssueID:   issueID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: s.now(),
	}
	s.comments[c.ID] = c
	return c, nil
}

// GetCommentsByIssueID returns the thread oldest first. Comments of a deleted
// issue are still returned.
func (s *Store) GetCommentsByIssueID(issueID string) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Comment{}
	for _, c := range s.comments {
		if c.IssueID == issueID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
