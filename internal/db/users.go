package db

import (
	"fmt"
	"strings"

	"github.com/maintain_ai/backend/internal/models"
)

// unknownUser stands in for a reporter record that no longer exists so the
// issue join never drops an issue.
func unknownUser(id string) models.User {
	return models.User{
		ID:               id,
		Username:         "Unknown User",
		Email:            "unknown@maintain.ai",
		Role:             models.RoleUser,
		CredibilityScore: 0,
		ExternalAuthID:   "unknown",
	}
}

func (s *Store) CreateUser(u models.User) (models.User, error) {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", ErrInvalidUser)
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Role != models.RoleUser && u.Role != models.RoleAdmin {
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidUser, u.Role)
	}
	if u.CredibilityScore == 0 {
		u.CredibilityScore = models.DefaultCredibilityScore
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if u.ExternalAuthID != "" && existing.ExternalAuthID == u.ExternalAuthID {
			return models.User{}, fmt.Errorf("%w: external auth id %q", ErrDuplicateUser, u.ExternalAuthID)
		}
		if strings.EqualFold(existing.Username, u.Username) {
			return models.User{}, fmt.Errorf("%w: username %q", ErrDuplicateUser, u.Username)
		}
	}
	u.ID = s.newID()
	u.CreatedAt = s.now()
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *Store) GetUserByExternalAuthID(externalID string) (models.User, bool) {
	if externalID == "" {
		return models.User{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ExternalAuthID == externalID {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) GetUserByUsername(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}
