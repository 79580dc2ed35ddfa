package db

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maintain_ai/backend/internal/models"
)

// CreateTechnician stores a technician; status defaults to available.
func (s *Store) CreateTechnician(t models.Technician) (models.Technician, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return models.Technician{}, fmt.Errorf("%w: name is required", ErrInvalidTechnician)
	}
	t.Specialty = strings.TrimSpace(t.Specialty)
	if t.Specialty == "" {
		return models.Technician{}, fmt.Errorf("%w: specialty is required", ErrInvalidTechnician)
	}
	if t.Status == "" {
		t.Status = models.TechnicianAvailable
	}
	if !t.Status.Valid() {
		return models.Technician{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTechnician, t.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.newID()
	t.CreatedAt = s.now()
	t.Phone = copyString(t.Phone)
	t.Email = copyString(t.Email)
	s.technicians[t.ID] = t
	return t, nil
}

func (s *Store) GetTechnician(id string) (models.Technician, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.technicians[id]
	if !ok {
		return models.Technician{}, false
	}
	return cloneTechnician(t), true
}

// GetTechnicians lists technicians by name.
func (s *Store) GetTechnicians() []models.Technician {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Technician, 0, len(s.technicians))
	for _, t := range s.technicians {
		out = append(out, cloneTechnician(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) UpdateTechnician(id string, patch models.TechnicianPatch) (models.Technician, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.technicians[id]
	if !ok {
		return models.Technician{}, false, nil
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return models.Technician{}, true, fmt.Errorf("%w: name cannot be empty", ErrInvalidTechnician)
		}
		t.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Specialty != nil {
		if strings.TrimSpace(*patch.Specialty) == "" {
			return models.Technician{}, true, fmt.Errorf("%w: specialty cannot be empty", ErrInvalidTechnician)
		}
		t.Specialty = strings.TrimSpace(*patch.Specialty)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return models.Technician{}, true, fmt.Errorf("%w: unknown status %q", ErrInvalidTechnician, *patch.Status)
		}
		t.Status = *patch.Status
	}
	if patch.Phone != nil {
		t.Phone = copyString(patch.Phone)
	}
	if patch.Email != nil {
		t.Email = copyString(patch.Email)
	}
	s.technicians[id] = t
	return cloneTechnician(t), true, nil
}

func cloneTechnician(t models.Technician) models.Technician {
	t.Phone = copyString(t.Phone)
	t.Email = copyString(t.Email)
	return t
}
