package service

import (
	"fmt"
	"strings"

	"github.com/maintain_ai/backend/internal/models"
)

// UpdateIssue applies a lifecycle-checked patch. Status only moves forward
// along open, assigned, in_progress, resolved; progress never decreases and
// reaches 100 only when the issue is resolved. Resolving forces progress to
// 100. Attaching a technician to an open issue moves it to assigned, even
// when the patch names open; an assigned issue cannot drop its technician.
func (s *IssueService) UpdateIssue(id string, patch models.IssuePatch) (models.Issue, bool, error) {
	if patch.AssignedTechnicianID != nil && strings.TrimSpace(*patch.AssignedTechnicianID) != "" {
		if _, ok := s.Store.GetTechnician(*patch.AssignedTechnicianID); !ok {
			return models.Issue{}, false, fmt.Errorf("%w: %s", ErrTechnicianMissing, *patch.AssignedTechnicianID)
		}
	}

	issue, ok, err := s.Store.UpdateIssueFunc(id, func(current models.Issue) (models.IssuePatch, error) {
		return checkTransition(current, patch)
	})
	if err != nil || !ok {
		return issue, ok, err
	}
	s.Logger.Info().
		Str("issue_id", issue.ID).
		Str("status", string(issue.Status)).
		Int("progress", issue.Progress).
		Msg("issue updated")
	return issue, true, nil
}

// Assign attaches a technician. An empty technicianID picks one with
// SuggestTechnician.
func (s *IssueService) Assign(id, technicianID string) (models.Issue, bool, error) {
	current, ok := s.Store.GetIssue(id)
	if !ok {
		return models.Issue{}, false, nil
	}
	if strings.TrimSpace(technicianID) == "" {
		tech, err := SuggestTechnician(current, s.Store.GetTechnicians(), s.technicianLoads())
		if err != nil {
			return models.Issue{}, true, err
		}
		technicianID = tech.ID
	}
	return s.UpdateIssue(id, models.IssuePatch{AssignedTechnicianID: &technicianID})
}

// technicianLoads counts unresolved issues per assigned technician.
func (s *IssueService) technicianLoads() map[string]int {
	loads := map[string]int{}
	for _, item := range s.Store.GetAllIssues() {
		if item.AssignedTechnicianID == nil || item.Status == models.StatusResolved {
			continue
		}
		loads[*item.AssignedTechnicianID]++
	}
	return loads
}

func checkTransition(current models.Issue, patch models.IssuePatch) (models.IssuePatch, error) {
	status := current.Status
	if patch.Status != nil {
		next := *patch.Status
		if next.Rank() < 0 {
			return patch, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
		}
		if next.Rank() < current.Status.Rank() {
			return patch, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, next)
		}
		status = next
	}

	if patch.AssignedTechnicianID != nil {
		attaching := strings.TrimSpace(*patch.AssignedTechnicianID) != ""
		switch {
		case attaching && status == models.StatusOpen:
			assigned := models.StatusAssigned
			patch.Status = &assigned
			status = assigned
		case !attaching && status == models.StatusAssigned:
			return patch, fmt.Errorf("%w: assigned issue needs a technician", ErrInvalidTransition)
		}
	}

	progress := current.Progress
	if patch.Progress != nil {
		next := *patch.Progress
		if next < 0 || next > 100 {
			return patch, fmt.Errorf("%w: %d out of range", ErrInvalidProgress, next)
		}
		if next < current.Progress {
			return patch, fmt.Errorf("%w: %d below current %d", ErrInvalidProgress, next, current.Progress)
		}
		progress = next
	}

	if status == models.StatusResolved {
		if progress != 100 {
			full := 100
			patch.Progress = &full
		}
	} else if progress == 100 {
		return patch, fmt.Errorf("%w: 100 requires status resolved", ErrInvalidProgress)
	}
	return patch, nil
}
