package service

import (
	"sort"
	"strings"

	"github.com/maintain_ai/backend/internal/models"
	"github.com/maintain_ai/backend/internal/utils"
)

const generalSpecialty = "General"

// specialtyFor names the technician specialty that serves a category.
func specialtyFor(c models.Category) string {
	switch c {
	case models.CategoryWaterDrainage:
		return "Plumbing"
	case models.CategoryElectricityLighting:
		return "Electrical"
	}
	return generalSpecialty
}

type technicianCandidate struct {
	tech  models.Technician
	match bool
	load  int
}

// SuggestTechnician picks an available technician for the issue. Specialists
// for the issue's category beat generalists, then lower unresolved load wins.
// The final choice among the two best is keyed on the issue id so repeated
// calls agree.
func SuggestTechnician(issue models.Issue, techs []models.Technician, loads map[string]int) (models.Technician, error) {
	want := specialtyFor(issue.Category)

	candidates := make([]technicianCandidate, 0, len(techs))
	for _, t := range techs {
		if t.Status != models.TechnicianAvailable {
			continue
		}
		match := strings.EqualFold(strings.TrimSpace(t.Specialty), want)
		if !match && !strings.EqualFold(strings.TrimSpace(t.Specialty), generalSpecialty) {
			continue
		}
		candidates = append(candidates, technicianCandidate{tech: t, match: match, load: loads[t.ID]})
	}
	if len(candidates) == 0 {
		return models.Technician{}, ErrNoTechnician
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.match != b.match {
			return a.match
		}
		if a.load != b.load {
			return a.load < b.load
		}
		return a.tech.ID < b.tech.ID
	})

	top := candidates
	if len(top) > 2 {
		top = top[:2]
	}
	// Only tie-break between equally ranked candidates.
	if len(top) == 2 && (top[0].match != top[1].match || top[0].load != top[1].load) {
		top = top[:1]
	}
	idx := int(utils.HashStringToUint64(issue.ID) % uint64(len(top)))
	return top[idx].tech, nil
}
