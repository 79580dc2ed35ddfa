package service

import (
	"sort"

	"github.com/maintain_ai/backend/internal/geocode"
	"github.com/maintain_ai/backend/internal/models"
	"github.com/maintain_ai/backend/internal/utils"
)

type Stats struct {
	Total        int                             `json:"total"`
	TotalUpvotes int                             `json:"totalUpvotes"`
	ByStatus     map[models.IssueStatus]int      `json:"byStatus"`
	BySeverity   map[models.Severity]int         `json:"bySeverity"`
	ByCategory   map[models.Category]int         `json:"byCategory"`
	Technicians  map[models.TechnicianStatus]int `json:"technicians"`
}

// Stats summarizes the dashboard. Every status, severity and category is
// present even when its count is zero.
func (s *IssueService) Stats() Stats {
	st := Stats{
		ByStatus:    map[models.IssueStatus]int{},
		BySeverity:  map[models.Severity]int{},
		ByCategory:  map[models.Category]int{},
		Technicians: map[models.TechnicianStatus]int{},
	}
	for _, v := range models.IssueStatuses {
		st.ByStatus[v] = 0
	}
	for _, v := range models.Severities {
		st.BySeverity[v] = 0
	}
	for _, v := range models.Categories {
		st.ByCategory[v] = 0
	}
	for _, v := range []models.TechnicianStatus{models.TechnicianAvailable, models.TechnicianBusy, models.TechnicianOffline} {
		st.Technicians[v] = 0
	}

	for _, item := range s.Store.GetAllIssues() {
		st.Total++
		st.TotalUpvotes += item.Upvotes
		st.ByStatus[item.Status]++
		st.BySeverity[item.Severity]++
		st.ByCategory[item.Category]++
	}
	for _, t := range s.Store.GetTechnicians() {
		st.Technicians[t.Status]++
	}
	return st
}

type NearbyIssue struct {
	models.IssueWithReporter
	DistanceKm float64 `json:"distanceKm"`
}

// Nearby returns issues whose location embeds coordinates within radiusKm of
// the point, closest first. Issues without parseable coordinates are skipped.
func (s *IssueService) Nearby(lat, lon, radiusKm float64) []NearbyIssue {
	out := []NearbyIssue{}
	for _, item := range s.Store.GetAllIssues() {
		if item.Location == nil {
			continue
		}
		ilat, ilon, ok := geocode.ParseCoordinates(*item.Location)
		if !ok {
			continue
		}
		d := utils.HaversineKm(lat, lon, ilat, ilon)
		if d <= radiusKm {
			out = append(out, NearbyIssue{IssueWithReporter: item, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}
