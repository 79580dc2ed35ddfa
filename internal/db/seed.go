package db

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maintain_ai/backend/internal/category"
	"github.com/maintain_ai/backend/internal/models"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the demo data set. Records reference each other by key; ids are
// generated fresh on every load.
type Seed struct {
	Users       []SeedUser       `yaml:"users"`
	Technicians []SeedTechnician `yaml:"technicians"`
	Issues      []SeedIssue      `yaml:"issues"`
}

type SeedUser struct {
	Key              string      `yaml:"key"`
	Username         string      `yaml:"username"`
	Email            string      `yaml:"email"`
	Role             models.Role `yaml:"role"`
	CredibilityScore int         `yaml:"credibilityScore"`
	ExternalAuthID   string      `yaml:"externalAuthId"`
}

type SeedTechnician struct {
	Key       string                  `yaml:"key"`
	Name      string                  `yaml:"name"`
	Specialty string                  `yaml:"specialty"`
	Status    models.TechnicianStatus `yaml:"status"`
	Phone     string                  `yaml:"phone"`
	Email     string                  `yaml:"email"`
}

type SeedIssue struct {
	Title       string             `yaml:"title"`
	Description string             `yaml:"description"`
	Category    models.Category    `yaml:"category"`
	Severity    models.Severity    `yaml:"severity"`
	Status      models.IssueStatus `yaml:"status"`
	Progress    int                `yaml:"progress"`
	Location    string             `yaml:"location"`
	ImageURLs   []string           `yaml:"imageUrls"`
	Reporter    string             `yaml:"reporter"`
	Technician  string             `yaml:"technician"`
	Upvotes     int                `yaml:"upvotes"`
	AgeHours    int                `yaml:"ageHours"`
	AIAnalysis  *models.AIAnalysis `yaml:"aiAnalysis"`
}

// LoadSeed parses the embedded demo data.
func LoadSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}

func ParseSeed(raw []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &seed, nil
}

// seedVoterID names the synthetic voters that back seeded upvote counts so
// the cached count always matches the voter set.
func seedVoterID(n int) string {
	return fmt.Sprintf("seed-voter-%03d", n)
}

func (s *Store) applySeedLocked(seed *Seed) error {
	now := s.now()
	users := make(map[string]string, len(seed.Users))
	for _, su := range seed.Users {
		role := su.Role
		if role == "" {
			role = models.RoleUser
		}
		score := su.CredibilityScore
		if score == 0 {
			score = models.DefaultCredibilityScore
		}
		u := models.User{
			ID:               s.newID(),
			Username:         su.Username,
			Email:            su.Email,
			Role:             role,
			CredibilityScore: score,
			ExternalAuthID:   su.ExternalAuthID,
			CreatedAt:        now,
		}
		s.users[u.ID] = u
		users[su.Key] = u.ID
	}

	techs := make(map[string]string, len(seed.Technicians))
	for _, st := range seed.Technicians {
		status := st.Status
		if status == "" {
			status = models.TechnicianAvailable
		}
		if !status.Valid() {
			return fmt.Errorf("seed technician %q: unknown status %q", st.Key, status)
		}
		t := models.Technician{
			ID:        s.newID(),
			Name:      st.Name,
			Specialty: st.Specialty,
			Status:    status,
			Phone:     optionalString(st.Phone),
			Email:     optionalString(st.Email),
			CreatedAt: now,
		}
		s.technicians[t.ID] = t
		techs[st.Key] = t.ID
	}

	// Oldest first so insertion order agrees with createdAt.
	issues := make([]SeedIssue, len(seed.Issues))
	copy(issues, seed.Issues)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].AgeHours > issues[j].AgeHours })

	for _, si := range issues {
		reporterID, ok := users[si.Reporter]
		if !ok {
			return fmt.Errorf("seed issue %q: unknown reporter %q", si.Title, si.Reporter)
		}
		if !si.Category.Valid() {
			return fmt.Errorf("seed issue %q: unknown category %q", si.Title, si.Category)
		}
		severity, ok := models.ParseSeverity(string(si.Severity))
		if !ok {
			return fmt.Errorf("seed issue %q: unknown severity %q", si.Title, si.Severity)
		}
		status := si.Status
		if status == "" {
			status = models.StatusOpen
		}
		if status.Rank() < 0 {
			return fmt.Errorf("seed issue %q: unknown status %q", si.Title, si.Status)
		}

		var techID *string
		if si.Technician != "" {
			id, ok := techs[si.Technician]
			if !ok {
				return fmt.Errorf("seed issue %q: unknown technician %q", si.Title, si.Technician)
			}
			techID = &id
		}

		analysis := copyAnalysis(si.AIAnalysis)
		if analysis != nil && !analysis.Category.Valid() {
			analysis.Category = category.MapDomain(analysis.Domain)
		}

		issue := models.Issue{
			ID:                   s.newID(),
			Title:                strings.TrimSpace(si.Title),
			Description:          strings.TrimSpace(si.Description),
			Category:             si.Category,
			Severity:             severity,
			Status:               status,
			Progress:             si.Progress,
			Location:             optionalString(si.Location),
			ImageURLs:            copyStrings(si.ImageURLs),
			ReporterID:           reporterID,
			AssignedTechnicianID: techID,
			AIAnalysis:           analysis,
			CreatedAt:            now.Add(-time.Duration(si.AgeHours) * time.Hour),
			UpdatedAt:            now,
		}

		voters := make(map[string]struct{}, si.Upvotes)
		for n := 1; n <= si.Upvotes; n++ {
			voters[seedVoterID(n)] = struct{}{}
		}
		issue.Upvotes = len(voters)

		s.issues[issue.ID] = issueRecord{issue: issue, seq: s.nextSeq()}
		s.upvotes[issue.ID] = voters
	}
	return nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
