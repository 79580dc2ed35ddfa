package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const DefaultCredibilityScore = 7

type Category string

const (
	CategoryRoadsTransport          Category = "Roads & Transport"
	CategoryWaterDrainage           Category = "Water & Drainage"
	CategorySanitationWaste         Category = "Sanitation & Waste"
	CategoryElectricityLighting     Category = "Electricity & Lighting"
	CategoryPublicSafety            Category = "Public Safety"
	CategoryBuildingsInfrastructure Category = "Buildings & Infrastructure"
	CategoryEnvironmentPollution    Category = "Environment & Pollution"
	CategoryMiscellaneous           Category = "Miscellaneous"
)

// Categories lists the closed set in dashboard order.
var Categories = []Category{
	CategoryRoadsTransport,
	CategoryWaterDrainage,
	CategorySanitationWaste,
	CategoryElectricityLighting,
	CategoryPublicSafety,
	CategoryBuildingsInfrastructure,
	CategoryEnvironmentPollution,
	CategoryMiscellaneous,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

var Severities = []Severity{SeverityCritical, SeverityMajor, SeverityModerate, SeverityMinor}

// ParseSeverity canonicalizes case-insensitive input.
func ParseSeverity(value string) (Severity, bool) {
	s := Severity(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Severities {
		if s == known {
			return s, true
		}
	}
	return "", false
}

type IssueStatus string

const (
	StatusOpen       IssueStatus = "open"
	StatusAssigned   IssueStatus = "assigned"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
)

var IssueStatuses = []IssueStatus{StatusOpen, StatusAssigned, StatusInProgress, StatusResolved}

// Rank orders statuses along the lifecycle; unknown statuses rank -1.
func (s IssueStatus) Rank() int {
	for i, known := range IssueStatuses {
		if s == known {
			return i
		}
	}
	return -1
}

type TechnicianStatus string

const (
	TechnicianAvailable TechnicianStatus = "available"
	TechnicianBusy      TechnicianStatus = "busy"
	TechnicianOffline   TechnicianStatus = "offline"
)

func (s TechnicianStatus) Valid() bool {
	switch s {
	case TechnicianAvailable, TechnicianBusy, TechnicianOffline:
		return true
	}
	return false
}

type User struct {
	ID               string    `json:"id" yaml:"id"`
	Username         string    `json:"username" yaml:"username"`
	Email            string    `json:"email" yaml:"email"`
	Role             Role      `json:"role" yaml:"role"`
	CredibilityScore int       `json:"credibilityScore" yaml:"credibilityScore"`
	ExternalAuthID   string    `json:"externalAuthId" yaml:"externalAuthId"`
	CreatedAt        time.Time `json:"createdAt" yaml:"-"`
}

// AIAnalysis is the classifier's result as stored on an issue.
type AIAnalysis struct {
	Domain     string   `json:"domain" yaml:"domain"`
	Category   Category `json:"category" yaml:"category"`
	Severity   Severity `json:"severity" yaml:"severity"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Reasoning  string   `json:"reasoning" yaml:"reasoning"`
}

type Issue struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	Category             Category    `json:"category"`
	Severity             Severity    `json:"severity"`
	Status               IssueStatus `json:"status"`
	Progress             int         `json:"progress"`
	Location             *string     `json:"location"`
	ImageURLs            []string    `json:"imageUrls"`
	ReporterID           string      `json:"reporterId"`
	AssignedTechnicianID *string     `json:"assignedTechnicianId"`
	AIAnalysis           *AIAnalysis `json:"aiAnalysis"`
	Upvotes              int         `json:"upvotes"`
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
}

// IssueWithReporter is the feed/dashboard join of an issue and its reporter.
type IssueWithReporter struct {
	Issue
	Reporter User `json:"reporter"`
}

// NewIssue is the input to Store.CreateIssue. Lifecycle fields are not
// accepted here; the store forces them.
type NewIssue struct {
	Title       string
	Description string
	Category    Category
	Severity    Severity
	Location    *string
	ImageURLs   []string
	ReporterID  string
	AIAnalysis  *AIAnalysis
}

// IssuePatch carries the fields an update may merge. Nil means unchanged.
// Upvotes are owned by the upvote relation and cannot be patched.
type IssuePatch struct {
	Title                *string
	Description          *string
	Category             *Category
	Severity             *Severity
	Status               *IssueStatus
	Progress             *int
	Location             *string
	ImageURLs            []string
	AssignedTechnicianID *string
	AIAnalysis           *AIAnalysis
}

type Technician struct {
	ID        string           `json:"id" yaml:"id"`
	Name      string           `json:"name" yaml:"name"`
	Specialty string           `json:"specialty" yaml:"specialty"`
	Status    TechnicianStatus `json:"status" yaml:"status"`
	Phone     *string          `json:"phone" yaml:"phone"`
	Email     *string          `json:"email" yaml:"email"`
	CreatedAt time.Time        `json:"createdAt" yaml:"-"`
}

type TechnicianPatch struct {
	Name      *string
	Specialty *string
	Status    *TechnicianStatus
	Phone     *string
	Email     *string
}

type Comment struct {
	ID        string    `json:"id"`
	IssueID   string    `json:"issueId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type UpvoteResult struct {
	Upvoted  bool `json:"upvoted"`
	NewCount int  `json:"newCount"`
}
