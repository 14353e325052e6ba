package types

import (
	"time"

	"github.com/google/uuid"
)

// EligibilityCriteria describes who a scholarship is open to. All fields are
// optional; an empty criteria set means the scholarship is open to everyone.
// Demographics maps a registry key (see DemographicKeys) to the accepted
// values for that attribute.
type EligibilityCriteria struct {
	MinGPA         *float64            `json:"min_gpa,omitempty"`
	AllowedMajors  []string            `json:"allowed_majors,omitempty"`
	AllowedStates  []string            `json:"allowed_states,omitempty"`
	AllowedRegions []string            `json:"allowed_regions,omitempty"`
	Demographics   map[string][]string `json:"demographics,omitempty"`
}

// Scholarship is a read-only catalog entity.
type Scholarship struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	Organization string              `json:"organization,omitempty"`
	Amount       int64               `json:"amount"`
	Deadline     time.Time           `json:"deadline"`
	Eligibility  EligibilityCriteria `json:"eligibility_criteria"`
	Requirements []string            `json:"requirements,omitempty"`
	IsActive     bool                `json:"is_active"`
	CreatedAt    time.Time           `json:"created_at"`
}
