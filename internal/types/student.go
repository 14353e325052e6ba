// Package types provides the domain types shared across the scholarship matching engine.
package types

import (
	"time"

	"github.com/google/uuid"
)

// DemographicKeys is the registry of demographic attributes the scorer
// understands. Profile and criteria maps may carry other keys, but only
// these participate in demographic scoring.
var DemographicKeys = []string{"ethnicity", "gender", "firstGeneration", "veteran", "disability"}

// StudentProfile holds the student-owned data the engine scores against.
// The engine treats profiles as read-only; creation and updates belong to
// the profile service.
type StudentProfile struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	GPA             *float64          `json:"gpa,omitempty"`
	Major           string            `json:"major,omitempty"`
	AcademicLevel   string            `json:"academic_level,omitempty"`
	GraduationYear  int               `json:"graduation_year,omitempty"`
	School          string            `json:"school,omitempty"`
	Location        string            `json:"location,omitempty"`
	Demographics    map[string]string `json:"demographics,omitempty"`
	Interests       []string          `json:"interests,omitempty"`
	Extracurriculars []string         `json:"extracurriculars,omitempty"`
	Achievements    []string          `json:"achievements,omitempty"`
	FinancialNeed   bool              `json:"financial_need"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
