package types

import (
	"time"

	"github.com/google/uuid"
)

// Fixture pairs a curated synthetic student profile with the scholarships a
// correct ranking is expected to surface. Fixtures are author-curated ground
// truth and are never mutated by the engine.
type Fixture struct {
	ID                   uuid.UUID      `json:"id"`
	Name                 string         `json:"name"`
	Description          string         `json:"description,omitempty"`
	StudentProfile       StudentProfile `json:"student_profile"`
	ExpectedScholarships []uuid.UUID    `json:"expected_scholarships"`
	TopNThreshold        int            `json:"top_n_threshold"`
	MinimumScore         int            `json:"minimum_score"`
	Tags                 []string       `json:"tags,omitempty"`
	IsActive             bool           `json:"is_active"`
	CreatedAt            time.Time      `json:"created_at"`
}

// ValidationRun is an append-only audit record of one fixture validation,
// kept for longitudinal regression tracking across algorithm versions.
type ValidationRun struct {
	ID                uuid.UUID   `json:"id"`
	FixtureID         uuid.UUID   `json:"fixture_id"`
	AlgorithmVersion  string      `json:"algorithm_version"`
	TotalScholarships int         `json:"total_scholarships"`
	TopNResults       []uuid.UUID `json:"top_n_results"`
	TopNScores        []int       `json:"top_n_scores"`
	ExpectedInTopN    int         `json:"expected_in_top_n"`
	PrecisionAtN      float64     `json:"precision_at_n"`
	RecallAtN         float64     `json:"recall_at_n"`
	MeanAverageScore  float64     `json:"mean_average_score"`
	ExecutionTimeMs   int64       `json:"execution_time_ms"`
	ValidatedAt       time.Time   `json:"validated_at"`
}
