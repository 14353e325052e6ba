package types

import (
	"time"

	"github.com/google/uuid"
)

// ChanceLevel is a coarse categorical summary of a numeric match score.
type ChanceLevel string

const (
	ChanceHigh        ChanceLevel = "High Chance"
	ChanceCompetitive ChanceLevel = "Competitive"
	ChanceLongShot    ChanceLevel = "Long Shot"
)

// ChanceLevelForScore buckets a total score into a chance level.
// Boundaries are inclusive: 80 is a high chance, 60 is competitive.
func ChanceLevelForScore(total float64) ChanceLevel {
	switch {
	case total >= 80:
		return ChanceHigh
	case total >= 60:
		return ChanceCompetitive
	default:
		return ChanceLongShot
	}
}

// FactorBreakdown holds the weighted contribution of each scoring factor to
// the total score. Values are post-weight, so they sum (with capping) to the
// total.
type FactorBreakdown struct {
	GPA              float64 `json:"gpa_weight"`
	Major            float64 `json:"major_weight"`
	Demographics     float64 `json:"demographics_weight"`
	Geography        float64 `json:"geography_weight"`
	Extracurriculars float64 `json:"extracurriculars_weight"`
	AIConfidence     float64 `json:"ai_confidence_score"`
}

// Match is a scored, persisted association between one student and one
// scholarship. The natural key is (StudentID, ScholarshipID); at most one
// row exists per pair and regeneration updates it in place, preserving the
// bookmark and dismiss flags.
type Match struct {
	ID            uuid.UUID       `json:"id"`
	StudentID     uuid.UUID       `json:"student_id"`
	ScholarshipID uuid.UUID       `json:"scholarship_id"`
	MatchScore    int             `json:"match_score"`
	MatchReason   []string        `json:"match_reason"`
	ChanceLevel   ChanceLevel     `json:"chance_level"`
	Explanation   FactorBreakdown `json:"explanation_metadata"`
	IsBookmarked  bool            `json:"is_bookmarked"`
	IsDismissed   bool            `json:"is_dismissed"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ScoringFactors is an append-only audit record of the factor breakdown
// behind one persisted match write. A new row is added every time a match is
// inserted or refreshed, so score history survives regeneration.
type ScoringFactors struct {
	ID               uuid.UUID `json:"id"`
	MatchID          uuid.UUID `json:"match_id"`
	Breakdown        FactorBreakdown `json:"breakdown"`
	AlgorithmVersion string    `json:"algorithm_version"`
	CreatedAt        time.Time `json:"created_at"`
}
