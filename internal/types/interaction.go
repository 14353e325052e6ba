package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InteractionType classifies a recommendation interaction event.
type InteractionType string

const (
	InteractionView         InteractionType = "view"
	InteractionClickDetails InteractionType = "click_details"
	InteractionSave         InteractionType = "save"
	InteractionDismiss      InteractionType = "dismiss"
	InteractionApply        InteractionType = "apply"
)

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionClickDetails, InteractionSave, InteractionDismiss, InteractionApply:
		return true
	}
	return false
}

// ParseInteractionType converts a string to an InteractionType.
func ParseInteractionType(s string) (InteractionType, error) {
	t := InteractionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown interaction type: %q", s)
	}
	return t, nil
}

// InteractionEvent records one interaction against a recommended scholarship.
// Events are append-only; RecommendationRank is the 1-based position the
// scholarship held in the recommendation list the user saw.
type InteractionEvent struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             uuid.UUID       `json:"user_id"`
	StudentID          uuid.UUID       `json:"student_id"`
	ScholarshipID      uuid.UUID       `json:"scholarship_id"`
	InteractionType    InteractionType `json:"interaction_type"`
	RecommendationRank int             `json:"recommendation_rank"`
	SessionID          string          `json:"session_id,omitempty"`
	Timestamp          time.Time       `json:"timestamp"`
}

// RecommendationMetrics aggregates interaction events over a date range.
// TotalRecommendations counts logged interaction events, not generation
// calls; every rate below uses that event count as its denominator.
type RecommendationMetrics struct {
	TotalRecommendations      int     `json:"total_recommendations"`
	TotalClicks               int     `json:"total_clicks"`
	TotalSaves                int     `json:"total_saves"`
	TotalApplies              int     `json:"total_applies"`
	ClickThroughRate          float64 `json:"click_through_rate"`
	SaveRate                  float64 `json:"save_rate"`
	ApplyRate                 float64 `json:"apply_rate"`
	AverageRecommendationRank float64 `json:"average_recommendation_rank"`
}
