package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caleb/scholarmatch/internal/types"
)

// Store is the persistence surface the engine depends on. The production
// implementation lives in internal/db; tests substitute an in-memory fake.
type Store interface {
	// GetStudentProfile returns the profile, or (nil, nil) when absent.
	GetStudentProfile(ctx context.Context, id uuid.UUID) (*types.StudentProfile, error)
	// ListScholarships returns the catalog, active-only unless includeInactive.
	ListScholarships(ctx context.Context, includeInactive bool) ([]types.Scholarship, error)
	// UpsertMatch inserts or refreshes the match keyed on
	// (StudentID, ScholarshipID) atomically. Updates touch score, reason,
	// chance level, and explanation only; bookmark and dismiss flags are
	// preserved. On return the match carries its persisted ID, flags, and
	// creation time.
	UpsertMatch(ctx context.Context, match *types.Match) error
	// InsertScoringFactors appends one factor audit row.
	InsertScoringFactors(ctx context.Context, factors *types.ScoringFactors) error
	// InsertInteractions appends a batch of interaction events.
	InsertInteractions(ctx context.Context, events []types.InteractionEvent) error
	// InteractionMetrics aggregates interaction events in [from, to].
	InteractionMetrics(ctx context.Context, from, to time.Time) (*types.RecommendationMetrics, error)
}
