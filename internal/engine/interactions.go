package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caleb/scholarmatch/internal/types"
)

// TrackInteraction records one interaction event per scholarship, ranked by
// position in the supplied sequence. Recording is best-effort: failures are
// logged and swallowed so they can never fail a recommendation flow.
func (e *Engine) TrackInteraction(ctx context.Context, userID, studentID uuid.UUID, scholarshipIDs []uuid.UUID, interactionType types.InteractionType, sessionID string) {
	if len(scholarshipIDs) == 0 {
		return
	}

	now := time.Now().UTC()
	events := make([]types.InteractionEvent, len(scholarshipIDs))
	for i, scholarshipID := range scholarshipIDs {
		events[i] = types.InteractionEvent{
			UserID:             userID,
			StudentID:          studentID,
			ScholarshipID:      scholarshipID,
			InteractionType:    interactionType,
			RecommendationRank: i + 1,
			SessionID:          sessionID,
			Timestamp:          now,
		}
	}

	if err := e.store.InsertInteractions(ctx, events); err != nil {
		e.logger.Error("failed to record recommendation interactions",
			zap.String("student_id", studentID.String()),
			zap.String("interaction_type", string(interactionType)),
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}

// RecommendationMetrics aggregates interaction KPIs over a date range. The
// denominator of every rate is the count of logged interaction events.
func (e *Engine) RecommendationMetrics(ctx context.Context, from, to time.Time) (*types.RecommendationMetrics, error) {
	metrics, err := e.store.InteractionMetrics(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation metrics: %w", err)
	}
	return metrics, nil
}
