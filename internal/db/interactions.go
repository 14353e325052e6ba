package db

import (
	"context"
	"fmt"
	"time"

	"github.com/caleb/scholarmatch/internal/types"
)

// InsertInteractions appends a batch of interaction events.
func (s *Store) InsertInteractions(ctx context.Context, events []types.InteractionEvent) error {
	for _, e := range events {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO recommendation_interactions
			   (user_id, student_id, scholarship_id, interaction_type, recommendation_rank, session_id, "timestamp")
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.UserID, e.StudentID, e.ScholarshipID, string(e.InteractionType),
			e.RecommendationRank, e.SessionID, e.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert interaction: %w", err)
		}
	}
	return nil
}

// InteractionMetrics aggregates interaction events in [from, to]. The
// denominator of every rate is the total event count in the range.
func (s *Store) InteractionMetrics(ctx context.Context, from, to time.Time) (*types.RecommendationMetrics, error) {
	var (
		metrics types.RecommendationMetrics
		avgRank float64
	)
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE interaction_type = 'click_details'),
		        COUNT(*) FILTER (WHERE interaction_type = 'save'),
		        COUNT(*) FILTER (WHERE interaction_type = 'apply'),
		        COALESCE(AVG(recommendation_rank), 0)
		 FROM recommendation_interactions
		 WHERE "timestamp" >= $1 AND "timestamp" <= $2`,
		from, to,
	).Scan(&metrics.TotalRecommendations, &metrics.TotalClicks, &metrics.TotalSaves,
		&metrics.TotalApplies, &avgRank)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate interaction metrics: %w", err)
	}

	metrics.AverageRecommendationRank = avgRank
	if metrics.TotalRecommendations > 0 {
		total := float64(metrics.TotalRecommendations)
		metrics.ClickThroughRate = float64(metrics.TotalClicks) / total
		metrics.SaveRate = float64(metrics.TotalSaves) / total
		metrics.ApplyRate = float64(metrics.TotalApplies) / total
	}
	return &metrics, nil
}
