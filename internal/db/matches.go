package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/caleb/scholarmatch/internal/types"
)

// UpsertMatch atomically inserts or refreshes a match on its natural key
// (student_id, scholarship_id). Updates rewrite the score, reasons, chance
// level, and explanation; the bookmark and dismiss flags are left alone. On
// return the match carries its persisted ID, flags, and creation time.
func (s *Store) UpsertMatch(ctx context.Context, match *types.Match) error {
	explanation, err := json.Marshal(match.Explanation)
	if err != nil {
		return fmt.Errorf("failed to marshal explanation metadata: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO scholarship_matches
		   (student_id, scholarship_id, match_score, match_reason, chance_level, explanation_metadata)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (student_id, scholarship_id) DO UPDATE
		   SET match_score = EXCLUDED.match_score,
		       match_reason = EXCLUDED.match_reason,
		       chance_level = EXCLUDED.chance_level,
		       explanation_metadata = EXCLUDED.explanation_metadata
		 RETURNING id, is_bookmarked, is_dismissed, created_at`,
		match.StudentID, match.ScholarshipID, match.MatchScore, match.MatchReason,
		string(match.ChanceLevel), explanation,
	).Scan(&match.ID, &match.IsBookmarked, &match.IsDismissed, &match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}
	return nil
}

// InsertScoringFactors appends one factor audit row for a persisted match.
func (s *Store) InsertScoringFactors(ctx context.Context, factors *types.ScoringFactors) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO match_scoring_factors
		   (match_id, gpa_weight, major_weight, demographics_weight, geography_weight,
		    extracurriculars_weight, ai_confidence_score, algorithm_version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		factors.MatchID, factors.Breakdown.GPA, factors.Breakdown.Major,
		factors.Breakdown.Demographics, factors.Breakdown.Geography,
		factors.Breakdown.Extracurriculars, factors.Breakdown.AIConfidence,
		factors.AlgorithmVersion,
	).Scan(&factors.ID, &factors.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert scoring factors: %w", err)
	}
	return nil
}
