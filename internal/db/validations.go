package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/caleb/scholarmatch/internal/types"
)

// InsertValidationRun appends one validation audit record.
func (s *Store) InsertValidationRun(ctx context.Context, run *types.ValidationRun) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO validation_runs
		   (fixture_id, algorithm_version, total_scholarships, top_n_results, top_n_scores,
		    expected_in_top_n, precision_at_n, recall_at_n, mean_average_score, execution_time_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, validated_at`,
		run.FixtureID, run.AlgorithmVersion, run.TotalScholarships, run.TopNResults,
		run.TopNScores, run.ExpectedInTopN, run.PrecisionAtN, run.RecallAtN,
		run.MeanAverageScore, run.ExecutionTimeMs,
	).Scan(&run.ID, &run.ValidatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert validation run: %w", err)
	}
	return nil
}

// ListValidationRuns returns the most recent validation history for a
// fixture, newest first.
func (s *Store) ListValidationRuns(ctx context.Context, fixtureID uuid.UUID, limit int) ([]types.ValidationRun, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, fixture_id, algorithm_version, total_scholarships, top_n_results, top_n_scores,
		        expected_in_top_n, precision_at_n, recall_at_n, mean_average_score, execution_time_ms, validated_at
		 FROM validation_runs
		 WHERE fixture_id = $1
		 ORDER BY validated_at DESC
		 LIMIT $2`,
		fixtureID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list validation runs: %w", err)
	}
	defer rows.Close()

	var runs []types.ValidationRun
	for rows.Next() {
		var run types.ValidationRun
		if err := rows.Scan(
			&run.ID, &run.FixtureID, &run.AlgorithmVersion, &run.TotalScholarships,
			&run.TopNResults, &run.TopNScores, &run.ExpectedInTopN, &run.PrecisionAtN,
			&run.RecallAtN, &run.MeanAverageScore, &run.ExecutionTimeMs, &run.ValidatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan validation run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read validation runs: %w", err)
	}
	return runs, nil
}
