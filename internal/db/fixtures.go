package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/caleb/scholarmatch/internal/types"
)

// ListActiveFixtures returns every active validation fixture, newest first.
func (s *Store) ListActiveFixtures(ctx context.Context) ([]types.Fixture, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, student_profile, expected_scholarships,
		        top_n_threshold, minimum_score, tags, is_active, created_at
		 FROM recommendation_fixtures
		 WHERE is_active = TRUE
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []types.Fixture
	for rows.Next() {
		var (
			fixture types.Fixture
			profile []byte
		)
		if err := rows.Scan(
			&fixture.ID, &fixture.Name, &fixture.Description, &profile,
			&fixture.ExpectedScholarships, &fixture.TopNThreshold, &fixture.MinimumScore,
			&fixture.Tags, &fixture.IsActive, &fixture.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fixture: %w", err)
		}
		if len(profile) > 0 {
			if err := json.Unmarshal(profile, &fixture.StudentProfile); err != nil {
				return nil, fmt.Errorf("failed to decode fixture profile: %w", err)
			}
		}
		fixtures = append(fixtures, fixture)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return fixtures, nil
}

// CountFixtures returns the number of fixtures, active or not.
func (s *Store) CountFixtures(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM recommendation_fixtures`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fixtures: %w", err)
	}
	return count, nil
}

// InsertFixture stores one author-curated fixture and fills its generated ID
// and creation time.
func (s *Store) InsertFixture(ctx context.Context, fixture *types.Fixture) error {
	profile, err := json.Marshal(fixture.StudentProfile)
	if err != nil {
		return fmt.Errorf("failed to marshal fixture profile: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO recommendation_fixtures
		   (name, description, student_profile, expected_scholarships, top_n_threshold, minimum_score, tags, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		fixture.Name, fixture.Description, profile, fixture.ExpectedScholarships,
		fixture.TopNThreshold, fixture.MinimumScore, fixture.Tags, fixture.IsActive,
	).Scan(&fixture.ID, &fixture.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert fixture: %w", err)
	}
	return nil
}
