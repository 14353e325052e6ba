package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/caleb/scholarmatch/internal/types"
)

// ListScholarships returns the scholarship catalog ordered by deadline,
// newest first. Inactive scholarships are excluded unless includeInactive.
func (s *Store) ListScholarships(ctx context.Context, includeInactive bool) ([]types.Scholarship, error) {
	query := `SELECT id, title, description, organization, amount, deadline,
	                 eligibility_criteria, requirements, is_active, created_at
	          FROM scholarships`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY deadline DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scholarships: %w", err)
	}
	defer rows.Close()

	var scholarships []types.Scholarship
	for rows.Next() {
		var (
			sch      types.Scholarship
			criteria []byte
		)
		if err := rows.Scan(
			&sch.ID, &sch.Title, &sch.Description, &sch.Organization, &sch.Amount,
			&sch.Deadline, &criteria, &sch.Requirements, &sch.IsActive, &sch.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan scholarship: %w", err)
		}
		if len(criteria) > 0 {
			if err := json.Unmarshal(criteria, &sch.Eligibility); err != nil {
				return nil, fmt.Errorf("failed to decode eligibility criteria: %w", err)
			}
		}
		scholarships = append(scholarships, sch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scholarships: %w", err)
	}
	return scholarships, nil
}

// CountScholarships returns the total catalog size, active or not.
func (s *Store) CountScholarships(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scholarships`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count scholarships: %w", err)
	}
	return count, nil
}

// CreateScholarship inserts a catalog entry and fills its generated ID and
// creation time. Catalog curation belongs to the hosting application; this
// is here for seeding and tooling.
func (s *Store) CreateScholarship(ctx context.Context, sch *types.Scholarship) error {
	criteria, err := json.Marshal(sch.Eligibility)
	if err != nil {
		return fmt.Errorf("failed to marshal eligibility criteria: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO scholarships
		   (title, description, organization, amount, deadline, eligibility_criteria, requirements, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		sch.Title, sch.Description, sch.Organization, sch.Amount, sch.Deadline,
		criteria, sch.Requirements, sch.IsActive,
	).Scan(&sch.ID, &sch.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create scholarship: %w", err)
	}
	return nil
}
