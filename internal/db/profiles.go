package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caleb/scholarmatch/internal/types"
)

// GetStudentProfile retrieves a student profile by ID. Returns (nil, nil)
// when no profile exists.
func (s *Store) GetStudentProfile(ctx context.Context, id uuid.UUID) (*types.StudentProfile, error) {
	var (
		profile      types.StudentProfile
		demographics []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, gpa, major, academic_level, graduation_year, school, location,
		        demographics, interests, extracurriculars, achievements, financial_need,
		        created_at, updated_at
		 FROM student_profiles WHERE id = $1`,
		id,
	).Scan(
		&profile.ID, &profile.UserID, &profile.GPA, &profile.Major, &profile.AcademicLevel,
		&profile.GraduationYear, &profile.School, &profile.Location, &demographics,
		&profile.Interests, &profile.Extracurriculars, &profile.Achievements,
		&profile.FinancialNeed, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	if len(demographics) > 0 {
		if err := json.Unmarshal(demographics, &profile.Demographics); err != nil {
			return nil, fmt.Errorf("failed to decode demographics: %w", err)
		}
	}

	return &profile, nil
}

// CreateStudentProfile inserts a profile and fills its generated ID and
// timestamps. Profile ownership belongs to the hosting application; this is
// here for seeding and tooling.
func (s *Store) CreateStudentProfile(ctx context.Context, profile *types.StudentProfile) error {
	demographics, err := json.Marshal(profile.Demographics)
	if err != nil {
		return fmt.Errorf("failed to marshal demographics: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO student_profiles
		   (user_id, gpa, major, academic_level, graduation_year, school, location,
		    demographics, interests, extracurriculars, achievements, financial_need)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		profile.UserID, profile.GPA, profile.Major, profile.AcademicLevel,
		profile.GraduationYear, profile.School, profile.Location, demographics,
		profile.Interests, profile.Extracurriculars, profile.Achievements,
		profile.FinancialNeed,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create student profile: %w", err)
	}
	return nil
}
