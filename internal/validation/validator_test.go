package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caleb/scholarmatch/internal/engine"
	"github.com/caleb/scholarmatch/internal/scoring"
	"github.com/caleb/scholarmatch/internal/types"
)

// fakeStore backs both the engine and the validator in tests.
type fakeStore struct {
	catalog  []types.Scholarship
	fixtures []types.Fixture

	runs    []types.ValidationRun
	runErrs []error

	upsertCalls int
}

func (f *fakeStore) GetStudentProfile(_ context.Context, _ uuid.UUID) (*types.StudentProfile, error) {
	return nil, nil
}

func (f *fakeStore) ListScholarships(_ context.Context, includeInactive bool) ([]types.Scholarship, error) {
	var out []types.Scholarship
	for _, s := range f.catalog {
		if s.IsActive || includeInactive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertMatch(_ context.Context, _ *types.Match) error {
	f.upsertCalls++
	return nil
}

func (f *fakeStore) InsertScoringFactors(_ context.Context, _ *types.ScoringFactors) error {
	return nil
}

func (f *fakeStore) InsertInteractions(_ context.Context, _ []types.InteractionEvent) error {
	return nil
}

func (f *fakeStore) InteractionMetrics(_ context.Context, _, _ time.Time) (*types.RecommendationMetrics, error) {
	return &types.RecommendationMetrics{}, nil
}

func (f *fakeStore) ListActiveFixtures(_ context.Context) ([]types.Fixture, error) {
	return f.fixtures, nil
}

func (f *fakeStore) InsertValidationRun(_ context.Context, run *types.ValidationRun) error {
	if len(f.runErrs) > 0 {
		err := f.runErrs[0]
		f.runErrs = f.runErrs[1:]
		if err != nil {
			return err
		}
	}
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeStore) CountScholarships(_ context.Context) (int, error) {
	return len(f.catalog), nil
}

func floatPtr(f float64) *float64 { return &f }

// strongScholarship scores about 76 for the fixture profile below, above the
// default minimum score band for a passing fixture.
func strongScholarship(title string) types.Scholarship {
	return types.Scholarship{
		ID:          uuid.New(),
		Title:       title,
		Description: "Robotics scholarship for builders.",
		Eligibility: types.EligibilityCriteria{
			MinGPA:        floatPtr(3.0),
			AllowedMajors: []string{"Computer Science"},
			AllowedStates: []string{"Texas"},
			Demographics:  map[string][]string{"firstGeneration": {"yes"}},
		},
		IsActive: true,
	}
}

func fixtureProfile() types.StudentProfile {
	return types.StudentProfile{
		GPA:              floatPtr(3.9),
		Major:            "Computer Science",
		Location:         "Austin, Texas",
		Demographics:     map[string]string{"firstGeneration": "yes"},
		Extracurriculars: []string{"robotics"},
	}
}

func newValidator(store *fakeStore) *Validator {
	eng := engine.New(store, scoring.NewScorer(nil, nil), nil, 2)
	return New(eng, store, nil)
}

func TestValidateAllFixtures_PerfectOverlapPasses(t *testing.T) {
	store := &fakeStore{}
	a := strongScholarship("A")
	b := strongScholarship("B")
	store.catalog = []types.Scholarship{a, b}
	store.fixtures = []types.Fixture{{
		ID:                   uuid.New(),
		Name:                 "stem-first-gen",
		StudentProfile:       fixtureProfile(),
		ExpectedScholarships: []uuid.UUID{a.ID, b.ID},
		TopNThreshold:        5,
		MinimumScore:         70,
		IsActive:             true,
	}}

	results, err := newValidator(store).ValidateAllFixtures(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, StatusPass, r.Status)
	assert.Equal(t, 1.0, r.Metrics.PrecisionAtN)
	assert.Equal(t, 1.0, r.Metrics.RecallAtN)
	assert.Equal(t, 2, r.Metrics.ExpectedInTopN)
	assert.Len(t, r.TopNResults, 2)
	assert.Len(t, r.TopNScores, 2)
}

func TestValidateAllFixtures_ZeroOverlapFails(t *testing.T) {
	store := &fakeStore{}
	store.catalog = []types.Scholarship{strongScholarship("A")}
	store.fixtures = []types.Fixture{{
		ID:                   uuid.New(),
		Name:                 "misaligned",
		StudentProfile:       fixtureProfile(),
		ExpectedScholarships: []uuid.UUID{uuid.New()},
		TopNThreshold:        5,
		MinimumScore:         70,
		IsActive:             true,
	}}

	results, err := newValidator(store).ValidateAllFixtures(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, StatusFail, r.Status)
	assert.Equal(t, 0.0, r.Metrics.RecallAtN)
}

func TestValidateAllFixtures_LeavesNoMatchRows(t *testing.T) {
	store := &fakeStore{}
	a := strongScholarship("A")
	store.catalog = []types.Scholarship{a}
	store.fixtures = []types.Fixture{{
		ID:                   uuid.New(),
		Name:                 "ephemeral",
		StudentProfile:       fixtureProfile(),
		ExpectedScholarships: []uuid.UUID{a.ID},
		IsActive:             true,
	}}

	_, err := newValidator(store).ValidateAllFixtures(context.Background(), 0)

	require.NoError(t, err)
	assert.Zero(t, store.upsertCalls)
}

func TestValidateAllFixtures_RecordsRunPerFixture(t *testing.T) {
	store := &fakeStore{}
	a := strongScholarship("A")
	store.catalog = []types.Scholarship{a}
	store.fixtures = []types.Fixture{{
		ID:                   uuid.New(),
		Name:                 "audited",
		StudentProfile:       fixtureProfile(),
		ExpectedScholarships: []uuid.UUID{a.ID},
		IsActive:             true,
	}}

	_, err := newValidator(store).ValidateAllFixtures(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, store.runs, 1)
	run := store.runs[0]
	assert.Equal(t, store.fixtures[0].ID, run.FixtureID)
	assert.Equal(t, scoring.AlgorithmVersion, run.AlgorithmVersion)
	assert.Equal(t, 1, run.TotalScholarships)
	assert.Equal(t, 1, run.ExpectedInTopN)
}

func TestValidateAllFixtures_OneFailureDoesNotAbortTheRest(t *testing.T) {
	store := &fakeStore{}
	a := strongScholarship("A")
	store.catalog = []types.Scholarship{a}
	store.fixtures = []types.Fixture{
		{
			ID:                   uuid.New(),
			Name:                 "broken-record",
			StudentProfile:       fixtureProfile(),
			ExpectedScholarships: []uuid.UUID{a.ID},
			IsActive:             true,
		},
		{
			ID:                   uuid.New(),
			Name:                 "healthy",
			StudentProfile:       fixtureProfile(),
			ExpectedScholarships: []uuid.UUID{a.ID},
			IsActive:             true,
		},
	}
	store.runErrs = []error{errors.New("disk full")}

	results, err := newValidator(store).ValidateAllFixtures(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, StatusFail, results[0].Status)
	require.NotEmpty(t, results[0].Details)
	assert.Contains(t, results[0].Details[0], "Validation failed:")
	assert.Equal(t, StatusPass, results[1].Status)
}

func TestCalculateMetrics(t *testing.T) {
	expected := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	topN := []uuid.UUID{expected[0], expected[1], uuid.New(), expected[2], uuid.New()}
	scores := []int{90, 85, 80, 75, 70}

	m := calculateMetrics(expected, topN, scores, 12*time.Millisecond)

	assert.InDelta(t, 0.6, m.PrecisionAtN, 0.001)
	assert.InDelta(t, 0.75, m.RecallAtN, 0.001)
	assert.InDelta(t, 80, m.MeanAverageScore, 0.001)
	assert.Equal(t, 3, m.ExpectedInTopN)
	assert.Equal(t, int64(12), m.ExecutionTimeMs)
}

func TestCalculateMetrics_EmptyResults(t *testing.T) {
	m := calculateMetrics([]uuid.UUID{uuid.New()}, nil, nil, 0)

	assert.Zero(t, m.PrecisionAtN)
	assert.Zero(t, m.RecallAtN)
	assert.Zero(t, m.MeanAverageScore)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		metrics Metrics
		scores  []int
		want    Status
	}{
		{
			name:    "all targets met",
			metrics: Metrics{PrecisionAtN: 1, RecallAtN: 1, MeanAverageScore: 85},
			scores:  []int{90, 80},
			want:    StatusPass,
		},
		{
			name:    "precision below half target",
			metrics: Metrics{PrecisionAtN: 0.2, RecallAtN: 1, MeanAverageScore: 85},
			want:    StatusFail,
		},
		{
			name:    "recall below half target",
			metrics: Metrics{PrecisionAtN: 1, RecallAtN: 0.3, MeanAverageScore: 85},
			want:    StatusFail,
		},
		{
			name:    "mean score below fail band",
			metrics: Metrics{PrecisionAtN: 1, RecallAtN: 1, MeanAverageScore: 55},
			want:    StatusFail,
		},
		{
			name:    "precision below target warns",
			metrics: Metrics{PrecisionAtN: 0.5, RecallAtN: 1, MeanAverageScore: 85},
			want:    StatusWarning,
		},
		{
			name:    "mean score below minimum warns",
			metrics: Metrics{PrecisionAtN: 1, RecallAtN: 1, MeanAverageScore: 68},
			want:    StatusWarning,
		},
		{
			name:    "individual low score warns",
			metrics: Metrics{PrecisionAtN: 1, RecallAtN: 1, MeanAverageScore: 85},
			scores:  []int{95, 60},
			want:    StatusWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.metrics, tt.scores, 70))
		})
	}
}

func TestGenerateSummaryReport(t *testing.T) {
	store := &fakeStore{}
	a := strongScholarship("A")
	store.catalog = []types.Scholarship{a}
	store.fixtures = []types.Fixture{
		{
			ID:                   uuid.New(),
			Name:                 "pass",
			StudentProfile:       fixtureProfile(),
			ExpectedScholarships: []uuid.UUID{a.ID},
			IsActive:             true,
		},
		{
			ID:                   uuid.New(),
			Name:                 "fail",
			StudentProfile:       fixtureProfile(),
			ExpectedScholarships: []uuid.UUID{uuid.New()},
			IsActive:             true,
		},
	}

	summary, err := newValidator(store).GenerateSummaryReport(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalFixtures)
	assert.Equal(t, 1, summary.PassedFixtures)
	assert.Equal(t, 1, summary.FailedFixtures)
	assert.Zero(t, summary.WarningFixtures)
	assert.InDelta(t, 0.5, summary.AveragePrecision, 0.001)
	assert.InDelta(t, 0.5, summary.AverageRecall, 0.001)
}
