// Package validation re-runs the recommendation engine against curated
// ground-truth fixtures and measures ranking quality for regression
// tracking.
package validation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caleb/scholarmatch/internal/engine"
	"github.com/caleb/scholarmatch/internal/scoring"
	"github.com/caleb/scholarmatch/internal/types"
)

// Quality thresholds for fixture classification. A fixture fails below half
// the precision/recall targets and warns below the targets themselves.
const (
	targetPrecision     = 0.6
	targetRecall        = 0.8
	defaultTopN         = 5
	defaultMinimumScore = 70
)

// Status classifies one fixture validation outcome.
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarning Status = "warning"
	StatusFail    Status = "fail"
)

// Metrics holds the quality measurements for one fixture run.
type Metrics struct {
	PrecisionAtN     float64 `json:"precision_at_n"`
	RecallAtN        float64 `json:"recall_at_n"`
	MeanAverageScore float64 `json:"mean_average_score"`
	ExpectedInTopN   int     `json:"expected_in_top_n"`
	ExecutionTimeMs  int64   `json:"execution_time_ms"`
}

// Result is the outcome of validating one fixture.
type Result struct {
	FixtureID   uuid.UUID   `json:"fixture_id"`
	FixtureName string      `json:"fixture_name"`
	TopNResults []uuid.UUID `json:"top_n_results"`
	TopNScores  []int       `json:"top_n_scores"`
	Metrics     Metrics     `json:"metrics"`
	Status      Status      `json:"status"`
	Details     []string    `json:"details"`
}

// Summary aggregates a full fixture sweep, intended as a release gate.
type Summary struct {
	TotalFixtures          int     `json:"total_fixtures"`
	PassedFixtures         int     `json:"passed_fixtures"`
	FailedFixtures         int     `json:"failed_fixtures"`
	WarningFixtures        int     `json:"warning_fixtures"`
	AveragePrecision       float64 `json:"average_precision"`
	AverageRecall          float64 `json:"average_recall"`
	AverageExecutionTimeMs float64 `json:"average_execution_time_ms"`
}

// Store is the persistence surface the validator needs beyond the engine's.
type Store interface {
	// ListActiveFixtures returns every active fixture.
	ListActiveFixtures(ctx context.Context) ([]types.Fixture, error)
	// InsertValidationRun appends one validation audit record.
	InsertValidationRun(ctx context.Context, run *types.ValidationRun) error
	// CountScholarships returns the catalog size for run context.
	CountScholarships(ctx context.Context) (int, error)
}

// Validator runs fixtures through the recommendation engine exactly as an
// application caller would and scores the results against ground truth.
type Validator struct {
	engine *engine.Engine
	store  Store
	logger *zap.Logger
}

// New creates a validator over the given engine and store.
func New(eng *engine.Engine, store Store, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{engine: eng, store: store, logger: logger}
}

// ValidateAllFixtures validates every active fixture. A non-positive topN
// defers to each fixture's own threshold. One fixture failing never aborts
// the rest: its result carries StatusFail with the error captured in the
// details.
func (v *Validator) ValidateAllFixtures(ctx context.Context, topN int) ([]Result, error) {
	fixtures, err := v.store.ListActiveFixtures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	v.logger.Info("starting fixture validation", zap.Int("fixtures", len(fixtures)))

	results := make([]Result, 0, len(fixtures))
	for i := range fixtures {
		fixture := &fixtures[i]

		result, err := v.validateFixture(ctx, fixture, topN)
		if err == nil {
			err = v.recordRun(ctx, fixture, result)
		}
		if err != nil {
			v.logger.Error("fixture validation failed",
				zap.String("fixture", fixture.Name),
				zap.Error(err),
			)
			result = &Result{
				FixtureID:   fixture.ID,
				FixtureName: fixture.Name,
				TopNResults: []uuid.UUID{},
				TopNScores:  []int{},
				Status:      StatusFail,
				Details:     []string{fmt.Sprintf("Validation failed: %v", err)},
			}
		}
		results = append(results, *result)
	}

	v.logger.Info("completed fixture validation", zap.Int("fixtures", len(results)))
	return results, nil
}

// validateFixture runs one fixture through the engine with an ephemeral
// student profile built from the fixture snapshot. The full catalog
// participates (minScore 0, inactive included) and nothing is persisted for
// the synthetic student.
func (v *Validator) validateFixture(ctx context.Context, fixture *types.Fixture, topN int) (*Result, error) {
	start := time.Now()

	if topN <= 0 {
		topN = fixture.TopNThreshold
	}
	if topN <= 0 {
		topN = defaultTopN
	}
	minimumScore := fixture.MinimumScore
	if minimumScore <= 0 {
		minimumScore = defaultMinimumScore
	}

	student := fixture.StudentProfile
	student.ID = uuid.New()
	student.UserID = uuid.New()
	student.CreatedAt = start
	student.UpdatedAt = start

	matches, err := v.engine.GenerateForProfile(ctx, &student, engine.Options{
		TopN:            topN,
		IncludeInactive: true,
		MinScore:        0,
		SkipPersist:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate recommendations for fixture %s: %w", fixture.Name, err)
	}

	topNResults := make([]uuid.UUID, 0, len(matches))
	topNScores := make([]int, 0, len(matches))
	for _, m := range matches {
		topNResults = append(topNResults, m.ScholarshipID)
		topNScores = append(topNScores, m.MatchScore)
	}

	metrics := calculateMetrics(fixture.ExpectedScholarships, topNResults, topNScores, time.Since(start))
	status := classify(metrics, topNScores, minimumScore)
	details := buildDetails(fixture, topNResults, topNScores, metrics)

	return &Result{
		FixtureID:   fixture.ID,
		FixtureName: fixture.Name,
		TopNResults: topNResults,
		TopNScores:  topNScores,
		Metrics:     metrics,
		Status:      status,
		Details:     details,
	}, nil
}

// calculateMetrics computes precision@N, recall@N, and the mean top-N score
// from the expected/returned intersection.
func calculateMetrics(expected, topNResults []uuid.UUID, topNScores []int, elapsed time.Duration) Metrics {
	expectedSet := make(map[uuid.UUID]bool, len(expected))
	for _, id := range expected {
		expectedSet[id] = true
	}

	inTopN := 0
	for _, id := range topNResults {
		if expectedSet[id] {
			inTopN++
		}
	}

	var precision, recall float64
	if len(topNResults) > 0 {
		precision = float64(inTopN) / float64(len(topNResults))
	}
	if len(expected) > 0 {
		recall = float64(inTopN) / float64(len(expected))
	}

	var meanScore float64
	if len(topNScores) > 0 {
		sum := 0
		for _, score := range topNScores {
			sum += score
		}
		meanScore = float64(sum) / float64(len(topNScores))
	}

	return Metrics{
		PrecisionAtN:     precision,
		RecallAtN:        recall,
		MeanAverageScore: meanScore,
		ExpectedInTopN:   inTopN,
		ExecutionTimeMs:  elapsed.Milliseconds(),
	}
}

// classify maps metrics to a pass/warning/fail status against the fixture's
// minimum score.
func classify(metrics Metrics, topNScores []int, minimumScore int) Status {
	minScore := float64(minimumScore)

	if metrics.PrecisionAtN < targetPrecision*0.5 {
		return StatusFail
	}
	if metrics.RecallAtN < targetRecall*0.5 {
		return StatusFail
	}
	if metrics.MeanAverageScore < minScore*0.8 {
		return StatusFail
	}

	if metrics.PrecisionAtN < targetPrecision || metrics.RecallAtN < targetRecall || metrics.MeanAverageScore < minScore {
		return StatusWarning
	}
	for _, score := range topNScores {
		if float64(score) < minScore*0.9 {
			return StatusWarning
		}
	}

	return StatusPass
}

// buildDetails produces the human-readable feedback lines for one result.
func buildDetails(fixture *types.Fixture, topNResults []uuid.UUID, topNScores []int, metrics Metrics) []string {
	details := []string{
		fmt.Sprintf("Fixture: %s", fixture.Name),
		fmt.Sprintf("Expected %d scholarships in top %d", len(fixture.ExpectedScholarships), fixture.TopNThreshold),
		fmt.Sprintf("Found %d expected scholarships in top results", metrics.ExpectedInTopN),
		fmt.Sprintf("Precision@%d: %.1f%%", fixture.TopNThreshold, metrics.PrecisionAtN*100),
		fmt.Sprintf("Recall@%d: %.1f%%", fixture.TopNThreshold, metrics.RecallAtN*100),
		fmt.Sprintf("Mean score: %.1f", metrics.MeanAverageScore),
	}

	returned := make(map[uuid.UUID]bool, len(topNResults))
	for _, id := range topNResults {
		returned[id] = true
	}
	var missing []string
	for _, id := range fixture.ExpectedScholarships {
		if !returned[id] {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		suffix := ""
		if len(missing) > 3 {
			missing = missing[:3]
			suffix = "..."
		}
		details = append(details, fmt.Sprintf("Missing expected scholarships: %s%s", strings.Join(missing, ", "), suffix))
	}

	expected := make(map[uuid.UUID]bool, len(fixture.ExpectedScholarships))
	for _, id := range fixture.ExpectedScholarships {
		expected[id] = true
	}
	var unexpected []string
	for i, id := range topNResults {
		if !expected[id] && len(unexpected) < 2 {
			unexpected = append(unexpected, fmt.Sprintf("%s (%d)", id, topNScores[i]))
		}
	}
	if len(unexpected) > 0 {
		details = append(details, fmt.Sprintf("Unexpected high rankings: %s", strings.Join(unexpected, ", ")))
	}

	details = append(details, fmt.Sprintf("Execution time: %dms", metrics.ExecutionTimeMs))
	return details
}

// recordRun persists one validation audit record.
func (v *Validator) recordRun(ctx context.Context, fixture *types.Fixture, result *Result) error {
	total, err := v.store.CountScholarships(ctx)
	if err != nil {
		return fmt.Errorf("failed to count scholarships: %w", err)
	}

	run := &types.ValidationRun{
		FixtureID:         fixture.ID,
		AlgorithmVersion:  scoring.AlgorithmVersion,
		TotalScholarships: total,
		TopNResults:       result.TopNResults,
		TopNScores:        result.TopNScores,
		ExpectedInTopN:    result.Metrics.ExpectedInTopN,
		PrecisionAtN:      result.Metrics.PrecisionAtN,
		RecallAtN:         result.Metrics.RecallAtN,
		MeanAverageScore:  result.Metrics.MeanAverageScore,
		ExecutionTimeMs:   result.Metrics.ExecutionTimeMs,
	}
	if err := v.store.InsertValidationRun(ctx, run); err != nil {
		return fmt.Errorf("failed to store validation run: %w", err)
	}
	return nil
}

// GenerateSummaryReport re-runs the full fixture set and aggregates the
// outcome counts and averages. It always validates fresh rather than reading
// history, so the report reflects the current algorithm.
func (v *Validator) GenerateSummaryReport(ctx context.Context) (*Summary, error) {
	results, err := v.ValidateAllFixtures(ctx, 0)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalFixtures: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			summary.PassedFixtures++
		case StatusWarning:
			summary.WarningFixtures++
		case StatusFail:
			summary.FailedFixtures++
		}
		summary.AveragePrecision += r.Metrics.PrecisionAtN
		summary.AverageRecall += r.Metrics.RecallAtN
		summary.AverageExecutionTimeMs += float64(r.Metrics.ExecutionTimeMs)
	}
	if len(results) > 0 {
		n := float64(len(results))
		summary.AveragePrecision /= n
		summary.AverageRecall /= n
		summary.AverageExecutionTimeMs /= n
	}
	return summary, nil
}

