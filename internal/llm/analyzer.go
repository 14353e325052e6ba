package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/caleb/scholarmatch/internal/types"
)

// DefaultAnalyzerTimeout bounds each analyzer call so one hung candidate
// cannot stall a whole generation batch.
const DefaultAnalyzerTimeout = 15 * time.Second

// matchAnalysisResponse is the expected JSON response from the model.
type matchAnalysisResponse struct {
	MatchScore  float64  `json:"matchScore"`
	MatchReason []string `json:"matchReason"`
	ChanceLevel string   `json:"chanceLevel"`
}

// MatchAnalyzer judges how well a student fits a scholarship using an LLM.
// It implements scoring.Analyzer.
type MatchAnalyzer struct {
	client  Client
	logger  *zap.Logger
	timeout time.Duration
}

// NewMatchAnalyzer returns an analyzer over the given client. A non-positive
// timeout falls back to DefaultAnalyzerTimeout.
func NewMatchAnalyzer(client Client, logger *zap.Logger, timeout time.Duration) *MatchAnalyzer {
	if timeout <= 0 {
		timeout = DefaultAnalyzerTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchAnalyzer{client: client, logger: logger, timeout: timeout}
}

// AnalyzeMatch asks the model for a 0-100 match score, reasons, and a chance
// level for one (student, scholarship) pair. The call is bounded by the
// analyzer timeout.
func (a *MatchAnalyzer) AnalyzeMatch(ctx context.Context, student *types.StudentProfile, scholarship *types.Scholarship) (*types.MatchAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt, err := buildMatchPrompt(student, scholarship)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("analyzer request",
		zap.String("scholarship_id", scholarship.ID.String()),
		zap.String("student_id", student.ID.String()),
	)

	raw, err := a.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("analyzer call failed: %w", err)
	}

	var resp matchAnalysisResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse analyzer response: %w (content: %s)", err, raw)
	}

	score := int(resp.MatchScore)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	level := types.ChanceLevel(resp.ChanceLevel)
	switch level {
	case types.ChanceHigh, types.ChanceCompetitive, types.ChanceLongShot:
	default:
		level = types.ChanceCompetitive
	}

	return &types.MatchAnalysis{
		MatchScore:  score,
		MatchReason: resp.MatchReason,
		ChanceLevel: level,
	}, nil
}

// buildMatchPrompt constructs the advisor prompt from the student profile
// and the scholarship facts the analyzer is allowed to see.
func buildMatchPrompt(student *types.StudentProfile, scholarship *types.Scholarship) (string, error) {
	profile := map[string]any{
		"gpa":              student.GPA,
		"major":            student.Major,
		"academicLevel":    student.AcademicLevel,
		"graduationYear":   student.GraduationYear,
		"school":           student.School,
		"location":         student.Location,
		"demographics":     student.Demographics,
		"interests":        student.Interests,
		"extracurriculars": student.Extracurriculars,
		"achievements":     student.Achievements,
		"financialNeed":    student.FinancialNeed,
	}
	criteria := map[string]any{
		"title":               scholarship.Title,
		"requirements":        scholarship.Requirements,
		"eligibilityCriteria": scholarship.Eligibility,
		"amount":              scholarship.Amount,
		"organization":        scholarship.Organization,
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to marshal student profile: %w", err)
	}
	criteriaJSON, err := json.Marshal(criteria)
	if err != nil {
		return "", fmt.Errorf("failed to marshal scholarship criteria: %w", err)
	}

	return fmt.Sprintf(`You are an expert scholarship advisor. Analyze how well a student matches a scholarship opportunity. Consider academic qualifications, demographics, interests, and requirements. Respond with JSON in this format:
{
  "matchScore": number (0-100),
  "matchReason": ["reason1", "reason2"],
  "chanceLevel": "High Chance" | "Competitive" | "Long Shot"
}

Student Profile: %s

Scholarship Criteria: %s`, profileJSON, criteriaJSON), nil
}
