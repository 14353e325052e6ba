package scoring

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/caleb/scholarmatch/internal/types"
)

const maxReasons = 5

// Analyzer is the external semantic analyzer the scorer delegates one factor
// to. Implementations must honor context cancellation; the scorer treats any
// error as a degraded factor, never a failed score.
type Analyzer interface {
	AnalyzeMatch(ctx context.Context, student *types.StudentProfile, scholarship *types.Scholarship) (*types.MatchAnalysis, error)
}

// DetailedScore is the scorer's full output for one candidate pair.
type DetailedScore struct {
	TotalScore  float64
	Factors     types.FactorBreakdown
	Reasoning   []string
	ChanceLevel types.ChanceLevel
}

// Scorer computes a detailed multi-factor score for one
// (student, scholarship) pair.
type Scorer struct {
	analyzer Analyzer
	logger   *zap.Logger
}

// NewScorer returns a scorer backed by the given analyzer. A nil analyzer is
// allowed; the AI factor then contributes zero for every candidate.
func NewScorer(analyzer Analyzer, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{analyzer: analyzer, logger: logger}
}

// Score computes the weighted total score, per-factor contributions, ordered
// reasoning, and chance level for one candidate. The total is capped at 100.
// Analyzer failures zero the AI factor and are logged at warn; they never
// fail the score.
func (s *Scorer) Score(ctx context.Context, student *types.StudentProfile, scholarship *types.Scholarship) DetailedScore {
	var (
		total     float64
		reasoning []string
		factors   types.FactorBreakdown
	)

	gpaScore := scoreGPA(student, scholarship)
	factors.GPA = gpaScore * gpaWeight
	total += factors.GPA
	if gpaScore > 70 {
		reasoning = append(reasoning, fmt.Sprintf("Strong GPA match (%s)", formatGPA(student.GPA)))
	}

	majorScore := scoreMajor(student, scholarship)
	factors.Major = majorScore * majorWeight
	total += factors.Major
	if majorScore > 70 {
		reasoning = append(reasoning, fmt.Sprintf("Major alignment: %s", student.Major))
	}

	demoScore := scoreDemographics(student, scholarship)
	factors.Demographics = demoScore * demographicsWeight
	total += factors.Demographics
	if demoScore > 70 {
		reasoning = append(reasoning, "Demographics requirements met")
	}

	geoScore := scoreGeography(student, scholarship)
	factors.Geography = geoScore * geographyWeight
	total += factors.Geography
	if geoScore > 70 {
		reasoning = append(reasoning, fmt.Sprintf("Location match: %s", student.Location))
	}

	activityScore := scoreExtracurriculars(student, scholarship)
	factors.Extracurriculars = activityScore * extracurricularsWeight
	total += factors.Extracurriculars
	if activityScore > 70 {
		reasoning = append(reasoning, "Strong extracurricular alignment")
	}

	if s.analyzer != nil {
		analysis, err := s.analyzer.AnalyzeMatch(ctx, student, scholarship)
		if err != nil {
			s.logger.Warn("semantic analysis failed, using rule-based scoring only",
				zap.String("scholarship_id", scholarship.ID.String()),
				zap.Error(err),
			)
		} else {
			factors.AIConfidence = float64(analysis.MatchScore) * aiAnalysisWeight / 100
			total += factors.AIConfidence
			if len(analysis.MatchReason) > 2 {
				reasoning = append(reasoning, analysis.MatchReason[:2]...)
			} else {
				reasoning = append(reasoning, analysis.MatchReason...)
			}
		}
	}

	if len(reasoning) > maxReasons {
		reasoning = reasoning[:maxReasons]
	}

	level := types.ChanceLevelForScore(total)
	if total > 100 {
		total = 100
	}

	return DetailedScore{
		TotalScore:  total,
		Factors:     factors,
		Reasoning:   reasoning,
		ChanceLevel: level,
	}
}

func formatGPA(gpa *float64) string {
	if gpa == nil {
		return ""
	}
	return strconv.FormatFloat(*gpa, 'f', -1, 64)
}
