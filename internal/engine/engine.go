// Package engine generates, ranks, and persists scholarship recommendations.
package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/caleb/scholarmatch/internal/scoring"
	"github.com/caleb/scholarmatch/internal/types"
)

// DefaultWorkers caps concurrent candidate scoring, and with it the number
// of simultaneous analyzer calls per generation.
const DefaultWorkers = 4

// Options controls one recommendation generation call.
type Options struct {
	TopN             int
	IncludeInactive  bool
	MinScore         int
	TrackInteraction bool
	SessionID        string
	// SkipPersist disables match persistence and interaction tracking.
	// The fixture validator sets it so ephemeral synthetic students leave
	// no match rows behind.
	SkipPersist bool
}

// DefaultOptions returns the standard generation options.
func DefaultOptions() Options {
	return Options{TopN: 10, MinScore: 30}
}

// Engine orchestrates scoring across the catalog for one student, ranks and
// filters the results, and persists them.
type Engine struct {
	store   Store
	scorer  *scoring.Scorer
	logger  *zap.Logger
	workers int
}

// New creates an engine. A non-positive workers value falls back to
// DefaultWorkers.
func New(store Store, scorer *scoring.Scorer, logger *zap.Logger, workers int) *Engine {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, scorer: scorer, logger: logger, workers: workers}
}

type scoredCandidate struct {
	scholarship *types.Scholarship
	detail      scoring.DetailedScore
}

// GenerateRecommendations resolves the student profile and generates ranked
// recommendations. An unknown student yields an empty list and no error, so
// brand-new users see an empty state instead of a failure.
func (e *Engine) GenerateRecommendations(ctx context.Context, studentID uuid.UUID, opts Options) ([]types.Match, error) {
	student, err := e.store.GetStudentProfile(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}
	if student == nil {
		e.logger.Info("no student profile found, returning empty recommendations",
			zap.String("student_id", studentID.String()))
		return []types.Match{}, nil
	}
	return e.GenerateForProfile(ctx, student, opts)
}

// GenerateForProfile generates ranked recommendations for an already
// resolved profile. The profile does not have to exist in the store; the
// fixture validator passes ephemeral synthetic profiles through here.
//
// Candidates are scored concurrently under a bounded worker pool, filtered
// by MinScore, sorted by score descending with ascending scholarship ID as
// the tie-break, and truncated to TopN. Unless SkipPersist is set, each kept
// match is upserted on its natural key and a scoring-factors audit row is
// appended.
func (e *Engine) GenerateForProfile(ctx context.Context, student *types.StudentProfile, opts Options) ([]types.Match, error) {
	start := time.Now()
	if opts.TopN <= 0 {
		opts.TopN = 10
	}

	catalog, err := e.store.ListScholarships(ctx, opts.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to load scholarship catalog: %w", err)
	}

	// Candidate scoring shares no mutable state; each goroutine writes its
	// own slot.
	scored := make([]scoredCandidate, len(catalog))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range catalog {
		g.Go(func() error {
			scored[i] = scoredCandidate{
				scholarship: &catalog[i],
				detail:      e.scorer.Score(gctx, student, &catalog[i]),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to score candidates: %w", err)
	}

	kept := scored[:0]
	for _, c := range scored {
		if c.detail.TotalScore >= float64(opts.MinScore) {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		si, sj := roundScore(kept[i].detail.TotalScore), roundScore(kept[j].detail.TotalScore)
		if si != sj {
			return si > sj
		}
		return strings.Compare(kept[i].scholarship.ID.String(), kept[j].scholarship.ID.String()) < 0
	})
	if len(kept) > opts.TopN {
		kept = kept[:opts.TopN]
	}

	matches := make([]types.Match, 0, len(kept))
	for _, c := range kept {
		matches = append(matches, types.Match{
			StudentID:     student.ID,
			ScholarshipID: c.scholarship.ID,
			MatchScore:    roundScore(c.detail.TotalScore),
			MatchReason:   c.detail.Reasoning,
			ChanceLevel:   c.detail.ChanceLevel,
			Explanation:   c.detail.Factors,
		})
	}

	if !opts.SkipPersist {
		if err := e.persistMatches(ctx, matches); err != nil {
			return nil, err
		}

		if opts.TrackInteraction && opts.SessionID != "" {
			ids := make([]uuid.UUID, len(matches))
			for i, m := range matches {
				ids[i] = m.ScholarshipID
			}
			e.TrackInteraction(ctx, student.UserID, student.ID, ids, types.InteractionView, opts.SessionID)
		}
	}

	e.logger.Info("generated recommendations",
		zap.String("student_id", student.ID.String()),
		zap.Int("catalog_size", len(catalog)),
		zap.Int("count", len(matches)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return matches, nil
}

// persistMatches upserts each match and appends its factor audit row.
// Persistence failures propagate: the recommendations were computed but not
// saved, and the caller must know.
func (e *Engine) persistMatches(ctx context.Context, matches []types.Match) error {
	for i := range matches {
		m := &matches[i]
		if err := e.store.UpsertMatch(ctx, m); err != nil {
			return fmt.Errorf("failed to persist match for scholarship %s: %w", m.ScholarshipID, err)
		}
		factors := &types.ScoringFactors{
			MatchID:          m.ID,
			Breakdown:        m.Explanation,
			AlgorithmVersion: scoring.AlgorithmVersion,
		}
		if err := e.store.InsertScoringFactors(ctx, factors); err != nil {
			return fmt.Errorf("failed to persist scoring factors for match %s: %w", m.ID, err)
		}
	}
	return nil
}

func roundScore(total float64) int {
	return int(math.Round(total))
}
