package types

// MatchAnalysis is the semantic analyzer's judgment of one
// (student, scholarship) pair. MatchScore is clamped to 0-100 by the
// analyzer client before it reaches the scorer.
type MatchAnalysis struct {
	MatchScore  int         `json:"match_score"`
	MatchReason []string    `json:"match_reason"`
	ChanceLevel ChanceLevel `json:"chance_level"`
}
