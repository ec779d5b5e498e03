package ports

import (
	"context"

	"uxstat/domain/core"
	"uxstat/domain/research"
)

// MethodScores is the commensurable per-participant scalar extracted from one
// method's raw results. Scores must be normalized to comparable units (the
// default extractors map everything onto [0,1]).
type MethodScores struct {
	Method research.MethodType
	Scores map[core.ParticipantID]float64
}

// IsEmpty reports whether the method contributed no usable scores
func (m MethodScores) IsEmpty() bool {
	return len(m.Scores) == 0
}

// ScoreExtractorPort turns one method's raw result collection into a
// per-participant scalar score. This is the explicit extension point for
// cross-method correlation: the integration layer decides what "the
// measurement being correlated" means for its instrument, the engine only
// consumes the scores.
type ScoreExtractorPort interface {
	// Method identifies which research method this extractor serves
	Method() research.MethodType

	// Extract computes the per-participant scalar from the raw results.
	// Participants with no usable signal are omitted, not zeroed.
	Extract(ctx context.Context, results research.ResultSet) (MethodScores, error)
}
