package app

import (
	"context"

	"uxstat/adapters/stats/crossmethod"
	"uxstat/domain/analysis"
	"uxstat/domain/research"
	"uxstat/internal"
	"uxstat/ports"
)

// CrossMethodAnalysis bundles the cross-method outputs over one result set
type CrossMethodAnalysis struct {
	Correlations  analysis.CrossMethodReport   `json:"correlations"`
	Accessibility analysis.AccessibilityReport `json:"accessibility"`
}

// CrossMethodService runs the cross-method correlation engine and the
// accessibility analyzer over a multi-method result set. Score extraction is
// injectable: pass nil extractors to use the defaults.
type CrossMethodService struct {
	engine     *crossmethod.Engine
	a11y       *crossmethod.AccessibilityAnalyzer
	extractors []ports.ScoreExtractorPort
	logger     *internal.Logger
}

// NewCrossMethodService creates the service
func NewCrossMethodService(a11yConfig crossmethod.AccessibilityConfig, extractors []ports.ScoreExtractorPort, logger *internal.Logger) *CrossMethodService {
	if extractors == nil {
		extractors = crossmethod.DefaultExtractors()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CrossMethodService{
		engine:     crossmethod.NewEngine(),
		a11y:       crossmethod.NewAccessibilityAnalyzer(a11yConfig),
		extractors: extractors,
		logger:     logger,
	}
}

// Analyze extracts per-method participant scores, correlates every method
// pair with enough shared participants, and computes the accessibility
// overlap report. Insufficient data yields empty sections, never an error
// from the analytics themselves.
func (s *CrossMethodService) Analyze(ctx context.Context, results research.ResultSet) (*CrossMethodAnalysis, error) {
	scores, err := crossmethod.ExtractAll(ctx, s.extractors, results)
	if err != nil {
		return nil, err
	}

	out := &CrossMethodAnalysis{
		Correlations:  s.engine.Analyze(scores),
		Accessibility: s.a11y.Analyze(results.Accessibility),
	}
	s.logger.Info("cross-method analysis finished: %d method pairs, confidence %.3f, %d study correlations",
		len(out.Correlations.Records), out.Correlations.OverallConfidence,
		len(out.Accessibility.StudyCorrelations))
	return out, nil
}
