package crossmethod

import (
	"sort"

	"uxstat/domain/analysis"
	"uxstat/domain/core"
	"uxstat/domain/research"
)

// AccessibilityConfig holds the weighting tables the accessibility analyzer
// runs on. Severity weights and method-effectiveness priors are tuning
// knobs, not derivable from the raw data, so they live in configuration
// rather than as embedded constants.
type AccessibilityConfig struct {
	SeverityWeights     map[research.Severity]float64
	MethodEffectiveness map[research.MethodType]float64
	ReportFloor         float64 // minimum overlap score to report a study pair
	MediumCutoff        float64 // overlap score above this is medium
	HighCutoff          float64 // overlap score above this is high
}

// DefaultAccessibilityConfig returns the stock weighting tables
func DefaultAccessibilityConfig() AccessibilityConfig {
	return AccessibilityConfig{
		SeverityWeights: map[research.Severity]float64{
			research.SeverityCritical: 1.0,
			research.SeveritySerious:  0.8,
			research.SeverityModerate: 0.5,
			research.SeverityMinor:    0.2,
		},
		MethodEffectiveness: map[research.MethodType]float64{
			research.MethodAccessibility: 0.9,
			research.MethodDesignSystem:  0.6,
			research.MethodSurvey:        0.35,
			research.MethodCardSort:      0.2,
		},
		ReportFloor:  0.3,
		MediumCutoff: 0.5,
		HighCutoff:   0.7,
	}
}

// severityWeight looks up a severity weight, defaulting unknown severities
// to moderate.
func (c AccessibilityConfig) severityWeight(s research.Severity) float64 {
	if w, ok := c.SeverityWeights[s]; ok {
		return w
	}
	return c.SeverityWeights[research.SeverityModerate]
}

// AccessibilityAnalyzer measures failed-guideline overlap between studies
// and scores per-method accessibility effectiveness. The evaluation records
// come from an external auditing tool; this analyzer only consumes them.
type AccessibilityAnalyzer struct {
	cfg AccessibilityConfig
}

// NewAccessibilityAnalyzer creates an analyzer with the given weighting
// tables; zero-valued config fields fall back to defaults.
func NewAccessibilityAnalyzer(cfg AccessibilityConfig) *AccessibilityAnalyzer {
	defaults := DefaultAccessibilityConfig()
	if len(cfg.SeverityWeights) == 0 {
		cfg.SeverityWeights = defaults.SeverityWeights
	}
	if len(cfg.MethodEffectiveness) == 0 {
		cfg.MethodEffectiveness = defaults.MethodEffectiveness
	}
	if cfg.ReportFloor <= 0 {
		cfg.ReportFloor = defaults.ReportFloor
	}
	if cfg.MediumCutoff <= 0 {
		cfg.MediumCutoff = defaults.MediumCutoff
	}
	if cfg.HighCutoff <= 0 {
		cfg.HighCutoff = defaults.HighCutoff
	}
	return &AccessibilityAnalyzer{cfg: cfg}
}

// Analyze builds the full accessibility report: study-pair issue overlap and
// per-method effectiveness scores.
func (a *AccessibilityAnalyzer) Analyze(evals []research.AccessibilityEvaluation) analysis.AccessibilityReport {
	return analysis.AccessibilityReport{
		StudyCorrelations: a.StudyCorrelations(evals),
		MethodScores:      a.MethodScores(evals),
	}
}

// StudyCorrelations compares the failed-guideline sets of every study pair.
// The overlap score is |shared| / max(|A|, |B|, 1); only pairs above the
// report floor are returned, classified high/medium/low by the configured
// cutoffs.
func (a *AccessibilityAnalyzer) StudyCorrelations(evals []research.AccessibilityEvaluation) []analysis.StudyAccessibilityCorrelation {
	issuesByStudy := make(map[core.StudyID]map[core.GuidelineID]bool)
	var studies []core.StudyID
	for _, eval := range evals {
		issues := issuesByStudy[eval.StudyID]
		if issues == nil {
			issues = make(map[core.GuidelineID]bool)
			issuesByStudy[eval.StudyID] = issues
			studies = append(studies, eval.StudyID)
		}
		for id := range eval.FailedGuidelines() {
			issues[id] = true
		}
	}
	sort.Slice(studies, func(i, j int) bool { return studies[i] < studies[j] })

	var correlations []analysis.StudyAccessibilityCorrelation
	for i := 0; i < len(studies); i++ {
		for j := i + 1; j < len(studies); j++ {
			issuesA := issuesByStudy[studies[i]]
			issuesB := issuesByStudy[studies[j]]

			var shared []core.GuidelineID
			for id := range issuesA {
				if issuesB[id] {
					shared = append(shared, id)
				}
			}
			sort.Slice(shared, func(x, y int) bool { return shared[x] < shared[y] })

			denom := len(issuesA)
			if len(issuesB) > denom {
				denom = len(issuesB)
			}
			if denom < 1 {
				denom = 1
			}
			score := float64(len(shared)) / float64(denom)
			if score <= a.cfg.ReportFloor {
				continue
			}

			correlations = append(correlations, analysis.StudyAccessibilityCorrelation{
				StudyA:           studies[i],
				StudyB:           studies[j],
				CorrelationScore: score,
				SharedIssueIDs:   shared,
				Significance:     a.classify(score),
			})
		}
	}
	return correlations
}

// MethodScores computes the severity-weighted accessibility score and the
// prior-weighted detection effectiveness per method. Effectiveness combines
// the configured prior with the weighted share of issues the method actually
// surfaced; it is a tunable heuristic, not a derived statistic.
func (a *AccessibilityAnalyzer) MethodScores(evals []research.AccessibilityEvaluation) []analysis.MethodAccessibilityScore {
	type tally struct {
		weightedPassed float64
		weightedFailed float64
		weightTotal    float64
		evaluations    int
	}
	tallies := make(map[research.MethodType]*tally)
	for _, eval := range evals {
		method := eval.Method
		if method == "" {
			method = research.MethodAccessibility
		}
		t := tallies[method]
		if t == nil {
			t = &tally{}
			tallies[method] = t
		}
		t.evaluations++
		for _, check := range eval.Checks {
			w := a.cfg.severityWeight(check.Severity)
			t.weightTotal += w
			if check.Passed {
				t.weightedPassed += w
			} else {
				t.weightedFailed += w
			}
		}
	}

	var scores []analysis.MethodAccessibilityScore
	for _, method := range research.AllMethods() {
		t, ok := tallies[method]
		if !ok {
			continue
		}
		score, detection := 0.0, 0.0
		if t.weightTotal > 0 {
			score = t.weightedPassed / t.weightTotal
			detection = t.weightedFailed / t.weightTotal
		}
		scores = append(scores, analysis.MethodAccessibilityScore{
			Method:        method,
			Score:         score,
			Effectiveness: clamp01(a.cfg.MethodEffectiveness[method] * detection),
			Evaluations:   t.evaluations,
		})
	}
	return scores
}

// classify buckets an overlap score by the configured cutoffs
func (a *AccessibilityAnalyzer) classify(score float64) analysis.AccessibilitySignificance {
	switch {
	case score > a.cfg.HighCutoff:
		return analysis.AccessibilityHigh
	case score > a.cfg.MediumCutoff:
		return analysis.AccessibilityMedium
	default:
		return analysis.AccessibilityLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
