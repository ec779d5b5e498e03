package crossmethod

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"uxstat/domain/analysis"
	"uxstat/domain/core"
	"uxstat/domain/research"
	"uxstat/ports"
)

// t-statistic cutoffs for the large-sample p-value buckets. This is a coarse
// normal approximation, not an exact two-tailed test; it holds up primarily
// for N of 30 and above. The exact Student-t p-value is computed alongside
// for callers that need precision.
const (
	tCutoffP001 = 2.58
	tCutoffP005 = 1.96
	tCutoffP010 = 1.64
)

// Engine estimates correlation and significance between pairs of research
// methods through their shared participants. It consumes per-participant
// scalar scores produced by ScoreExtractorPort implementations; what gets
// correlated is the integration layer's decision, not a built-in table.
type Engine struct{}

// NewEngine creates a cross-method correlation engine
func NewEngine() *Engine {
	return &Engine{}
}

// Analyze computes a correlation record for every unordered pair of methods
// that both contributed scores. Pairs with fewer than two shared
// participants are excluded; fewer than two non-empty methods yields an
// empty report. Overall confidence is the participant-count-weighted mean of
// |correlation|.
func (e *Engine) Analyze(methodScores []ports.MethodScores) analysis.CrossMethodReport {
	byMethod := make(map[research.MethodType]map[core.ParticipantID]float64)
	var present []research.MethodType
	for _, method := range research.AllMethods() {
		for _, ms := range methodScores {
			if ms.Method == method && !ms.IsEmpty() {
				byMethod[method] = ms.Scores
				present = append(present, method)
				break
			}
		}
	}

	report := analysis.CrossMethodReport{}
	if len(present) < 2 {
		return report
	}

	weightSum, weightedAbsR := 0.0, 0.0
	for i := 0; i < len(present); i++ {
		for j := i + 1; j < len(present); j++ {
			record, ok := e.correlate(present[i], present[j], byMethod[present[i]], byMethod[present[j]])
			if !ok {
				continue
			}
			report.Records = append(report.Records, record)
			weight := float64(record.SharedParticipants)
			weightSum += weight
			weightedAbsR += weight * math.Abs(record.Correlation)
		}
	}
	if weightSum > 0 {
		report.OverallConfidence = weightedAbsR / weightSum
	}
	report.Patterns = identifyPatterns(present)
	return report
}

// correlate computes the Pearson correlation over the participant
// intersection of two methods. The intersection is walked in sorted
// participant order so identical inputs align identically.
func (e *Engine) correlate(methodA, methodB research.MethodType,
	scoresA, scoresB map[core.ParticipantID]float64) (analysis.CorrelationRecord, bool) {

	var shared []core.ParticipantID
	for id := range scoresA {
		if _, ok := scoresB[id]; ok {
			shared = append(shared, id)
		}
	}
	if len(shared) < 2 {
		return analysis.CorrelationRecord{}, false
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })

	x := make([]float64, len(shared))
	y := make([]float64, len(shared))
	for i, id := range shared {
		x[i] = scoresA[id]
		y[i] = scoresB[id]
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		// Zero variance in either score vector: degenerate, defined as 0
		r = 0
	}

	t, p := tStatistic(r, len(shared))
	return analysis.CorrelationRecord{
		MethodA:            methodA,
		MethodB:            methodB,
		Correlation:        r,
		SignificanceBucket: bucketForT(t),
		PValue:             p,
		SharedParticipants: len(shared),
	}, true
}

// tStatistic returns t = |r|·√((N−2)/(1−r²)) and the exact two-tailed
// p-value from the Student-t distribution with N−2 degrees of freedom.
func tStatistic(r float64, n int) (float64, float64) {
	if n < 3 {
		return 0, 1.0
	}
	r2 := r * r
	if 1-r2 < 1e-12 {
		// Perfect correlation: the t-statistic diverges
		return math.Inf(1), 0
	}
	t := math.Abs(r) * math.Sqrt(float64(n-2)/(1-r2))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	p := 2 * (1 - dist.CDF(t))
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return t, p
}

// bucketForT maps the t-statistic onto the coarse p-value buckets
func bucketForT(t float64) analysis.SignificanceBucket {
	switch {
	case t > tCutoffP001:
		return analysis.SignificanceP001
	case t > tCutoffP005:
		return analysis.SignificanceP005
	case t > tCutoffP010:
		return analysis.SignificanceP010
	default:
		return analysis.SignificanceP020
	}
}

// identifyPatterns emits rule-based commentary about which methods are
// jointly present. Heuristic observations for the report narrative, not
// statistical claims.
func identifyPatterns(present []research.MethodType) []analysis.MethodPattern {
	has := make(map[research.MethodType]bool, len(present))
	for _, m := range present {
		has[m] = true
	}

	var patterns []analysis.MethodPattern
	if has[research.MethodCardSort] && has[research.MethodSurvey] {
		patterns = append(patterns, analysis.MethodPattern{
			Methods: []research.MethodType{research.MethodCardSort, research.MethodSurvey},
			Label:   "structure-attitude triangulation",
			Commentary: "Card-sort structure and survey attitudes cover the same participants; " +
				"divergence between them usually points at labeling rather than navigation problems.",
		})
	}
	if has[research.MethodAccessibility] && has[research.MethodDesignSystem] {
		patterns = append(patterns, analysis.MethodPattern{
			Methods: []research.MethodType{research.MethodAccessibility, research.MethodDesignSystem},
			Label:   "compliance alignment",
			Commentary: "Accessibility audits and design-system reviews overlap on component quality; " +
				"shared failures suggest systemic component defects over page-level ones.",
		})
	}
	if len(present) == len(research.AllMethods()) {
		patterns = append(patterns, analysis.MethodPattern{
			Methods:    append([]research.MethodType(nil), present...),
			Label:      "full mixed-methods coverage",
			Commentary: "All four methods contributed data; cross-method correlations carry the most weight in this configuration.",
		})
	}
	return patterns
}
