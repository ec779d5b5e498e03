package crossmethod

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uxstat/domain/analysis"
	"uxstat/domain/core"
	"uxstat/domain/research"
	"uxstat/ports"
)

func scores(method research.MethodType, values map[string]float64) ports.MethodScores {
	out := ports.MethodScores{Method: method, Scores: make(map[core.ParticipantID]float64, len(values))}
	for id, v := range values {
		out.Scores[core.ParticipantID(id)] = v
	}
	return out
}

func TestAnalyzeNeedsTwoMethods(t *testing.T) {
	engine := NewEngine()

	report := engine.Analyze(nil)
	assert.Empty(t, report.Records)
	assert.Zero(t, report.OverallConfidence)

	report = engine.Analyze([]ports.MethodScores{
		scores(research.MethodSurvey, map[string]float64{"p1": 0.5, "p2": 0.7}),
	})
	assert.Empty(t, report.Records)
}

func TestAnalyzeDisjointParticipants(t *testing.T) {
	engine := NewEngine()

	// No participant overlaps across methods: zero records, zero confidence
	report := engine.Analyze([]ports.MethodScores{
		scores(research.MethodCardSort, map[string]float64{"p1": 0.8, "p2": 0.6}),
		scores(research.MethodSurvey, map[string]float64{"p3": 0.4, "p4": 0.9}),
	})
	assert.Empty(t, report.Records)
	assert.Zero(t, report.OverallConfidence)
}

func TestAnalyzePerfectPositiveCorrelation(t *testing.T) {
	engine := NewEngine()

	cardSort := map[string]float64{}
	survey := map[string]float64{}
	for i := 1; i <= 10; i++ {
		id := fmt.Sprintf("p%02d", i)
		cardSort[id] = float64(i) * 0.1
		survey[id] = float64(i)*0.2 + 1.0
	}

	report := engine.Analyze([]ports.MethodScores{
		scores(research.MethodCardSort, cardSort),
		scores(research.MethodSurvey, survey),
	})
	require.Len(t, report.Records, 1)

	record := report.Records[0]
	assert.Equal(t, research.MethodCardSort, record.MethodA)
	assert.Equal(t, research.MethodSurvey, record.MethodB)
	assert.InDelta(t, 1.0, record.Correlation, 1e-9)
	assert.Equal(t, analysis.SignificanceP001, record.SignificanceBucket)
	assert.InDelta(t, 0.0, record.PValue, 1e-9)
	assert.Equal(t, 10, record.SharedParticipants)
	assert.InDelta(t, 1.0, report.OverallConfidence, 1e-9)
}

func TestAnalyzePerfectNegativeCorrelation(t *testing.T) {
	engine := NewEngine()

	a11y := map[string]float64{}
	design := map[string]float64{}
	for i := 1; i <= 8; i++ {
		id := fmt.Sprintf("p%02d", i)
		a11y[id] = float64(i)
		design[id] = float64(-i)
	}

	report := engine.Analyze([]ports.MethodScores{
		scores(research.MethodAccessibility, a11y),
		scores(research.MethodDesignSystem, design),
	})
	require.Len(t, report.Records, 1)
	assert.InDelta(t, -1.0, report.Records[0].Correlation, 1e-9)
	assert.Equal(t, analysis.SignificanceP001, report.Records[0].SignificanceBucket)
	assert.InDelta(t, 1.0, report.OverallConfidence, 1e-9, "confidence weighs |r|")
}

func TestAnalyzeZeroVarianceDegeneratesToZero(t *testing.T) {
	engine := NewEngine()

	report := engine.Analyze([]ports.MethodScores{
		scores(research.MethodCardSort, map[string]float64{"p1": 0.5, "p2": 0.5, "p3": 0.5}),
		scores(research.MethodSurvey, map[string]float64{"p1": 0.1, "p2": 0.9, "p3": 0.4}),
	})
	require.Len(t, report.Records, 1)

	record := report.Records[0]
	assert.Zero(t, record.Correlation)
	assert.Equal(t, analysis.SignificanceP020, record.SignificanceBucket)
	assert.Equal(t, 1.0, record.PValue)
}

func TestAnalyzeExcludesThinPairs(t *testing.T) {
	engine := NewEngine()

	// card_sort/survey share two participants, accessibility shares only one
	report := engine.Analyze([]ports.MethodScores{
		scores(research.MethodCardSort, map[string]float64{"p1": 0.2, "p2": 0.8}),
		scores(research.MethodSurvey, map[string]float64{"p1": 0.3, "p2": 0.6}),
		scores(research.MethodAccessibility, map[string]float64{"p1": 0.9}),
	})

	require.Len(t, report.Records, 1)
	assert.Equal(t, research.MethodCardSort, report.Records[0].MethodA)
	assert.Equal(t, research.MethodSurvey, report.Records[0].MethodB)
}

func TestAnalyzePatterns(t *testing.T) {
	engine := NewEngine()

	all := []ports.MethodScores{
		scores(research.MethodCardSort, map[string]float64{"p1": 0.2, "p2": 0.8}),
		scores(research.MethodSurvey, map[string]float64{"p1": 0.3, "p2": 0.6}),
		scores(research.MethodAccessibility, map[string]float64{"p1": 0.9, "p2": 0.5}),
		scores(research.MethodDesignSystem, map[string]float64{"p1": 0.7, "p2": 0.4}),
	}
	report := engine.Analyze(all)

	labels := make([]string, 0, len(report.Patterns))
	for _, pattern := range report.Patterns {
		labels = append(labels, pattern.Label)
	}
	assert.Contains(t, labels, "structure-attitude triangulation")
	assert.Contains(t, labels, "compliance alignment")
	assert.Contains(t, labels, "full mixed-methods coverage")
}

func TestTStatistic(t *testing.T) {
	t.Run("too few observations", func(t *testing.T) {
		tv, p := tStatistic(0.9, 2)
		assert.Zero(t, tv)
		assert.Equal(t, 1.0, p)
	})

	t.Run("perfect correlation diverges", func(t *testing.T) {
		tv, p := tStatistic(1.0, 10)
		assert.True(t, math.IsInf(tv, 1))
		assert.Zero(t, p)
	})

	t.Run("moderate correlation", func(t *testing.T) {
		// r = 0.5, n = 30: t = 0.5 * sqrt(28/0.75) ~ 3.055
		tv, p := tStatistic(0.5, 30)
		assert.InDelta(t, 3.055, tv, 0.01)
		assert.Greater(t, p, 0.0)
		assert.Less(t, p, 0.01)
	})

	t.Run("sign is ignored", func(t *testing.T) {
		tPos, _ := tStatistic(0.5, 30)
		tNeg, _ := tStatistic(-0.5, 30)
		assert.Equal(t, tPos, tNeg)
	})
}

func TestBucketForT(t *testing.T) {
	cases := []struct {
		t      float64
		bucket analysis.SignificanceBucket
	}{
		{3.0, analysis.SignificanceP001},
		{2.58, analysis.SignificanceP005},
		{2.0, analysis.SignificanceP005},
		{1.96, analysis.SignificanceP010},
		{1.7, analysis.SignificanceP010},
		{1.64, analysis.SignificanceP020},
		{0.5, analysis.SignificanceP020},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.bucket, bucketForT(tc.t), "t=%v", tc.t)
	}
}
