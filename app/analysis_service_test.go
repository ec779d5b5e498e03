package app

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uxstat/adapters/stats/cluster"
	"uxstat/domain/analysis"
	"uxstat/domain/core"
	"uxstat/domain/research"
	"uxstat/internal/testkit"
)

func TestSortAnalysisServiceFullPipeline(t *testing.T) {
	service, err := NewSortAnalysisService(DefaultSortAnalysisOptions(), nil)
	require.NoError(t, err)

	cfg := testkit.DefaultStudyConfig()
	cfg.ParticipantCount = 12
	generator := testkit.NewStudyGenerator(cfg)
	results := generator.MixedSorts(0.75)

	report, err := service.Analyze(context.Background(), results)
	require.NoError(t, err)

	assert.NotEmpty(t, report.InputHash.String())
	assert.False(t, report.CreatedAt.IsZero())

	require.NotNil(t, report.Similarity)
	assert.Equal(t, len(cfg.Deck), report.Similarity.Size())

	require.NotNil(t, report.Dendrogram)
	assert.Equal(t, len(cfg.Deck), report.Dendrogram.LeafCount())
	assert.Equal(t, len(cfg.Deck)-1, report.Dendrogram.InternalCount())
	require.NoError(t, report.Dendrogram.Validate())

	assert.Len(t, report.Agreement.Records, len(cfg.Deck))
	assert.Greater(t, report.Agreement.Overall, 0.0)
	assert.LessOrEqual(t, report.Agreement.Overall, 1.0)

	assert.Equal(t, cfg.ParticipantCount, report.Kappa.Raters)
	assert.Equal(t, analysis.InterpretKappa(report.Kappa.Kappa), report.Kappa.Interpretation)

	assert.Len(t, report.Outliers.Scores, cfg.ParticipantCount)
	assert.Equal(t, 1.0, report.Quality.MeanCompleteness)
	assert.True(t, report.Quality.Valid)
}

func scenarioSort(participant string, groups ...[]string) research.CardSortResult {
	result := research.CardSortResult{
		ParticipantID: core.ParticipantID(participant),
		StudyID:       "nav-study",
	}
	for _, group := range groups {
		cat := research.CategoryAssignment{CategoryID: core.NewID(), CategoryName: group[0]}
		for _, text := range group[1:] {
			cat.Cards = append(cat.Cards, research.CardRef{ID: core.NewID(), Text: text})
		}
		result.Categories = append(result.Categories, cat)
	}
	return result
}

func TestSortAnalysisServiceFourCardScenario(t *testing.T) {
	service, err := NewSortAnalysisService(DefaultSortAnalysisOptions(), nil)
	require.NoError(t, err)

	// Two participants pair {A,B} and {C,D}; the third crosses the pairs
	// under their own category names.
	results := []research.CardSortResult{
		scenarioSort("p1", []string{"Group 1", "A", "B"}, []string{"Group 2", "C", "D"}),
		scenarioSort("p2", []string{"Group 1", "A", "B"}, []string{"Group 2", "C", "D"}),
		scenarioSort("p3", []string{"Left", "A", "C"}, []string{"Right", "B", "D"}),
	}

	report, err := service.Analyze(context.Background(), results)
	require.NoError(t, err)

	similarityAt := func(a, b core.CardKey) float64 {
		v, ok := report.Similarity.At(a, b)
		require.True(t, ok, "missing pair %s/%s", a, b)
		return v
	}
	assert.InDelta(t, 2.0/3.0, similarityAt("A", "B"), 1e-12)
	assert.InDelta(t, 2.0/3.0, similarityAt("C", "D"), 1e-12)
	assert.InDelta(t, 1.0/3.0, similarityAt("A", "C"), 1e-12)
	assert.InDelta(t, 1.0/3.0, similarityAt("B", "D"), 1e-12)
	assert.Zero(t, similarityAt("A", "D"))
	assert.Zero(t, similarityAt("B", "C"))

	// The pairs merge first at distance 1/3 each; the root joins them at the
	// average cross distance (2/3 + 1 + 1 + 2/3) / 4 = 5/6.
	root := report.Dendrogram
	require.NotNil(t, root)
	require.Len(t, root.Children, 2)
	assert.InDelta(t, 5.0/6.0, root.Distance, 1e-12)

	leafSets := make(map[string]float64, 2)
	for _, child := range root.Children {
		leaves := child.Leaves()
		sort.Strings(leaves)
		leafSets[strings.Join(leaves, ",")] = child.Distance
	}
	require.Contains(t, leafSets, "A,B")
	require.Contains(t, leafSets, "C,D")
	assert.InDelta(t, 1.0/3.0, leafSets["A,B"], 1e-12)
	assert.InDelta(t, 1.0/3.0, leafSets["C,D"], 1e-12)

	// Each card follows its majority name twice out of three placements
	require.Len(t, report.Agreement.Records, 4)
	for _, record := range report.Agreement.Records {
		assert.InDelta(t, 2.0/3.0, record.Agreement, 1e-12, "card %s", record.CardKey)
	}
	assert.InDelta(t, 2.0/3.0, report.Agreement.Overall, 1e-12)
}

func TestSortAnalysisServiceHashIgnoresInputOrder(t *testing.T) {
	service, err := NewSortAnalysisService(DefaultSortAnalysisOptions(), nil)
	require.NoError(t, err)

	generator := testkit.NewStudyGenerator(testkit.DefaultStudyConfig())
	results := generator.MixedSorts(0.8)

	reversed := make([]research.CardSortResult, len(results))
	for i, r := range results {
		reversed[len(results)-1-i] = r
	}

	ctx := context.Background()
	first, err := service.Analyze(ctx, results)
	require.NoError(t, err)
	second, err := service.Analyze(ctx, reversed)
	require.NoError(t, err)

	assert.Equal(t, first.InputHash, second.InputHash)
}

func TestSortAnalysisServiceEmptyInput(t *testing.T) {
	service, err := NewSortAnalysisService(DefaultSortAnalysisOptions(), nil)
	require.NoError(t, err)

	report, err := service.Analyze(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, report.Similarity.IsEmpty())
	assert.Nil(t, report.Dendrogram)
	assert.Empty(t, report.Agreement.Records)
	assert.Zero(t, report.Kappa.Kappa)
	assert.Empty(t, report.Outliers.Outliers)
	assert.False(t, report.Quality.Valid)
}

func TestNewSortAnalysisServiceRejectsBadLinkage(t *testing.T) {
	_, err := NewSortAnalysisService(SortAnalysisOptions{Linkage: cluster.Linkage("ward")}, nil)
	assert.Error(t, err)
}
