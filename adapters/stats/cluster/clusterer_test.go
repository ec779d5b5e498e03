package cluster

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uxstat/domain/analysis"
	"uxstat/domain/core"
)

// matrixFromSims builds a similarity matrix over cards with the given upper
// triangle, keyed "A|B" -> similarity. Unlisted pairs get zero.
func matrixFromSims(cards []core.CardKey, sims map[[2]int]float64) *analysis.SimilarityMatrix {
	m := analysis.NewSimilarityMatrix(cards)
	for pair, v := range sims {
		m.Set(pair[0], pair[1], v)
	}
	return m
}

func twoGroupMatrix() *analysis.SimilarityMatrix {
	// a-b and c-d are tight pairs, everything across is dissimilar
	return matrixFromSims([]core.CardKey{"a", "b", "c", "d"}, map[[2]int]float64{
		{0, 1}: 0.9,
		{2, 3}: 0.8,
		{0, 2}: 0.1, {0, 3}: 0.1, {1, 2}: 0.1, {1, 3}: 0.1,
	})
}

func TestClusterTwoGroupShape(t *testing.T) {
	clusterer := NewClusterer()
	root, err := clusterer.Cluster(twoGroupMatrix())
	require.NoError(t, err)
	require.NotNil(t, root)

	assert.Equal(t, 4, root.LeafCount())
	assert.Equal(t, 3, root.InternalCount())
	require.NoError(t, root.Validate())

	// The tight pairs merge first, then the two pairs join at the root
	require.Len(t, root.Children, 2)
	left, right := root.Children[0], root.Children[1]
	assert.ElementsMatch(t, []string{"a", "b"}, left.Leaves())
	assert.ElementsMatch(t, []string{"c", "d"}, right.Leaves())

	assert.InDelta(t, 0.1, left.Distance, 1e-12)
	assert.InDelta(t, 0.2, right.Distance, 1e-12)
	assert.InDelta(t, 0.9, root.Distance, 1e-12)
}

func TestClusterMergeDistancesNonDecreasing(t *testing.T) {
	clusterer := NewClusterer()
	root, err := clusterer.Cluster(twoGroupMatrix())
	require.NoError(t, err)

	var walk func(n *analysis.ClusterNode)
	walk = func(n *analysis.ClusterNode) {
		for _, child := range n.Children {
			assert.LessOrEqual(t, child.Distance, n.Distance)
			walk(child)
		}
	}
	walk(root)
}

func TestClusterDeterministicUnderTies(t *testing.T) {
	// Every pair equidistant: only the tie-break decides the tree shape
	tied := matrixFromSims([]core.CardKey{"d", "b", "c", "a"}, map[[2]int]float64{
		{0, 1}: 0.5, {0, 2}: 0.5, {0, 3}: 0.5,
		{1, 2}: 0.5, {1, 3}: 0.5, {2, 3}: 0.5,
	})

	clusterer := NewClusterer()
	first, err := clusterer.Cluster(tied)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := clusterer.Cluster(tied)
		require.NoError(t, err)
		assert.True(t, reflect.DeepEqual(first, again), "tie-broken tree must be stable")
	}

	// Lexicographically smallest pair merges first
	var firstMerge *analysis.ClusterNode
	var find func(n *analysis.ClusterNode)
	find = func(n *analysis.ClusterNode) {
		if n.IsLeaf() {
			return
		}
		if n.Children[0].IsLeaf() && n.Children[1].IsLeaf() {
			if firstMerge == nil || n.Distance < firstMerge.Distance {
				firstMerge = n
			}
		}
		for _, child := range n.Children {
			find(child)
		}
	}
	find(first)
	require.NotNil(t, firstMerge)
	assert.ElementsMatch(t, []string{"a", "b"}, firstMerge.Leaves())
}

func TestClusterLinkageVariants(t *testing.T) {
	// After (a,b) merge at 0.1, the merged cluster sits at distance 0.3 from c
	// through a and 0.7 through b.
	m := matrixFromSims([]core.CardKey{"a", "b", "c"}, map[[2]int]float64{
		{0, 1}: 0.9,
		{0, 2}: 0.7,
		{1, 2}: 0.3,
	})

	cases := []struct {
		linkage  Linkage
		rootDist float64
	}{
		{LinkageSingle, 0.3},
		{LinkageComplete, 0.7},
		{LinkageAverage, 0.5},
	}
	for _, tc := range cases {
		t.Run(string(tc.linkage), func(t *testing.T) {
			clusterer, err := NewClustererWithLinkage(tc.linkage)
			require.NoError(t, err)
			root, err := clusterer.Cluster(m)
			require.NoError(t, err)
			assert.InDelta(t, tc.rootDist, root.Distance, 1e-12)
		})
	}
}

func TestClusterDegenerateInputs(t *testing.T) {
	clusterer := NewClusterer()

	root, err := clusterer.Cluster(analysis.NewSimilarityMatrix(nil))
	require.NoError(t, err)
	assert.Nil(t, root)

	root, err = clusterer.Cluster(analysis.NewSimilarityMatrix([]core.CardKey{"only"}))
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.True(t, root.IsLeaf())
	assert.Equal(t, "only", root.Name)
	assert.Zero(t, root.Distance)
}

func TestParseLinkage(t *testing.T) {
	for _, s := range []string{"average", "AVERAGE", " average ", ""} {
		linkage, err := ParseLinkage(s)
		require.NoError(t, err)
		assert.Equal(t, LinkageAverage, linkage)
	}

	linkage, err := ParseLinkage("single")
	require.NoError(t, err)
	assert.Equal(t, LinkageSingle, linkage)

	_, err = ParseLinkage("ward")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownLinkage)
}
