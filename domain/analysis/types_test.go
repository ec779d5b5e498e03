package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uxstat/domain/core"
)

func TestNewSimilarityMatrix(t *testing.T) {
	m := NewSimilarityMatrix([]core.CardKey{"A", "B", "C"})

	assert.Equal(t, 3, m.Size())
	assert.False(t, m.IsEmpty())
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, m.Values[i][i])
	}

	i, ok := m.Index("B")
	require.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = m.Index("Z")
	assert.False(t, ok)
}

func TestSimilarityMatrixSetKeepsSymmetry(t *testing.T) {
	m := NewSimilarityMatrix([]core.CardKey{"A", "B"})
	m.Set(0, 1, 0.75)

	ab, ok := m.At("A", "B")
	require.True(t, ok)
	ba, ok := m.At("B", "A")
	require.True(t, ok)
	assert.Equal(t, ab, ba)
	assert.Equal(t, 0.75, ab)

	_, ok = m.At("A", "Z")
	assert.False(t, ok)
}

func TestSimilarityMatrixEmpty(t *testing.T) {
	assert.True(t, NewSimilarityMatrix(nil).IsEmpty())
	assert.True(t, NewSimilarityMatrix([]core.CardKey{"only"}).IsEmpty())
}

func validTree() *ClusterNode {
	return &ClusterNode{
		Distance: 0.8,
		Children: []*ClusterNode{
			{
				Distance: 0.2,
				Children: []*ClusterNode{{Name: "a"}, {Name: "b"}},
			},
			{Name: "c"},
		},
	}
}

func TestClusterNodeCounts(t *testing.T) {
	root := validTree()
	assert.Equal(t, 3, root.LeafCount())
	assert.Equal(t, 2, root.InternalCount())
	assert.Equal(t, []string{"a", "b", "c"}, root.Leaves())

	leaf := &ClusterNode{Name: "solo"}
	assert.True(t, leaf.IsLeaf())
	assert.Equal(t, 1, leaf.LeafCount())
	assert.Equal(t, 0, leaf.InternalCount())
}

func TestClusterNodeValidate(t *testing.T) {
	require.NoError(t, validTree().Validate())

	t.Run("leaf with nonzero distance", func(t *testing.T) {
		bad := validTree()
		bad.Children[1].Distance = 0.1
		bad.Children[1].Children = nil
		assert.Error(t, bad.Validate())
	})

	t.Run("child above parent", func(t *testing.T) {
		bad := validTree()
		bad.Children[0].Distance = 0.9
		err := bad.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrNonUltrametric)
	})

	t.Run("non-binary merge", func(t *testing.T) {
		bad := &ClusterNode{
			Distance: 0.5,
			Children: []*ClusterNode{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		}
		assert.Error(t, bad.Validate())
	})

	t.Run("equal distances are ultrametric", func(t *testing.T) {
		flat := validTree()
		flat.Children[0].Distance = 0.8
		assert.NoError(t, flat.Validate())
	})
}

func TestInterpretKappa(t *testing.T) {
	cases := []struct {
		kappa float64
		want  KappaInterpretation
	}{
		{-0.3, KappaPoor},
		{0, KappaSlight},
		{0.20, KappaSlight},
		{0.21, KappaFair},
		{0.40, KappaFair},
		{0.55, KappaModerate},
		{0.60, KappaModerate},
		{0.75, KappaSubstantial},
		{0.80, KappaSubstantial},
		{0.81, KappaAlmostPerfect},
		{1.0, KappaAlmostPerfect},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, InterpretKappa(tc.kappa), "kappa=%v", tc.kappa)
	}
}
