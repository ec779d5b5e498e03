package cluster

import (
	"fmt"
	"strings"

	"uxstat/domain/analysis"
	"uxstat/domain/core"
)

// Linkage selects the inter-cluster distance rule. Average linkage (UPGMA)
// is the default; the choice changes dendrogram shape, so it is explicit and
// configurable rather than baked in.
type Linkage string

const (
	LinkageAverage  Linkage = "average"
	LinkageSingle   Linkage = "single"
	LinkageComplete Linkage = "complete"
)

// ParseLinkage parses a linkage rule name
func ParseLinkage(s string) (Linkage, error) {
	switch Linkage(strings.TrimSpace(strings.ToLower(s))) {
	case LinkageAverage, "":
		return LinkageAverage, nil
	case LinkageSingle:
		return LinkageSingle, nil
	case LinkageComplete:
		return LinkageComplete, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownLinkage, s)
}

// Clusterer derives a binary merge tree (dendrogram) from a similarity
// matrix by agglomerative clustering. O(n³) is acceptable for card decks in
// the tens to low hundreds; nearest-neighbor chains only pay off past ~500
// items.
type Clusterer struct {
	linkage Linkage
}

// NewClusterer creates a clusterer with average linkage (UPGMA)
func NewClusterer() *Clusterer {
	return &Clusterer{linkage: LinkageAverage}
}

// NewClustererWithLinkage creates a clusterer with an explicit linkage rule
func NewClustererWithLinkage(linkage Linkage) (*Clusterer, error) {
	parsed, err := ParseLinkage(string(linkage))
	if err != nil {
		return nil, err
	}
	return &Clusterer{linkage: parsed}, nil
}

// workCluster is one active cluster during agglomeration
type workCluster struct {
	node    *analysis.ClusterNode
	size    int
	minLeaf string // lexicographically smallest constituent leaf name
	active  bool
}

// Cluster builds the dendrogram. Similarity converts to distance as
// 1 − similarity, every card starts as a singleton, and the pair of active
// clusters at minimum distance merges until one root remains (exactly n−1
// merges). Ties break by the lexicographically smallest pair of constituent
// leaf names so identical inputs always yield the identical tree. The
// ultrametric property of the result is verified before returning.
func (c *Clusterer) Cluster(matrix *analysis.SimilarityMatrix) (*analysis.ClusterNode, error) {
	n := matrix.Size()
	if n == 0 {
		return nil, nil
	}
	if n == 1 {
		return &analysis.ClusterNode{Name: string(matrix.Cards[0])}, nil
	}

	// Slots 0..n-1 hold singletons; merges append. 2n-1 total.
	clusters := make([]workCluster, n, 2*n-1)
	for i, card := range matrix.Cards {
		clusters[i] = workCluster{
			node:    &analysis.ClusterNode{Name: string(card)},
			size:    1,
			minLeaf: string(card),
			active:  true,
		}
	}

	dist := make([][]float64, 2*n-1)
	for i := range dist {
		dist[i] = make([]float64, 2*n-1)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := 1.0 - matrix.Values[i][j]
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	for merges := 0; merges < n-1; merges++ {
		a, b := c.closestPair(clusters, dist)
		mergeDist := dist[a][b]

		merged := workCluster{
			node: &analysis.ClusterNode{
				Distance: mergeDist,
				Children: []*analysis.ClusterNode{clusters[a].node, clusters[b].node},
			},
			size:    clusters[a].size + clusters[b].size,
			minLeaf: minString(clusters[a].minLeaf, clusters[b].minLeaf),
			active:  true,
		}
		idx := len(clusters)
		clusters = append(clusters, merged)

		for k := range clusters[:idx] {
			if !clusters[k].active || k == a || k == b {
				continue
			}
			dist[idx][k] = c.mergedDistance(dist[a][k], dist[b][k], clusters[a].size, clusters[b].size)
			dist[k][idx] = dist[idx][k]
		}
		clusters[a].active = false
		clusters[b].active = false
	}

	root := clusters[len(clusters)-1].node
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return root, nil
}

// closestPair finds the active cluster pair at minimum distance, breaking
// ties by the lexicographically smallest (minLeafA, minLeafB) name pair.
func (c *Clusterer) closestPair(clusters []workCluster, dist [][]float64) (int, int) {
	bestA, bestB := -1, -1
	bestDist := 0.0
	bestLo, bestHi := "", ""

	for i := range clusters {
		if !clusters[i].active {
			continue
		}
		for j := i + 1; j < len(clusters); j++ {
			if !clusters[j].active {
				continue
			}
			d := dist[i][j]
			lo, hi := orderedPair(clusters[i].minLeaf, clusters[j].minLeaf)
			if bestA < 0 || d < bestDist ||
				(d == bestDist && (lo < bestLo || (lo == bestLo && hi < bestHi))) {
				bestA, bestB = i, j
				bestDist = d
				bestLo, bestHi = lo, hi
			}
		}
	}
	return bestA, bestB
}

// mergedDistance recomputes the distance from a freshly merged cluster to a
// remaining cluster under the configured linkage. Average linkage is the
// size-weighted mean of the constituents' distances.
func (c *Clusterer) mergedDistance(dA, dB float64, sizeA, sizeB int) float64 {
	switch c.linkage {
	case LinkageSingle:
		if dA < dB {
			return dA
		}
		return dB
	case LinkageComplete:
		if dA > dB {
			return dA
		}
		return dB
	default:
		return (float64(sizeA)*dA + float64(sizeB)*dB) / float64(sizeA+sizeB)
	}
}

func orderedPair(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}

func minString(a, b string) string {
	if a <= b {
		return a
	}
	return b
}
