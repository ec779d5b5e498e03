package similarity

import (
	"uxstat/domain/analysis"
	"uxstat/domain/core"
	"uxstat/domain/research"
)

// Builder turns raw per-participant category assignments into a symmetric
// item-similarity matrix. Similarity for a card pair is the fraction of
// participants who sorted both cards and placed them in the same category.
type Builder struct{}

// NewBuilder creates a similarity matrix builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build computes the similarity matrix for the deck seen across all results.
// The deck is the union of card texts in first-seen order, which keeps the
// output deterministic for identical inputs. An empty result list or a deck
// smaller than two cards yields an empty matrix, never an error.
func (b *Builder) Build(results []research.CardSortResult) *analysis.SimilarityMatrix {
	deck := Deck(results)
	if len(deck) < 2 {
		return analysis.NewSimilarityMatrix(nil)
	}

	placements := make([]map[core.CardKey]core.CategoryKey, 0, len(results))
	for _, result := range results {
		placements = append(placements, result.Placements())
	}

	matrix := analysis.NewSimilarityMatrix(deck)
	for i := 0; i < len(deck); i++ {
		for j := i + 1; j < len(deck); j++ {
			together, both := coOccurrence(placements, deck[i], deck[j])
			// No participant sorted both cards: similarity is defined as 0,
			// not NaN.
			value := 0.0
			if both > 0 {
				value = float64(together) / float64(both)
			}
			matrix.Set(i, j, value)
		}
	}
	return matrix
}

// Deck returns the distinct card keys across all results in first-seen order
func Deck(results []research.CardSortResult) []core.CardKey {
	var deck []core.CardKey
	seen := make(map[core.CardKey]bool)
	for _, result := range results {
		for _, cat := range result.Categories {
			for _, card := range cat.Cards {
				key := card.Key()
				if key == "" || seen[key] {
					continue
				}
				seen[key] = true
				deck = append(deck, key)
			}
		}
	}
	return deck
}

// PairConsistency measures how consistently two participants group the card
// pairs they share: a pair counts as consistent when both participants
// co-locate it or both separate it. Returns (consistent, shared) pair counts.
// The outlier detector reuses this one-vs-one restriction of the
// co-occurrence logic.
func PairConsistency(a, b map[core.CardKey]core.CategoryKey, deck []core.CardKey) (consistent, shared int) {
	for i := 0; i < len(deck); i++ {
		catAI, okAI := a[deck[i]]
		catBI, okBI := b[deck[i]]
		if !okAI || !okBI {
			continue
		}
		for j := i + 1; j < len(deck); j++ {
			catAJ, okAJ := a[deck[j]]
			catBJ, okBJ := b[deck[j]]
			if !okAJ || !okBJ {
				continue
			}
			shared++
			if (catAI == catAJ) == (catBI == catBJ) {
				consistent++
			}
		}
	}
	return consistent, shared
}

// coOccurrence counts, for one card pair, how many participants sorted both
// cards and how many of those placed them together.
func coOccurrence(placements []map[core.CardKey]core.CategoryKey, a, b core.CardKey) (together, both int) {
	for _, p := range placements {
		catA, okA := p[a]
		catB, okB := p[b]
		if !okA || !okB {
			continue
		}
		both++
		if catA == catB {
			together++
		}
	}
	return together, both
}
