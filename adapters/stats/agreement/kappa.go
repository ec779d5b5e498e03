package agreement

import (
	"uxstat/domain/analysis"
	"uxstat/domain/core"
	"uxstat/domain/research"
)

// CohensKappa computes a chance-corrected inter-rater agreement statistic
// generalized to multi-category, multi-rater card-sort data. Each
// participant's category choice per card counts as one rating.
//
// Observed agreement Po is the mean pairwise agreement rate: per card, the
// fraction of rater pairs assigning it to the same category, averaged over
// cards with at least two raters. Expected agreement Pe is the sum over
// categories of the squared marginal proportion of that category across all
// ratings. Kappa = (Po − Pe) / (1 − Pe), defined as 0 when Pe = 1 (perfect
// category imbalance degeneracy). Fewer than two participants yields the
// zero-valued result.
func (a *Analyzer) CohensKappa(results []research.CardSortResult) analysis.KappaResult {
	if len(results) < 2 {
		return analysis.KappaResult{Interpretation: analysis.InterpretKappa(0), Raters: len(results)}
	}

	perCard := make(map[core.CardKey]map[core.CategoryKey]int)
	marginals := make(map[core.CategoryKey]int)
	totalRatings := 0

	for _, result := range results {
		for card, category := range result.Placements() {
			counts := perCard[card]
			if counts == nil {
				counts = make(map[core.CategoryKey]int)
				perCard[card] = counts
			}
			counts[category]++
			marginals[category]++
			totalRatings++
		}
	}
	if totalRatings == 0 {
		return analysis.KappaResult{Interpretation: analysis.InterpretKappa(0), Raters: len(results)}
	}

	// Po: mean pairwise agreement over cards rated by >= 2 participants
	poSum, poCards := 0.0, 0
	for _, counts := range perCard {
		raters := 0
		for _, n := range counts {
			raters += n
		}
		if raters < 2 {
			continue
		}
		agreeingPairs := 0
		for _, n := range counts {
			agreeingPairs += n * (n - 1) / 2
		}
		totalPairs := raters * (raters - 1) / 2
		poSum += float64(agreeingPairs) / float64(totalPairs)
		poCards++
	}
	if poCards == 0 {
		return analysis.KappaResult{Interpretation: analysis.InterpretKappa(0), Raters: len(results)}
	}
	po := poSum / float64(poCards)

	// Pe: sum of squared marginal category proportions across all ratings
	pe := 0.0
	for _, n := range marginals {
		p := float64(n) / float64(totalRatings)
		pe += p * p
	}

	kappa := 0.0
	if 1-pe > 1e-12 {
		kappa = (po - pe) / (1 - pe)
	}
	// Pe = 1 leaves kappa at its defined sentinel of 0

	return analysis.KappaResult{
		Kappa:          kappa,
		Interpretation: analysis.InterpretKappa(kappa),
		Observed:       po,
		Expected:       pe,
		Raters:         len(results),
	}
}
