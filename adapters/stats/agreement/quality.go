package agreement

import (
	"github.com/montanaflynn/stats"

	"uxstat/adapters/stats/similarity"
	"uxstat/domain/analysis"
	"uxstat/domain/core"
	"uxstat/domain/research"
)

// DefaultCompletenessThreshold is the validity cutoff for mean deck coverage
const DefaultCompletenessThreshold = 0.8

// Quality scores how completely each participant covered the deck:
// completeness is the fraction of the full deck the participant categorized,
// and the result set is valid when the mean completeness reaches the
// threshold. A non-positive threshold falls back to the default.
func (a *Analyzer) Quality(results []research.CardSortResult, threshold float64) analysis.QualityReport {
	if threshold <= 0 {
		threshold = DefaultCompletenessThreshold
	}
	report := analysis.QualityReport{Threshold: threshold}

	deck := similarity.Deck(results)
	if len(deck) == 0 || len(results) == 0 {
		return report
	}

	report.PerParticipant = make(map[core.ParticipantID]float64, len(results))
	completeness := make([]float64, len(results))
	for i, result := range results {
		completeness[i] = float64(len(result.Placements())) / float64(len(deck))
		report.PerParticipant[result.ParticipantID] = completeness[i]
	}

	report.MeanCompleteness, _ = stats.Mean(completeness)
	report.Valid = report.MeanCompleteness >= threshold
	return report
}
