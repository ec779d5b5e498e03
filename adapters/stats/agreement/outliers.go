package agreement

import (
	"github.com/montanaflynn/stats"

	"uxstat/adapters/stats/similarity"
	"uxstat/domain/analysis"
	"uxstat/domain/core"
	"uxstat/domain/research"
)

// outlierMethod names the detection rule carried in the report
const outlierMethod = "mean_pairwise_consistency_2sd"

// DetectOutliers flags participants whose sorting diverges from the group.
// Each participant's score is their mean pairwise consistency with every
// other participant: over the card pairs both sorted, the fraction grouped
// the same way (together by both, or apart by both). A participant is an
// outlier when their score falls more than two standard deviations below the
// population mean of that score. Fewer than three participants cannot
// support a meaningful deviation, so the report comes back empty.
func (a *Analyzer) DetectOutliers(results []research.CardSortResult) analysis.OutlierReport {
	report := analysis.OutlierReport{Method: outlierMethod}
	if len(results) < 3 {
		return report
	}

	deck := similarity.Deck(results)
	placements := make([]map[core.CardKey]core.CategoryKey, len(results))
	for i, result := range results {
		placements[i] = result.Placements()
	}

	scores := make([]float64, len(results))
	for i := range results {
		sum, comparable := 0.0, 0
		for j := range results {
			if i == j {
				continue
			}
			consistent, shared := similarity.PairConsistency(placements[i], placements[j], deck)
			if shared == 0 {
				continue
			}
			sum += float64(consistent) / float64(shared)
			comparable++
		}
		if comparable > 0 {
			scores[i] = sum / float64(comparable)
		}
	}

	mean, _ := stats.Mean(scores)
	sd, _ := stats.StandardDeviation(scores)
	threshold := mean - 2*sd

	report.Threshold = threshold
	report.Scores = make(map[core.ParticipantID]float64, len(results))
	for i, result := range results {
		report.Scores[result.ParticipantID] = scores[i]
		if scores[i] < threshold {
			report.Outliers = append(report.Outliers, result.ParticipantID)
		}
	}
	return report
}
