package agreement

import (
	"sort"

	"github.com/montanaflynn/stats"

	"uxstat/adapters/stats/similarity"
	"uxstat/domain/analysis"
	"uxstat/domain/core"
	"uxstat/domain/research"
)

// Analyzer computes per-card and overall categorization agreement plus the
// chance-corrected statistics layered on top of it (kappa, outliers, data
// quality). All methods are pure transforms over the input snapshot.
type Analyzer struct{}

// NewAnalyzer creates an agreement analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// cardTally accumulates category placements for one card
type cardTally struct {
	counts     map[core.CategoryKey]int
	categories []core.CategoryKey // first-seen order, for deterministic modal ties
	text       string
}

// Analyze determines, per card, the modal category across the participants
// who placed it; agreement is the modal count over the placement count.
// Overall agreement is the mean of per-card agreements; a card placed by
// nobody is excluded from that mean rather than counted as zero.
func (a *Analyzer) Analyze(results []research.CardSortResult) analysis.AgreementReport {
	deck := similarity.Deck(results)
	if len(deck) == 0 {
		return analysis.AgreementReport{}
	}

	tallies := make(map[core.CardKey]*cardTally, len(deck))
	for _, result := range results {
		for card, category := range result.Placements() {
			tally := tallies[card]
			if tally == nil {
				tally = &cardTally{counts: make(map[core.CategoryKey]int), text: string(card)}
				tallies[card] = tally
			}
			if tally.counts[category] == 0 {
				tally.categories = append(tally.categories, category)
			}
			tally.counts[category]++
		}
	}

	report := analysis.AgreementReport{Records: make([]analysis.AgreementRecord, 0, len(deck))}
	var agreements []float64
	for _, card := range deck {
		tally := tallies[card]
		if tally == nil {
			continue
		}
		modal, modalCount, placements := tally.modal()
		agreement := float64(modalCount) / float64(placements)
		agreements = append(agreements, agreement)
		report.Records = append(report.Records, analysis.AgreementRecord{
			CardKey:          card,
			CardText:         tally.text,
			Agreement:        agreement,
			MajorityCategory: modal,
			Placements:       placements,
		})
	}

	if len(agreements) > 0 {
		report.Overall, _ = stats.Mean(agreements)
	}
	return report
}

// modal returns the most frequent category, its count, and the total
// placement count. Ties keep the category seen first in input order.
func (t *cardTally) modal() (core.CategoryKey, int, int) {
	var modal core.CategoryKey
	modalCount, placements := 0, 0
	for _, category := range t.categories {
		count := t.counts[category]
		placements += count
		if count > modalCount {
			modal = category
			modalCount = count
		}
	}
	return modal, modalCount, placements
}

// SortAscending orders records lowest-agreement first for "needs attention"
// reporting. The sort is stable: ties keep input (deck) order.
func SortAscending(records []analysis.AgreementRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Agreement < records[j].Agreement
	})
}

// SortDescending orders records highest-agreement first
func SortDescending(records []analysis.AgreementRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Agreement > records[j].Agreement
	})
}
