package crossmethod

import (
	"context"

	"uxstat/adapters/stats/similarity"
	"uxstat/domain/core"
	"uxstat/domain/research"
	"uxstat/ports"
)

// Default score extractors: reference implementations of the extraction
// extension point. Each maps one method's raw results onto a [0,1]
// per-participant scalar so scores stay commensurable across methods.
// Integration layers with richer instruments should supply their own
// ScoreExtractorPort implementations instead.

// DefaultExtractors returns one extractor per supported method
func DefaultExtractors() []ports.ScoreExtractorPort {
	return []ports.ScoreExtractorPort{
		&CardSortConsistencyExtractor{},
		&SurveySatisfactionExtractor{},
		&AccessibilityComplianceExtractor{},
		&DesignSystemComplianceExtractor{},
	}
}

// ExtractAll runs every extractor over the result set, dropping methods that
// produced no scores.
func ExtractAll(ctx context.Context, extractors []ports.ScoreExtractorPort, results research.ResultSet) ([]ports.MethodScores, error) {
	var scores []ports.MethodScores
	for _, extractor := range extractors {
		ms, err := extractor.Extract(ctx, results)
		if err != nil {
			return nil, err
		}
		if !ms.IsEmpty() {
			scores = append(scores, ms)
		}
	}
	return scores, nil
}

// CardSortConsistencyExtractor scores a participant by their mean pairwise
// sort consistency with the rest of the group, the same measure the outlier
// detector uses.
type CardSortConsistencyExtractor struct{}

// Method identifies the card-sort method
func (x *CardSortConsistencyExtractor) Method() research.MethodType {
	return research.MethodCardSort
}

// Extract computes mean pairwise consistency per participant
func (x *CardSortConsistencyExtractor) Extract(_ context.Context, results research.ResultSet) (ports.MethodScores, error) {
	out := ports.MethodScores{Method: x.Method(), Scores: make(map[core.ParticipantID]float64)}
	sorts := results.CardSorts
	if len(sorts) < 2 {
		return out, nil
	}

	deck := similarity.Deck(sorts)
	placements := make([]map[core.CardKey]core.CategoryKey, len(sorts))
	for i, r := range sorts {
		placements[i] = r.Placements()
	}

	for i, r := range sorts {
		if _, seen := out.Scores[r.ParticipantID]; seen {
			continue
		}
		sum, comparable := 0.0, 0
		for j := range sorts {
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
			out.Scores[r.ParticipantID] = sum / float64(comparable)
		}
	}
	return out, nil
}

// SurveySatisfactionExtractor scores a participant by their mean normalized
// scale answer.
type SurveySatisfactionExtractor struct{}

// Method identifies the survey method
func (x *SurveySatisfactionExtractor) Method() research.MethodType {
	return research.MethodSurvey
}

// Extract averages normalized answers per participant
func (x *SurveySatisfactionExtractor) Extract(_ context.Context, results research.ResultSet) (ports.MethodScores, error) {
	out := ports.MethodScores{Method: x.Method(), Scores: make(map[core.ParticipantID]float64)}
	sums := make(map[core.ParticipantID]float64)
	counts := make(map[core.ParticipantID]int)
	for _, response := range results.Surveys {
		for _, answer := range response.Answers {
			sums[response.ParticipantID] += answer.Normalized()
			counts[response.ParticipantID]++
		}
	}
	for id, count := range counts {
		out.Scores[id] = sums[id] / float64(count)
	}
	return out, nil
}

// AccessibilityComplianceExtractor scores a participant session by its mean
// guideline pass rate.
type AccessibilityComplianceExtractor struct{}

// Method identifies the accessibility method
func (x *AccessibilityComplianceExtractor) Method() research.MethodType {
	return research.MethodAccessibility
}

// Extract averages pass rates per participant across their evaluations
func (x *AccessibilityComplianceExtractor) Extract(_ context.Context, results research.ResultSet) (ports.MethodScores, error) {
	out := ports.MethodScores{Method: x.Method(), Scores: make(map[core.ParticipantID]float64)}
	sums := make(map[core.ParticipantID]float64)
	counts := make(map[core.ParticipantID]int)
	for _, eval := range results.Accessibility {
		if len(eval.Checks) == 0 {
			continue
		}
		sums[eval.ParticipantID] += eval.PassRate()
		counts[eval.ParticipantID]++
	}
	for id, count := range counts {
		out.Scores[id] = sums[id] / float64(count)
	}
	return out, nil
}

// DesignSystemComplianceExtractor scores a participant by their mean
// component compliance.
type DesignSystemComplianceExtractor struct{}

// Method identifies the design-system method
func (x *DesignSystemComplianceExtractor) Method() research.MethodType {
	return research.MethodDesignSystem
}

// Extract averages compliance scores per participant
func (x *DesignSystemComplianceExtractor) Extract(_ context.Context, results research.ResultSet) (ports.MethodScores, error) {
	out := ports.MethodScores{Method: x.Method(), Scores: make(map[core.ParticipantID]float64)}
	sums := make(map[core.ParticipantID]float64)
	counts := make(map[core.ParticipantID]int)
	for _, eval := range results.DesignSystem {
		compliance := eval.Compliance
		if compliance < 0 {
			compliance = 0
		}
		if compliance > 1 {
			compliance = 1
		}
		sums[eval.ParticipantID] += compliance
		counts[eval.ParticipantID]++
	}
	for id, count := range counts {
		out.Scores[id] = sums[id] / float64(count)
	}
	return out, nil
}
