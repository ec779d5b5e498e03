package research

import (
	"fmt"
	"sort"
	"strings"

	"uxstat/domain/core"
)

// MethodType identifies a research method. The set is closed so cross-method
// analysis can switch exhaustively instead of carrying loosely-typed records.
type MethodType string

const (
	MethodCardSort      MethodType = "card_sort"
	MethodSurvey        MethodType = "survey"
	MethodAccessibility MethodType = "accessibility"
	MethodDesignSystem  MethodType = "design_system"
)

// AllMethods lists the supported method types in canonical order
func AllMethods() []MethodType {
	return []MethodType{MethodCardSort, MethodSurvey, MethodAccessibility, MethodDesignSystem}
}

// ParseMethodType parses a method name
func ParseMethodType(s string) (MethodType, error) {
	switch MethodType(strings.TrimSpace(strings.ToLower(s))) {
	case MethodCardSort:
		return MethodCardSort, nil
	case MethodSurvey:
		return MethodSurvey, nil
	case MethodAccessibility:
		return MethodAccessibility, nil
	case MethodDesignSystem:
		return MethodDesignSystem, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownMethod, s)
}

// CardRef is a single content card as one participant saw it. Card identity
// across participants is keyed by text, not ID: sorting tools assign ids per
// session.
type CardRef struct {
	ID   core.ID `json:"id"`
	Text string  `json:"text"`
}

// Key returns the cross-participant identity of the card
func (c CardRef) Key() core.CardKey {
	return core.CardKey(strings.TrimSpace(c.Text))
}

// CategoryAssignment is one category a participant created, with the cards
// they placed into it.
type CategoryAssignment struct {
	CategoryID   core.ID   `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Cards        []CardRef `json:"cards"`
}

// Key returns the cross-participant identity of the category. Category ids
// are per-session, so identity is keyed by name.
func (a CategoryAssignment) Key() core.CategoryKey {
	return core.CategoryKey(strings.TrimSpace(a.CategoryName))
}

// CardSortResult is one participant's complete sort for one study
type CardSortResult struct {
	ParticipantID core.ParticipantID   `json:"participant_id"`
	StudyID       core.StudyID         `json:"study_id"`
	Categories    []CategoryAssignment `json:"categories"`
	CompletedAt   core.Timestamp       `json:"completed_at,omitempty"`
}

// Placements maps each card the participant sorted to the category they
// chose. A card listed twice keeps its first placement.
func (r CardSortResult) Placements() map[core.CardKey]core.CategoryKey {
	placements := make(map[core.CardKey]core.CategoryKey)
	for _, cat := range r.Categories {
		for _, card := range cat.Cards {
			key := card.Key()
			if key == "" {
				continue
			}
			if _, seen := placements[key]; !seen {
				placements[key] = cat.Key()
			}
		}
	}
	return placements
}

// CanonicalString returns a deterministic representation used for content
// hashing of result sets.
func (r CardSortResult) CanonicalString() string {
	placements := r.Placements()
	keys := make([]string, 0, len(placements))
	for card := range placements {
		keys = append(keys, string(card))
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(r.StudyID))
	b.WriteByte('|')
	b.WriteString(string(r.ParticipantID))
	for _, card := range keys {
		b.WriteByte('|')
		b.WriteString(card)
		b.WriteByte('=')
		b.WriteString(string(placements[core.CardKey(card)]))
	}
	return b.String()
}

// SurveyResponse is one participant's survey submission. Answers are kept as
// raw scale values together with the scale bounds so scores can be
// normalized without guessing the instrument.
type SurveyResponse struct {
	ParticipantID core.ParticipantID `json:"participant_id"`
	StudyID       core.StudyID       `json:"study_id"`
	Answers       []ScaleAnswer      `json:"answers"`
}

// ScaleAnswer is a single bounded-scale answer (e.g. a 1-5 Likert item)
type ScaleAnswer struct {
	QuestionID core.ID `json:"question_id"`
	Value      float64 `json:"value"`
	ScaleMin   float64 `json:"scale_min"`
	ScaleMax   float64 `json:"scale_max"`
}

// Normalized maps the answer onto [0,1]; degenerate scales normalize to 0
func (a ScaleAnswer) Normalized() float64 {
	span := a.ScaleMax - a.ScaleMin
	if span <= 0 {
		return 0
	}
	v := (a.Value - a.ScaleMin) / span
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Severity grades an accessibility finding as reported by the external
// auditing tool.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeveritySerious  Severity = "serious"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// GuidelineCheck is one pass/fail record for a WCAG guideline, produced by
// the external auditing collaborator. This core never runs audits.
type GuidelineCheck struct {
	GuidelineID core.GuidelineID `json:"guideline_id"`
	Passed      bool             `json:"passed"`
	Severity    Severity         `json:"severity,omitempty"`
}

// AccessibilityEvaluation is the audit outcome for one participant session
// within one study.
type AccessibilityEvaluation struct {
	ParticipantID core.ParticipantID `json:"participant_id"`
	StudyID       core.StudyID       `json:"study_id"`
	Method        MethodType         `json:"method"`
	Checks        []GuidelineCheck   `json:"checks"`
}

// FailedGuidelines returns the distinct failed guideline ids for this record
func (e AccessibilityEvaluation) FailedGuidelines() map[core.GuidelineID]bool {
	failed := make(map[core.GuidelineID]bool)
	for _, check := range e.Checks {
		if !check.Passed {
			failed[check.GuidelineID] = true
		}
	}
	return failed
}

// PassRate is the fraction of checks that passed; 0 when there are no checks
func (e AccessibilityEvaluation) PassRate() float64 {
	if len(e.Checks) == 0 {
		return 0
	}
	passed := 0
	for _, check := range e.Checks {
		if check.Passed {
			passed++
		}
	}
	return float64(passed) / float64(len(e.Checks))
}

// DesignSystemEvaluation records one participant's component compliance
// review in a design-system study.
type DesignSystemEvaluation struct {
	ParticipantID core.ParticipantID `json:"participant_id"`
	StudyID       core.StudyID       `json:"study_id"`
	Compliance    float64            `json:"compliance"` // [0,1]
	ComponentsHit int                `json:"components_hit"`
}

// ResultSet bundles per-method collections for cross-method analysis. Empty
// collections are valid; the engines degrade to empty reports.
type ResultSet struct {
	CardSorts     []CardSortResult          `json:"card_sorts,omitempty"`
	Surveys       []SurveyResponse          `json:"surveys,omitempty"`
	Accessibility []AccessibilityEvaluation `json:"accessibility,omitempty"`
	DesignSystem  []DesignSystemEvaluation  `json:"design_system,omitempty"`
}

// Participants returns the distinct participant ids present for a method
func (s ResultSet) Participants(method MethodType) map[core.ParticipantID]bool {
	ids := make(map[core.ParticipantID]bool)
	switch method {
	case MethodCardSort:
		for _, r := range s.CardSorts {
			ids[r.ParticipantID] = true
		}
	case MethodSurvey:
		for _, r := range s.Surveys {
			ids[r.ParticipantID] = true
		}
	case MethodAccessibility:
		for _, r := range s.Accessibility {
			ids[r.ParticipantID] = true
		}
	case MethodDesignSystem:
		for _, r := range s.DesignSystem {
			ids[r.ParticipantID] = true
		}
	}
	return ids
}
