package analysis

import (
	"fmt"

	"uxstat/domain/core"
	"uxstat/domain/research"
)

// SimilarityMatrix is a symmetric item-similarity matrix over the card deck.
// Cards carries the deck in first-seen order; Values[i][j] is in [0,1] with a
// fixed 1.0 diagonal.
type SimilarityMatrix struct {
	Cards  []core.CardKey `json:"cards"`
	Values [][]float64    `json:"values"`

	index map[core.CardKey]int
}

// NewSimilarityMatrix allocates a matrix with a 1.0 diagonal for the deck
func NewSimilarityMatrix(cards []core.CardKey) *SimilarityMatrix {
	values := make([][]float64, len(cards))
	index := make(map[core.CardKey]int, len(cards))
	for i, card := range cards {
		values[i] = make([]float64, len(cards))
		values[i][i] = 1.0
		index[card] = i
	}
	return &SimilarityMatrix{Cards: cards, Values: values, index: index}
}

// Size returns the deck size
func (m *SimilarityMatrix) Size() int {
	return len(m.Cards)
}

// IsEmpty reports whether the matrix has no pairs to offer
func (m *SimilarityMatrix) IsEmpty() bool {
	return len(m.Cards) < 2
}

// Index returns the row/column of a card
func (m *SimilarityMatrix) Index(card core.CardKey) (int, bool) {
	i, ok := m.index[card]
	return i, ok
}

// At returns the similarity between two cards by key
func (m *SimilarityMatrix) At(a, b core.CardKey) (float64, bool) {
	i, okA := m.index[a]
	j, okB := m.index[b]
	if !okA || !okB {
		return 0, false
	}
	return m.Values[i][j], true
}

// Set writes both [i][j] and [j][i] so the matrix stays symmetric by
// construction.
func (m *SimilarityMatrix) Set(i, j int, v float64) {
	m.Values[i][j] = v
	m.Values[j][i] = v
}

// ClusterNode is one node of the dendrogram. Leaves carry the card text and
// distance 0; internal nodes carry the merge distance and exactly two
// children.
type ClusterNode struct {
	Name     string         `json:"name,omitempty"`
	Distance float64        `json:"distance"`
	Children []*ClusterNode `json:"children,omitempty"`
}

// IsLeaf reports whether the node is a leaf
func (n *ClusterNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// LeafCount returns the number of leaves under the node
func (n *ClusterNode) LeafCount() int {
	if n.IsLeaf() {
		return 1
	}
	count := 0
	for _, child := range n.Children {
		count += child.LeafCount()
	}
	return count
}

// InternalCount returns the number of internal (merge) nodes under the node
func (n *ClusterNode) InternalCount() int {
	if n.IsLeaf() {
		return 0
	}
	count := 1
	for _, child := range n.Children {
		count += child.InternalCount()
	}
	return count
}

// Leaves returns leaf names in left-to-right order
func (n *ClusterNode) Leaves() []string {
	if n.IsLeaf() {
		return []string{n.Name}
	}
	var leaves []string
	for _, child := range n.Children {
		leaves = append(leaves, child.Leaves()...)
	}
	return leaves
}

// Validate checks the dendrogram shape invariants: binary merges, leaf and
// internal node counts, and non-decreasing merge distances from the leaves
// toward the root. The ultrametric property is verified here, not assumed.
func (n *ClusterNode) Validate() error {
	return n.validate(n.Distance)
}

func (n *ClusterNode) validate(parentDistance float64) error {
	if n.IsLeaf() {
		if n.Distance != 0 {
			return fmt.Errorf("leaf %q has distance %f, want 0", n.Name, n.Distance)
		}
		return nil
	}
	if len(n.Children) != 2 {
		return fmt.Errorf("internal node has %d children, want 2", len(n.Children))
	}
	if n.Distance > parentDistance {
		return fmt.Errorf("%w: child at %f above parent at %f",
			core.ErrNonUltrametric, n.Distance, parentDistance)
	}
	for _, child := range n.Children {
		if err := child.validate(n.Distance); err != nil {
			return err
		}
	}
	return nil
}

// AgreementRecord is the per-card categorization agreement: the fraction of
// participants placing the card in its majority category.
type AgreementRecord struct {
	CardKey          core.CardKey     `json:"card_key"`
	CardText         string           `json:"card_text"`
	Agreement        float64          `json:"agreement"` // [0,1]
	MajorityCategory core.CategoryKey `json:"majority_category"`
	Placements       int              `json:"placements"`
}

// AgreementReport aggregates per-card agreement across the deck
type AgreementReport struct {
	Records []AgreementRecord `json:"records"`
	Overall float64           `json:"overall"` // mean over placed cards
}

// KappaInterpretation is the Landis & Koch verbal bucket for a kappa value
type KappaInterpretation string

const (
	KappaPoor          KappaInterpretation = "poor"
	KappaSlight        KappaInterpretation = "slight"
	KappaFair          KappaInterpretation = "fair"
	KappaModerate      KappaInterpretation = "moderate"
	KappaSubstantial   KappaInterpretation = "substantial"
	KappaAlmostPerfect KappaInterpretation = "almost-perfect"
)

// InterpretKappa buckets a kappa value per Landis & Koch
func InterpretKappa(kappa float64) KappaInterpretation {
	switch {
	case kappa < 0:
		return KappaPoor
	case kappa <= 0.20:
		return KappaSlight
	case kappa <= 0.40:
		return KappaFair
	case kappa <= 0.60:
		return KappaModerate
	case kappa <= 0.80:
		return KappaSubstantial
	default:
		return KappaAlmostPerfect
	}
}

// KappaResult is a chance-corrected inter-rater agreement statistic
type KappaResult struct {
	Kappa          float64             `json:"kappa"` // [-1,1]
	Interpretation KappaInterpretation `json:"interpretation"`
	Observed       float64             `json:"observed"` // Po
	Expected       float64             `json:"expected"` // Pe
	Raters         int                 `json:"raters"`
}

// OutlierReport flags participants whose sorting diverges from the group
type OutlierReport struct {
	Outliers  []core.ParticipantID           `json:"outliers"`
	Method    string                         `json:"method"`    // e.g. "mean_pairwise_consistency_2sd"
	Threshold float64                        `json:"threshold"` // score below this is flagged
	Scores    map[core.ParticipantID]float64 `json:"scores,omitempty"`
}

// QualityReport scores how completely participants covered the deck
type QualityReport struct {
	MeanCompleteness float64                        `json:"mean_completeness"` // [0,1]
	PerParticipant   map[core.ParticipantID]float64 `json:"per_participant,omitempty"`
	Threshold        float64                        `json:"threshold"`
	Valid            bool                           `json:"valid"`
}

// SignificanceBucket is the coarse p-value bucket from the large-sample
// t-statistic approximation. Exact p-values ride alongside in
// CorrelationRecord for callers that need precision.
type SignificanceBucket float64

const (
	SignificanceP001 SignificanceBucket = 0.01
	SignificanceP005 SignificanceBucket = 0.05
	SignificanceP010 SignificanceBucket = 0.10
	SignificanceP020 SignificanceBucket = 0.20
)

// CorrelationRecord relates two research methods through their shared
// participants.
type CorrelationRecord struct {
	MethodA            research.MethodType `json:"method_a"`
	MethodB            research.MethodType `json:"method_b"`
	Correlation        float64             `json:"correlation"` // Pearson r in [-1,1]
	SignificanceBucket SignificanceBucket  `json:"significance_bucket"`
	PValue             float64             `json:"p_value"` // exact two-tailed Student-t
	SharedParticipants int                 `json:"shared_participants"`
}

// MethodPattern is rule-based commentary about which methods are jointly
// present. Heuristic, not a statistical claim.
type MethodPattern struct {
	Methods    []research.MethodType `json:"methods"`
	Label      string                `json:"label"`
	Commentary string                `json:"commentary"`
}

// CrossMethodReport is the full output of the cross-method correlation engine
type CrossMethodReport struct {
	Records           []CorrelationRecord `json:"records"`
	OverallConfidence float64             `json:"overall_confidence"` // weighted mean |r|
	Patterns          []MethodPattern     `json:"patterns,omitempty"`
}

// AccessibilitySignificance classifies an issue-overlap score
type AccessibilitySignificance string

const (
	AccessibilityLow    AccessibilitySignificance = "low"
	AccessibilityMedium AccessibilitySignificance = "medium"
	AccessibilityHigh   AccessibilitySignificance = "high"
)

// StudyAccessibilityCorrelation measures failed-guideline overlap between two
// studies.
type StudyAccessibilityCorrelation struct {
	StudyA           core.StudyID              `json:"study_a"`
	StudyB           core.StudyID              `json:"study_b"`
	CorrelationScore float64                   `json:"correlation_score"` // [0,1]
	SharedIssueIDs   []core.GuidelineID        `json:"shared_issue_ids"`
	Significance     AccessibilitySignificance `json:"significance"`
}

// MethodAccessibilityScore is the severity-weighted accessibility score and
// detection effectiveness for one method across studies.
type MethodAccessibilityScore struct {
	Method        research.MethodType `json:"method"`
	Score         float64             `json:"score"`         // [0,1], severity-weighted pass level
	Effectiveness float64             `json:"effectiveness"` // [0,1], prior-weighted detection effectiveness
	Evaluations   int                 `json:"evaluations"`
}

// AccessibilityReport is the full output of the cross-method accessibility
// analyzer.
type AccessibilityReport struct {
	StudyCorrelations []StudyAccessibilityCorrelation `json:"study_correlations"`
	MethodScores      []MethodAccessibilityScore      `json:"method_scores"`
}

// SortAnalysisReport bundles every card-sort analysis over one input
// snapshot. InputHash keys external memoization; the core never caches.
type SortAnalysisReport struct {
	InputHash  core.ResultSetHash `json:"input_hash"`
	Similarity *SimilarityMatrix  `json:"similarity,omitempty"`
	Dendrogram *ClusterNode       `json:"dendrogram,omitempty"`
	Agreement  AgreementReport    `json:"agreement"`
	Kappa      KappaResult        `json:"kappa"`
	Outliers   OutlierReport      `json:"outliers"`
	Quality    QualityReport      `json:"quality"`
	CreatedAt  core.Timestamp     `json:"created_at"`
}
