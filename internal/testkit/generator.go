package testkit

import (
	"fmt"
	"math/rand"

	"uxstat/domain/core"
	"uxstat/domain/research"
)

// StudyGeneratorConfig configures the synthetic study generator
type StudyGeneratorConfig struct {
	ParticipantCount int      `json:"participant_count"`
	Deck             []string `json:"deck"`
	Categories       []string `json:"categories"`
	Seed             int64    `json:"seed"`
}

// DefaultStudyConfig returns sensible defaults for synthetic study generation
func DefaultStudyConfig() StudyGeneratorConfig {
	return StudyGeneratorConfig{
		ParticipantCount: 20,
		Deck: []string{
			"Home", "Search", "Checkout", "Returns", "Shipping",
			"Account", "Wishlist", "Support", "Orders", "Payments",
		},
		Categories: []string{"Navigation", "Commerce", "Help", "Profile"},
		Seed:       42,
	}
}

// StudyGenerator produces deterministic synthetic study results for the
// analytics pipeline. The same config always yields the same data.
type StudyGenerator struct {
	config StudyGeneratorConfig
	rng    *rand.Rand
}

// NewStudyGenerator creates a generator from the given config
func NewStudyGenerator(config StudyGeneratorConfig) *StudyGenerator {
	return &StudyGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// IdenticalSorts generates participants that all produce the same reference
// sort. Useful for exercising the perfect-agreement path.
func (g *StudyGenerator) IdenticalSorts() []research.CardSortResult {
	reference := g.randomGrouping()
	results := make([]research.CardSortResult, 0, g.config.ParticipantCount)
	for i := 0; i < g.config.ParticipantCount; i++ {
		results = append(results, g.buildResult(i, reference))
	}
	return results
}

// RandomSorts generates participants that each place every card in an
// independently random category. Agreement beyond chance should vanish.
func (g *StudyGenerator) RandomSorts() []research.CardSortResult {
	results := make([]research.CardSortResult, 0, g.config.ParticipantCount)
	for i := 0; i < g.config.ParticipantCount; i++ {
		results = append(results, g.buildResult(i, g.randomGrouping()))
	}
	return results
}

// MixedSorts generates mostly-conforming participants plus a dissenting tail.
// conformity is the fraction of participants that follow the reference sort.
func (g *StudyGenerator) MixedSorts(conformity float64) []research.CardSortResult {
	if conformity < 0 {
		conformity = 0
	}
	if conformity > 1 {
		conformity = 1
	}
	reference := g.randomGrouping()
	conforming := int(float64(g.config.ParticipantCount) * conformity)

	results := make([]research.CardSortResult, 0, g.config.ParticipantCount)
	for i := 0; i < g.config.ParticipantCount; i++ {
		grouping := reference
		if i >= conforming {
			grouping = g.randomGrouping()
		}
		results = append(results, g.buildResult(i, grouping))
	}
	return results
}

// Surveys generates one response per participant with answers centered on the
// given mean satisfaction (on a 1..5 scale).
func (g *StudyGenerator) Surveys(questionCount int, meanValue float64) []research.SurveyResponse {
	responses := make([]research.SurveyResponse, 0, g.config.ParticipantCount)
	for i := 0; i < g.config.ParticipantCount; i++ {
		response := research.SurveyResponse{
			ParticipantID: g.participantID(i),
			StudyID:       core.StudyID("synthetic"),
		}
		for q := 0; q < questionCount; q++ {
			value := meanValue + g.rng.NormFloat64()*0.5
			if value < 1 {
				value = 1
			}
			if value > 5 {
				value = 5
			}
			response.Answers = append(response.Answers, research.ScaleAnswer{
				QuestionID: core.ID(fmt.Sprintf("q_%02d", q+1)),
				Value:      value,
				ScaleMin:   1,
				ScaleMax:   5,
			})
		}
		responses = append(responses, response)
	}
	return responses
}

// Accessibility generates one evaluation per participant against the given
// guideline set, failing each check with the given probability.
func (g *StudyGenerator) Accessibility(guidelines []core.GuidelineID, failRate float64) []research.AccessibilityEvaluation {
	severities := []research.Severity{
		research.SeverityCritical, research.SeveritySerious,
		research.SeverityModerate, research.SeverityMinor,
	}
	evals := make([]research.AccessibilityEvaluation, 0, g.config.ParticipantCount)
	for i := 0; i < g.config.ParticipantCount; i++ {
		eval := research.AccessibilityEvaluation{
			ParticipantID: g.participantID(i),
			StudyID:       core.StudyID("synthetic"),
			Method:        research.MethodAccessibility,
		}
		for _, guideline := range guidelines {
			eval.Checks = append(eval.Checks, research.GuidelineCheck{
				GuidelineID: guideline,
				Passed:      g.rng.Float64() >= failRate,
				Severity:    severities[g.rng.Intn(len(severities))],
			})
		}
		evals = append(evals, eval)
	}
	return evals
}

// randomGrouping assigns every deck card to a uniformly random category
func (g *StudyGenerator) randomGrouping() map[string]string {
	grouping := make(map[string]string, len(g.config.Deck))
	for _, card := range g.config.Deck {
		grouping[card] = g.config.Categories[g.rng.Intn(len(g.config.Categories))]
	}
	return grouping
}

// buildResult turns a card-to-category grouping into a participant result
func (g *StudyGenerator) buildResult(index int, grouping map[string]string) research.CardSortResult {
	result := research.CardSortResult{
		ParticipantID: g.participantID(index),
		StudyID:       core.StudyID("synthetic"),
	}
	catIndex := make(map[string]int)
	for _, card := range g.config.Deck {
		category := grouping[card]
		idx, ok := catIndex[category]
		if !ok {
			idx = len(result.Categories)
			result.Categories = append(result.Categories, research.CategoryAssignment{
				CategoryID:   core.NewID(),
				CategoryName: category,
			})
			catIndex[category] = idx
		}
		result.Categories[idx].Cards = append(result.Categories[idx].Cards, research.CardRef{
			ID:   core.NewID(),
			Text: card,
		})
	}
	return result
}

func (g *StudyGenerator) participantID(index int) core.ParticipantID {
	return core.ParticipantID(fmt.Sprintf("p_%03d", index+1))
}
