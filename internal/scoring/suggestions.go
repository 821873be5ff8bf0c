package scoring

import "github.com/WWPCA/ieltsprep/internal/models"

// Tier buckets a criterion score for feedback lookup.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// TierFor maps a band score to its performance tier.
func TierFor(score float64) Tier {
	switch {
	case score >= 7.0:
		return TierHigh
	case score >= 5.0:
		return TierMedium
	default:
		return TierLow
	}
}

// suggestionTable is the static lookup of improvement suggestions keyed by
// (criterion, tier). Entries are ordered most-important first.
var suggestionTable = map[models.Criterion]map[Tier][]string{
	models.CriterionFluency: {
		TierLow: {
			"Practise speaking for 60 seconds without stopping on everyday topics.",
			"Use fillers like 'well' or 'let me think' instead of long silences.",
			"Record yourself and count the pauses in each answer.",
		},
		TierMedium: {
			"Link your ideas with connectors such as 'firstly' and 'on the other hand'.",
			"Aim for answers of three to four sentences in Part 1 and Part 3.",
		},
		TierHigh: {
			"Work on varying your pace for emphasis rather than speaking at one speed.",
			"Practise extending answers with examples without losing the thread.",
		},
	},
	models.CriterionLexical: {
		TierLow: {
			"Learn five new topic words each day and use them in full sentences.",
			"Replace very common words like 'good' and 'nice' with more precise choices.",
			"Keep a vocabulary notebook organized by IELTS topic.",
		},
		TierMedium: {
			"Practise paraphrasing the question before answering it.",
			"Add idiomatic phrases you are comfortable with, used naturally.",
		},
		TierHigh: {
			"Focus on less common collocations to push precision further.",
			"Practise discussing abstract topics to stretch your range.",
		},
	},
	models.CriterionGrammar: {
		TierLow: {
			"Review the past simple and present perfect, the most common exam tenses.",
			"Practise building sentences with 'because' and 'although'.",
			"Write out answers, then say them aloud checking verb endings.",
		},
		TierMedium: {
			"Combine short sentences into longer ones with relative clauses.",
			"Practise conditional forms for Part 3 speculation questions.",
		},
		TierHigh: {
			"Aim for error-free complex sentences rather than more complexity.",
			"Vary your structures: passives, conditionals, and cleft sentences.",
		},
	},
	models.CriterionPronunciation: {
		TierLow: {
			"Shadow short clips of native speakers, matching rhythm and stress.",
			"Practise word stress with a pronunciation dictionary.",
			"Slow down slightly and open your mouth more on stressed syllables.",
		},
		TierMedium: {
			"Work on sentence stress: emphasize the words that carry meaning.",
			"Practise linking words together the way fluent speakers do.",
		},
		TierHigh: {
			"Fine-tune intonation to signal contrast and attitude.",
			"Record longer monologues and review for flat stretches.",
		},
	},
}

// suggestionsFor returns one to three suggestions targeting the weakest
// criterion of this turn.
func suggestionsFor(scores map[models.Criterion]float64) []string {
	lowest := models.CriterionFluency
	for _, c := range models.Criteria {
		if scores[c] < scores[lowest] {
			lowest = c
		}
	}
	return SuggestionsFor(lowest, TierFor(scores[lowest]))
}

// SuggestionsFor returns the static suggestions for a criterion and tier.
func SuggestionsFor(c models.Criterion, tier Tier) []string {
	byTier, ok := suggestionTable[c]
	if !ok {
		return nil
	}
	out := make([]string, len(byTier[tier]))
	copy(out, byTier[tier])
	return out
}

func strengths(scores map[models.Criterion]float64, wordCount int) []string {
	var out []string
	if scores[models.CriterionFluency] >= 6.5 {
		out = append(out, "You maintained a natural pace and kept your answer flowing.")
	}
	if scores[models.CriterionLexical] >= 6.5 {
		out = append(out, "You used a varied range of vocabulary.")
	}
	if scores[models.CriterionGrammar] >= 6.5 {
		out = append(out, "You produced well-formed complex sentences.")
	}
	if wordCount >= 100 {
		out = append(out, "You developed your answer with good length and detail.")
	}
	return out
}

func weaknesses(scores map[models.Criterion]float64, wordCount int) []string {
	var out []string
	if scores[models.CriterionFluency] < 5.0 {
		out = append(out, "Your answer was hard to follow at times; work on pacing and linking ideas.")
	}
	if scores[models.CriterionLexical] < 5.0 {
		out = append(out, "Vocabulary was repetitive; try to vary your word choices.")
	}
	if scores[models.CriterionGrammar] < 5.0 {
		out = append(out, "Sentence structures were limited; practise joining clauses.")
	}
	if wordCount < 10 {
		out = append(out, "The answer was very short; aim to extend your responses.")
	}
	return out
}
