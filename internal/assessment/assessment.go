// Package assessment reduces a completed session's per-turn rubric results
// into a final aggregated band-score report.
package assessment

import (
	"log/slog"
	"math"
	"time"

	"github.com/WWPCA/ieltsprep/internal/models"
	"github.com/WWPCA/ieltsprep/internal/scoring"
)

// Evidence thresholds below which the final score is flagged low-confidence.
const (
	MinTurnsForConfidence = 10
	MinWordsForConfidence = 200
)

// Performance level labels keyed by overall band thresholds.
var performanceLevels = []struct {
	minBand float64
	label   string
}{
	{8.0, "Very Good User"},
	{7.0, "Good User"},
	{6.0, "Competent User"},
	{5.0, "Modest User"},
	{4.0, "Limited User"},
}

const lowestPerformanceLevel = "Extremely Limited User"

// Aggregate computes the final assessment from all per-turn scores. It is
// pure: it never fails for well-typed input, and an empty score list yields
// a zero-band, low-confidence report.
func Aggregate(results []models.RubricResult, duration time.Duration) models.FinalAssessment {
	totalWords := 0
	for _, r := range results {
		totalWords += r.WordCount
	}

	criterionBands := make(map[models.Criterion]float64, len(models.Criteria))
	descriptors := make(map[models.Criterion]string, len(models.Criteria))
	overall := 0.0

	if len(results) > 0 {
		sum := 0.0
		for _, c := range models.Criteria {
			band := roundHalf(criterionMean(results, c))
			criterionBands[c] = band
			descriptors[c] = bandDescriptor(c, band)
			sum += band
		}
		// Overall band is the midpoint-rounded mean of the four rounded
		// criterion means, never an unrounded float.
		overall = roundHalf(sum / float64(len(models.Criteria)))
	} else {
		for _, c := range models.Criteria {
			criterionBands[c] = 0
			descriptors[c] = "No evidence recorded."
		}
	}

	final := models.FinalAssessment{
		OverallBand:      overall,
		CriterionBands:   criterionBands,
		BandDescriptors:  descriptors,
		PerformanceLevel: performanceLevel(overall),
		Stats: models.PerformanceStats{
			TotalTurns:      len(results),
			TotalWords:      totalWords,
			DurationSeconds: int(duration.Seconds()),
		},
		SufficientEvidence: len(results) >= MinTurnsForConfidence && totalWords >= MinWordsForConfidence,
		ImprovementPlan:    improvementPlan(criterionBands, overall),
	}

	slog.Info("assessment.Aggregate: produced final assessment",
		"turns", len(results),
		"words", totalWords,
		"overallBand", overall,
		"level", final.PerformanceLevel,
		"sufficientEvidence", final.SufficientEvidence)
	return final
}

func criterionMean(results []models.RubricResult, c models.Criterion) float64 {
	sum := 0.0
	for _, r := range results {
		sum += r.Scores[c]
	}
	return sum / float64(len(results))
}

func performanceLevel(overall float64) string {
	for _, pl := range performanceLevels {
		if overall >= pl.minBand {
			return pl.label
		}
	}
	return lowestPerformanceLevel
}

// improvementPlan surfaces the weakest criterion's top suggestions first,
// followed by up to two general suggestions scaled by overall band tier.
func improvementPlan(bands map[models.Criterion]float64, overall float64) []string {
	if len(bands) == 0 || overall == 0 {
		return nil
	}

	lowest := models.Criteria[0]
	for _, c := range models.Criteria {
		if bands[c] < bands[lowest] {
			lowest = c
		}
	}

	plan := scoring.SuggestionsFor(lowest, scoring.TierFor(bands[lowest]))
	general := generalSuggestions[scoring.TierFor(overall)]
	if len(general) > 2 {
		general = general[:2]
	}
	return append(plan, general...)
}

// generalSuggestions are tier-scaled study recommendations appended after
// the criterion-specific plan.
var generalSuggestions = map[scoring.Tier][]string{
	scoring.TierLow: {
		"Take a full practice speaking test at least twice a week.",
		"Spend 15 minutes a day speaking English aloud, even alone.",
	},
	scoring.TierMedium: {
		"Practise with a partner who can push follow-up questions.",
		"Time your Part 2 answers to build toward a full two minutes.",
	},
	scoring.TierHigh: {
		"Seek feedback from an examiner-trained tutor to polish details.",
		"Practise the abstract Part 3 topics where precision matters most.",
	},
}

func bandDescriptor(c models.Criterion, band float64) string {
	table := bandDescriptors[c]
	for _, row := range table {
		if band >= row.minBand {
			return row.text
		}
	}
	if len(table) > 0 {
		return table[len(table)-1].text
	}
	return ""
}

type descriptorRow struct {
	minBand float64
	text    string
}

// bandDescriptors paraphrase the public IELTS speaking band descriptors per
// criterion at whole-band anchors.
var bandDescriptors = map[models.Criterion][]descriptorRow{
	models.CriterionFluency: {
		{8.0, "Speaks fluently with only rare repetition or self-correction; develops topics coherently."},
		{7.0, "Speaks at length without noticeable effort, with some hesitation or repetition."},
		{6.0, "Is willing to speak at length, though may lose coherence at times."},
		{5.0, "Usually maintains flow of speech but relies on repetition and slow speech to keep going."},
		{4.0, "Cannot respond without noticeable pauses; links only simple sentences."},
		{0.0, "Speech is mostly slow and fragmented with long pauses."},
	},
	models.CriterionLexical: {
		{8.0, "Uses a wide vocabulary resource readily and flexibly, including less common items."},
		{7.0, "Uses vocabulary resource flexibly to discuss a variety of topics."},
		{6.0, "Has enough vocabulary to discuss topics at length, with some inappropriate usage."},
		{5.0, "Manages to talk about familiar and unfamiliar topics with limited flexibility."},
		{4.0, "Can talk about familiar topics but conveys basic meaning only."},
		{0.0, "Uses only isolated words or memorized phrases."},
	},
	models.CriterionGrammar: {
		{8.0, "Uses a wide range of structures flexibly; most sentences are error-free."},
		{7.0, "Uses a range of complex structures with some flexibility; frequent error-free sentences."},
		{6.0, "Uses a mix of simple and complex structures with some errors."},
		{5.0, "Produces basic sentence forms with reasonable accuracy; limited complex structures."},
		{4.0, "Produces basic sentence forms; errors are frequent and may cause misunderstanding."},
		{0.0, "Attempts basic sentence forms with little success."},
	},
	models.CriterionPronunciation: {
		{8.0, "Is easy to understand throughout; accent has minimal effect on intelligibility."},
		{7.0, "Shows all the positive features of band 6 and some of band 8."},
		{6.0, "Can generally be understood throughout, though individual words or sounds reduce clarity."},
		{5.0, "Shows some effective use of pronunciation features, but with noticeable lapses."},
		{4.0, "Uses a limited range of pronunciation features; mispronunciations cause some difficulty."},
		{0.0, "Speech is often unintelligible."},
	},
}

// roundHalf rounds to the nearest 0.5.
func roundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}
