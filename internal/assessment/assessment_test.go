package assessment

import (
	"math"
	"testing"
	"time"

	"github.com/WWPCA/ieltsprep/internal/models"
)

func uniformResult(score float64, words int) models.RubricResult {
	scores := make(map[models.Criterion]float64, len(models.Criteria))
	for _, c := range models.Criteria {
		scores[c] = score
	}
	return models.RubricResult{Scores: scores, WordCount: words}
}

func TestAggregateEmpty(t *testing.T) {
	final := Aggregate(nil, 0)
	if final.OverallBand != 0 {
		t.Errorf("overall band = %v, want 0 for no evidence", final.OverallBand)
	}
	if final.SufficientEvidence {
		t.Error("sufficient evidence = true for empty results")
	}
	for _, c := range models.Criteria {
		if final.BandDescriptors[c] != "No evidence recorded." {
			t.Errorf("descriptor for %v = %q", c, final.BandDescriptors[c])
		}
	}
	if len(final.ImprovementPlan) != 0 {
		t.Errorf("improvement plan = %v, want empty", final.ImprovementPlan)
	}
}

func TestAggregateUniformScores(t *testing.T) {
	results := make([]models.RubricResult, 12)
	for i := range results {
		results[i] = uniformResult(6.5, 40)
	}

	final := Aggregate(results, 12*time.Minute)
	if final.OverallBand != 6.5 {
		t.Errorf("overall band = %v, want 6.5", final.OverallBand)
	}
	for _, c := range models.Criteria {
		if final.CriterionBands[c] != 6.5 {
			t.Errorf("criterion %v band = %v, want 6.5", c, final.CriterionBands[c])
		}
	}
	if !final.SufficientEvidence {
		t.Error("sufficient evidence = false for 12 turns and 480 words")
	}
	if final.Stats.TotalTurns != 12 || final.Stats.TotalWords != 480 {
		t.Errorf("stats = %+v, want 12 turns / 480 words", final.Stats)
	}
	if final.Stats.DurationSeconds != 720 {
		t.Errorf("duration seconds = %v, want 720", final.Stats.DurationSeconds)
	}
	if final.PerformanceLevel != "Competent User" {
		t.Errorf("performance level = %q, want Competent User", final.PerformanceLevel)
	}
}

func TestAggregateRoundsCriterionMeans(t *testing.T) {
	// Means: 5.0 and 6.0 alternating gives 5.5 exactly; a 5.0/5.0/6.0 mix
	// gives 5.33 which must round to 5.5.
	results := []models.RubricResult{
		uniformResult(5.0, 30),
		uniformResult(5.0, 30),
		uniformResult(6.0, 30),
	}
	final := Aggregate(results, time.Minute)
	for _, c := range models.Criteria {
		if final.CriterionBands[c] != 5.5 {
			t.Errorf("criterion %v band = %v, want 5.5 (rounded from 5.33)", c, final.CriterionBands[c])
		}
	}
	if final.OverallBand != 5.5 {
		t.Errorf("overall band = %v, want 5.5", final.OverallBand)
	}
}

func TestAggregateOverallIsMeanOfRoundedBands(t *testing.T) {
	// Per-criterion means land on different bands; the overall must be the
	// rounded mean of the rounded bands, always a 0.5 multiple.
	results := []models.RubricResult{
		{Scores: map[models.Criterion]float64{
			models.CriterionFluency:       7.0,
			models.CriterionLexical:       6.0,
			models.CriterionGrammar:       5.5,
			models.CriterionPronunciation: 6.5,
		}, WordCount: 50},
	}
	final := Aggregate(results, time.Minute)
	want := math.Round((7.0+6.0+5.5+6.5)/4*2) / 2
	if final.OverallBand != want {
		t.Errorf("overall band = %v, want %v", final.OverallBand, want)
	}
	if rem := math.Mod(final.OverallBand*2, 1); rem != 0 {
		t.Errorf("overall band = %v, not a 0.5 multiple", final.OverallBand)
	}
}

func TestAggregatePerformanceLevels(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{8.5, "Very Good User"},
		{7.0, "Good User"},
		{6.0, "Competent User"},
		{5.0, "Modest User"},
		{4.0, "Limited User"},
		{3.0, "Extremely Limited User"},
	}
	for _, tt := range tests {
		final := Aggregate([]models.RubricResult{uniformResult(tt.score, 20)}, time.Minute)
		if final.PerformanceLevel != tt.want {
			t.Errorf("level for band %v = %q, want %q", tt.score, final.PerformanceLevel, tt.want)
		}
	}
}

func TestAggregateInsufficientEvidence(t *testing.T) {
	// Plenty of words but too few turns.
	final := Aggregate([]models.RubricResult{uniformResult(6.0, 500)}, time.Minute)
	if final.SufficientEvidence {
		t.Error("sufficient evidence = true for a single turn")
	}

	// Plenty of turns but too few words.
	results := make([]models.RubricResult, 15)
	for i := range results {
		results[i] = uniformResult(6.0, 5)
	}
	final = Aggregate(results, time.Minute)
	if final.SufficientEvidence {
		t.Error("sufficient evidence = true for 75 total words")
	}
}

func TestAggregateImprovementPlanTargetsWeakestCriterion(t *testing.T) {
	results := []models.RubricResult{
		{Scores: map[models.Criterion]float64{
			models.CriterionFluency:       7.0,
			models.CriterionLexical:       4.0,
			models.CriterionGrammar:       7.0,
			models.CriterionPronunciation: 6.5,
		}, WordCount: 50},
	}
	final := Aggregate(results, time.Minute)
	if len(final.ImprovementPlan) == 0 {
		t.Fatal("improvement plan is empty")
	}
	if len(final.ImprovementPlan) > 5 {
		t.Errorf("improvement plan has %d entries, want a short focused list", len(final.ImprovementPlan))
	}
}

func TestBandDescriptorSelection(t *testing.T) {
	if got := bandDescriptor(models.CriterionFluency, 8.5); got != bandDescriptors[models.CriterionFluency][0].text {
		t.Errorf("descriptor for fluency 8.5 = %q, want top row", got)
	}
	if got := bandDescriptor(models.CriterionFluency, 2.0); got != bandDescriptors[models.CriterionFluency][5].text {
		t.Errorf("descriptor for fluency 2.0 = %q, want bottom row", got)
	}
}
