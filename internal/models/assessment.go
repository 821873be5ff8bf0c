// Package models defines the core data structures for the IELTS speaking
// assessment service.
package models

// Criterion identifies one of the four IELTS speaking scoring dimensions.
type Criterion string

const (
	// CriterionFluency is Fluency & Coherence.
	CriterionFluency Criterion = "fluency_coherence"
	// CriterionLexical is Lexical Resource.
	CriterionLexical Criterion = "lexical_resource"
	// CriterionGrammar is Grammatical Range & Accuracy.
	CriterionGrammar Criterion = "grammatical_range_accuracy"
	// CriterionPronunciation is Pronunciation.
	CriterionPronunciation Criterion = "pronunciation"
)

// Criteria lists the four scoring dimensions in report order.
var Criteria = []Criterion{
	CriterionFluency,
	CriterionLexical,
	CriterionGrammar,
	CriterionPronunciation,
}

// FeedbackTagInsufficient marks a turn where the candidate said nothing
// scoreable, so the floor scores reflect absence rather than weak language.
const FeedbackTagInsufficient = "insufficient_response"

// RubricResult holds the four criterion scores and qualitative feedback for
// one candidate turn. Immutable once produced.
type RubricResult struct {
	Scores      map[Criterion]float64 `json:"scores"`
	Strengths   []string              `json:"strengths,omitempty"`
	Weaknesses  []string              `json:"weaknesses,omitempty"`
	Suggestions []string              `json:"suggestions,omitempty"`
	FeedbackTag string                `json:"feedback_tag,omitempty"`
	WordCount   int                   `json:"word_count"`
}

// PerformanceStats summarizes the volume of evidence behind an assessment.
type PerformanceStats struct {
	TotalTurns      int `json:"total_turns"`
	TotalWords      int `json:"total_words"`
	DurationSeconds int `json:"duration_seconds"`
}

// FinalAssessment is the aggregated band-score report produced by Finalize.
type FinalAssessment struct {
	OverallBand        float64               `json:"overall_band"`
	CriterionBands     map[Criterion]float64 `json:"criterion_bands"`
	BandDescriptors    map[Criterion]string  `json:"band_descriptors"`
	PerformanceLevel   string                `json:"performance_level"`
	Stats              PerformanceStats      `json:"stats"`
	SufficientEvidence bool                  `json:"sufficient_evidence"`
	ImprovementPlan    []string              `json:"improvement_plan"`
}
