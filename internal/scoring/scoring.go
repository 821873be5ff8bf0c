// Package scoring converts a single candidate utterance into IELTS rubric
// scores for the four speaking criteria.
//
// The scorer is a deterministic heuristic, not a learned model: identical
// input always produces identical output. Without audio-feature access the
// pronunciation criterion is scored conservatively and never reaches the
// extremes of the band scale.
package scoring

import (
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/WWPCA/ieltsprep/internal/models"
)

// Qualitative note flags recognized in Input.Notes. These are the hook for
// an upstream audio-analysis collaborator; when supplied they adjust the
// fluency and pronunciation scores downward. Text-only turns carry none.
const (
	NoteHesitation = "hesitation"
	NoteSlowSpeech = "slow_speech"
	NoteUnclear    = "unclear"
	NoteStrain     = "strain"
)

// Score bounds.
const (
	floorScore = 1.0
	ceilScore  = 9.0
	// Pronunciation is never scored at the extremes without real audio
	// analysis.
	pronFloor = 3.0
	pronCeil  = 8.0
	// insufficientScore is returned for all criteria when the candidate
	// said nothing scoreable.
	insufficientScore = 3.0
)

// Input carries one candidate utterance plus the minimal context the
// heuristics need.
type Input struct {
	Text           string
	Duration       time.Duration // how long the candidate spoke; defaulted when non-positive
	Part           int
	AssessmentType models.AssessmentType
	SessionWords   int      // cumulative candidate words earlier in the session
	Notes          []string // delivery flags from upstream audio analysis, nil for text turns
}

// Score evaluates one utterance against the four-criterion rubric. It never
// fails: malformed input is clamped or defaulted rather than rejected.
func Score(in Input) models.RubricResult {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		slog.Debug("scoring.Score: empty utterance, returning floor scores", "part", in.Part)
		return insufficientResult()
	}

	words := strings.Fields(text)
	wordCount := len(words)
	duration := in.Duration
	if duration <= 0 {
		// Estimate at an average speaking pace when no timing was captured.
		duration = time.Duration(float64(wordCount)/defaultWordsPerMinute*60) * time.Second
		if duration <= 0 {
			duration = time.Second
		}
	}

	notes := noteSet(in.Notes)

	scores := map[models.Criterion]float64{
		models.CriterionFluency:       scoreFluency(wordCount, duration, in.Part, notes),
		models.CriterionLexical:       scoreLexical(words),
		models.CriterionGrammar:       scoreGrammar(text, words),
		models.CriterionPronunciation: scorePronunciation(wordCount, in.SessionWords, notes),
	}

	result := models.RubricResult{
		Scores:      scores,
		WordCount:   wordCount,
		Strengths:   strengths(scores, wordCount),
		Weaknesses:  weaknesses(scores, wordCount),
		Suggestions: suggestionsFor(scores),
	}

	slog.Debug("scoring.Score: scored utterance",
		"part", in.Part,
		"words", wordCount,
		"fluency", scores[models.CriterionFluency],
		"lexical", scores[models.CriterionLexical],
		"grammar", scores[models.CriterionGrammar],
		"pronunciation", scores[models.CriterionPronunciation])
	return result
}

// defaultWordsPerMinute is the assumed pace when no duration is supplied.
const defaultWordsPerMinute = 130.0

func insufficientResult() models.RubricResult {
	scores := make(map[models.Criterion]float64, len(models.Criteria))
	for _, c := range models.Criteria {
		scores[c] = insufficientScore
	}
	return models.RubricResult{
		Scores:      scores,
		FeedbackTag: models.FeedbackTagInsufficient,
		Weaknesses:  []string{"No scoreable response was given for this question."},
		Suggestions: []string{
			"Try to say something for every question, even if you are unsure.",
			"A short answer you can expand on scores better than silence.",
		},
	}
}

func scoreFluency(wordCount int, duration time.Duration, part int, notes map[string]bool) float64 {
	score := 5.0

	wpm := float64(wordCount) / duration.Seconds() * 60
	switch {
	case wpm >= 120 && wpm <= 180:
		score += 1.0
	case wpm < 100 || wpm > 200:
		score -= 1.0
	}

	score += lengthAdjustment(wordCount, part)

	if notes[NoteHesitation] {
		score -= 0.5
	}
	if notes[NoteSlowSpeech] {
		score -= 0.5
	}

	return roundHalf(clamp(score, floorScore, ceilScore))
}

// lengthAdjustment applies the per-part expected response length band.
func lengthAdjustment(wordCount, part int) float64 {
	if wordCount < 5 {
		return -1.5
	}
	switch part {
	case 2:
		// The long turn expects a sustained monologue.
		if wordCount >= 150 && wordCount <= 300 {
			return 1.0
		}
		if wordCount < 40 {
			return -1.0
		}
	case 3:
		if wordCount >= 30 && wordCount <= 120 {
			return 0.5
		}
	default:
		if wordCount >= 15 && wordCount <= 80 {
			return 0.5
		}
	}
	return 0
}

func scoreLexical(words []string) float64 {
	score := 5.0

	unique := make(map[string]bool, len(words))
	for _, w := range words {
		if n := normalizeWord(w); n != "" {
			unique[n] = true
		}
	}
	ratio := float64(len(unique)) / float64(len(words))
	switch {
	case ratio > 0.8:
		score += 1.5
	case ratio > 0.6:
		score += 0.5
	case ratio < 0.4:
		score -= 1.0
	}

	if len(words) > 100 {
		score += 0.5
	}
	if len(words) < 10 {
		score -= 0.5
	}

	return roundHalf(clamp(score, floorScore, ceilScore))
}

func scoreGrammar(text string, words []string) float64 {
	score := 5.0

	if sentenceCount(text) > 1 {
		score += 0.5
	}

	// Longer responses give more room to display grammatical range.
	switch {
	case len(words) >= 120:
		score += 1.0
	case len(words) >= 50:
		score += 0.5
	}

	markers := complexityMarkerCount(words)
	switch {
	case markers >= 3:
		score += 1.0
	case markers >= 1:
		score += 0.5
	}

	return roundHalf(clamp(score, floorScore, ceilScore))
}

func scorePronunciation(wordCount, sessionWords int, notes map[string]bool) float64 {
	score := 6.0

	if notes[NoteUnclear] {
		score -= 1.0
	}
	if notes[NoteStrain] {
		score -= 0.5
	}

	if sessionWords+wordCount > 500 {
		score += 0.5
	}
	if wordCount < 100 {
		score -= 0.5
	}

	return roundHalf(clamp(score, pronFloor, pronCeil))
}

// complexityMarkers are subordinators and connectives used as a proxy for
// grammatical range.
var complexityMarkers = map[string]bool{
	"because": true, "although": true, "which": true, "while": true,
	"whereas": true, "unless": true, "since": true, "whether": true,
	"if": true, "when": true, "who": true, "where": true,
	"despite": true, "however": true, "therefore": true, "moreover": true,
	"furthermore": true, "consequently": true,
}

func complexityMarkerCount(words []string) int {
	count := 0
	for _, w := range words {
		if complexityMarkers[normalizeWord(w)] {
			count++
		}
	}
	return count
}

func sentenceCount(text string) int {
	count := 0
	inSentence := false
	for _, r := range text {
		switch {
		case r == '.' || r == '!' || r == '?':
			if inSentence {
				count++
				inSentence = false
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			inSentence = true
		}
	}
	if inSentence {
		count++
	}
	return count
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}

func noteSet(notes []string) map[string]bool {
	set := make(map[string]bool, len(notes))
	for _, n := range notes {
		set[strings.ToLower(strings.TrimSpace(n))] = true
	}
	return set
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundHalf rounds to the nearest 0.5, the granularity of IELTS bands.
func roundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}
