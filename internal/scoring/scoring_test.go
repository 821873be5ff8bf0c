package scoring

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/WWPCA/ieltsprep/internal/models"
)

const fluentAnswer = "Well, I would say that my hometown is quite special because although " +
	"it is a small place, the community is very close, which makes everyday life pleasant. " +
	"When I was younger I did not appreciate it, however now I understand that living " +
	"somewhere quiet has real advantages, since you can focus on what matters."

func TestScoreEmptyUtterance(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		result := Score(Input{Text: text, Part: 1})
		if result.FeedbackTag != models.FeedbackTagInsufficient {
			t.Errorf("Score(%q) feedback tag = %v, want %v", text, result.FeedbackTag, models.FeedbackTagInsufficient)
		}
		for _, c := range models.Criteria {
			if result.Scores[c] != 3.0 {
				t.Errorf("Score(%q) %v = %v, want 3.0", text, c, result.Scores[c])
			}
		}
		if result.WordCount != 0 {
			t.Errorf("Score(%q) word count = %v, want 0", text, result.WordCount)
		}
	}
}

func TestScoreDeterminism(t *testing.T) {
	in := Input{Text: fluentAnswer, Duration: 25 * time.Second, Part: 1, SessionWords: 120}
	first := Score(in)
	for i := 0; i < 5; i++ {
		if got := Score(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("Score() not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestScoreBoundsAndGranularity(t *testing.T) {
	inputs := []Input{
		{Text: "yes", Part: 1},
		{Text: fluentAnswer, Duration: 25 * time.Second, Part: 1},
		{Text: strings.Repeat("good ", 400), Duration: time.Minute, Part: 2},
		{Text: fluentAnswer + " " + fluentAnswer, Duration: 2 * time.Minute, Part: 2},
		{Text: fluentAnswer, Part: 3, SessionWords: 600, Notes: []string{NoteHesitation, NoteUnclear, NoteSlowSpeech, NoteStrain}},
	}

	for _, in := range inputs {
		result := Score(in)
		for c, score := range result.Scores {
			if score < 1.0 || score > 9.0 {
				t.Errorf("Score(part %d) %v = %v, out of [1,9]", in.Part, c, score)
			}
			if rem := math.Mod(score*2, 1); rem != 0 {
				t.Errorf("Score(part %d) %v = %v, not a 0.5 multiple", in.Part, c, score)
			}
		}
		pron := result.Scores[models.CriterionPronunciation]
		if pron < 3.0 || pron > 8.0 {
			t.Errorf("pronunciation = %v, out of [3,8]", pron)
		}
	}
}

func TestScoreRichAnswerBeatsMinimalAnswer(t *testing.T) {
	rich := Score(Input{Text: fluentAnswer, Duration: 25 * time.Second, Part: 1})
	minimal := Score(Input{Text: "I like it.", Duration: 2 * time.Second, Part: 1})

	for _, c := range []models.Criterion{models.CriterionFluency, models.CriterionLexical, models.CriterionGrammar} {
		if rich.Scores[c] <= minimal.Scores[c] {
			t.Errorf("%v: rich answer %v <= minimal answer %v", c, rich.Scores[c], minimal.Scores[c])
		}
	}
}

func TestScoreNotesLowerScores(t *testing.T) {
	clean := Score(Input{Text: fluentAnswer, Duration: 25 * time.Second, Part: 1})
	flagged := Score(Input{
		Text:     fluentAnswer,
		Duration: 25 * time.Second,
		Part:     1,
		Notes:    []string{NoteHesitation, NoteUnclear},
	})

	if flagged.Scores[models.CriterionFluency] >= clean.Scores[models.CriterionFluency] {
		t.Errorf("hesitation note did not lower fluency: %v vs %v",
			flagged.Scores[models.CriterionFluency], clean.Scores[models.CriterionFluency])
	}
	if flagged.Scores[models.CriterionPronunciation] >= clean.Scores[models.CriterionPronunciation] {
		t.Errorf("unclear note did not lower pronunciation: %v vs %v",
			flagged.Scores[models.CriterionPronunciation], clean.Scores[models.CriterionPronunciation])
	}
}

func TestScoreDefaultsDuration(t *testing.T) {
	// No duration supplied; the scorer assumes an average pace instead of
	// treating the answer as instantaneous.
	result := Score(Input{Text: fluentAnswer, Part: 1})
	if result.Scores[models.CriterionFluency] < 4.0 {
		t.Errorf("fluency with defaulted duration = %v, suspiciously low", result.Scores[models.CriterionFluency])
	}
}

func TestScoreFeedbackPopulated(t *testing.T) {
	result := Score(Input{Text: fluentAnswer, Duration: 25 * time.Second, Part: 1})
	if len(result.Suggestions) == 0 {
		t.Error("Score() produced no suggestions")
	}
	if result.WordCount == 0 {
		t.Error("Score() word count = 0 for non-empty utterance")
	}
}

func TestSentenceCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"One sentence", 1},
		{"One. Two.", 2},
		{"Really?! Yes.", 2},
		{"Trailing without period", 1},
	}
	for _, tt := range tests {
		if got := sentenceCount(tt.text); got != tt.want {
			t.Errorf("sentenceCount(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestNormalizeWord(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello,", "hello"},
		{"(because)", "because"},
		{"...", ""},
		{"don't", "don't"},
	}
	for _, tt := range tests {
		if got := normalizeWord(tt.in); got != tt.want {
			t.Errorf("normalizeWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
