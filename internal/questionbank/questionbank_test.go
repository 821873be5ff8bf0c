package questionbank

import (
	"math/rand/v2"
	"reflect"
	"sync"
	"testing"

	"github.com/WWPCA/ieltsprep/internal/models"
)

func fixedBank() *Bank {
	return NewWithSource(rand.New(rand.NewPCG(1, 2)))
}

func TestPart1QuestionsNoDuplicates(t *testing.T) {
	bank := New()
	for i := 0; i < 20; i++ {
		questions := bank.Part1Questions(3)
		if len(questions) != 6 {
			t.Fatalf("Part1Questions(3) returned %d questions, want 6", len(questions))
		}
		seen := make(map[string]bool, len(questions))
		for _, q := range questions {
			if seen[q] {
				t.Fatalf("Part1Questions(3) returned duplicate question %q", q)
			}
			seen[q] = true
		}
	}
}

func TestBankConcurrentSampling(t *testing.T) {
	bank := fixedBank()

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if got := bank.Part1Questions(3); len(got) != 6 {
					t.Errorf("Part1Questions(3) returned %d questions, want 6", len(got))
					return
				}
				bank.Part2CueCard(models.AssessmentAcademicSpeaking)
				if got := bank.Part3Questions("", 4); len(got) != 4 {
					t.Errorf("Part3Questions(\"\", 4) returned %d questions, want 4", len(got))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestPart1QuestionsDeterministicForFixedSeed(t *testing.T) {
	first := fixedBank().Part1Questions(3)
	second := fixedBank().Part1Questions(3)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("fixed-seed selection differs:\n%v\n%v", first, second)
	}
}

func TestPart1QuestionsClampsTopicCount(t *testing.T) {
	bank := fixedBank()
	if got := bank.Part1Questions(0); len(got) != defaultPart1Topics*questionsPerTopic {
		t.Errorf("Part1Questions(0) returned %d questions, want default %d", len(got), defaultPart1Topics*questionsPerTopic)
	}
	if got := bank.Part1Questions(1000); len(got) != len(part1Topics)*questionsPerTopic {
		t.Errorf("Part1Questions(1000) returned %d questions, want max %d", len(got), len(part1Topics)*questionsPerTopic)
	}
}

func TestPart2CueCardPartition(t *testing.T) {
	bank := New()
	for i := 0; i < 20; i++ {
		card := bank.Part2CueCard(models.AssessmentAcademicSpeaking)
		if !containsCard(academicCueCards, card.Topic) {
			t.Fatalf("academic cue card %q not in academic set", card.Topic)
		}
		if len(card.BulletPoints) == 0 || len(card.RoundingOff) == 0 {
			t.Fatalf("cue card %q missing bullet points or rounding-off questions", card.Topic)
		}

		card = bank.Part2CueCard(models.AssessmentGeneralSpeaking)
		if !containsCard(generalCueCards, card.Topic) {
			t.Fatalf("general cue card %q not in general set", card.Topic)
		}
	}
}

func TestPart3QuestionsKnownTopic(t *testing.T) {
	bank := fixedBank()
	topic := part3Topics[0].name
	questions := bank.Part3Questions(topic, 5)
	if len(questions) != 5 {
		t.Fatalf("Part3Questions(%q, 5) returned %d questions", topic, len(questions))
	}
	seen := make(map[string]bool)
	for _, q := range questions {
		if seen[q] {
			t.Fatalf("duplicate Part 3 question %q", q)
		}
		seen[q] = true
		if !contains(part3Topics[0].questions, q) {
			t.Fatalf("question %q not from topic %q", q, topic)
		}
	}
}

func TestPart3QuestionsUnknownTopicFallsBack(t *testing.T) {
	bank := fixedBank()
	questions := bank.Part3Questions("no such topic", 4)
	if len(questions) != 4 {
		t.Errorf("Part3Questions(unknown, 4) returned %d questions, want 4", len(questions))
	}
}

func TestPart3QuestionsClampsCount(t *testing.T) {
	bank := fixedBank()
	topic := part3Topics[0].name
	if got := bank.Part3Questions(topic, 1000); len(got) != len(part3Topics[0].questions) {
		t.Errorf("Part3Questions(%q, 1000) returned %d questions, want all %d", topic, len(got), len(part3Topics[0].questions))
	}
}

func TestPart3TopicForMapsEveryCueCard(t *testing.T) {
	for _, card := range append(append([]CueCard{}, academicCueCards...), generalCueCards...) {
		topic := Part3TopicFor(card.Topic)
		if topic == "" {
			t.Errorf("cue card %q has no Part 3 theme mapping", card.Topic)
			continue
		}
		if _, ok := part3Set(topic); !ok {
			t.Errorf("cue card %q maps to unknown Part 3 topic %q", card.Topic, topic)
		}
	}
}

func TestPart3TopicForUnknown(t *testing.T) {
	if got := Part3TopicFor("never heard of it"); got != "" {
		t.Errorf("Part3TopicFor(unknown) = %q, want empty", got)
	}
}

func containsCard(cards []CueCard, topic string) bool {
	for _, c := range cards {
		if c.Topic == topic {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
