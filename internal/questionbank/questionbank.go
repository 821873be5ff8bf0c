// Package questionbank supplies authentic IELTS speaking prompts organized by
// test part and topic.
//
// Selection is randomized but never repeats a question within one result. The
// random source is injectable so tests can assert exact output for a fixed seed.
package questionbank

import (
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/WWPCA/ieltsprep/internal/models"
)

// CueCard is a Part 2 long-turn prompt with its bullet points and the
// rounding-off questions the examiner asks once the long turn ends.
type CueCard struct {
	Topic        string   `json:"topic"`
	BulletPoints []string `json:"bullet_points"`
	RoundingOff  []string `json:"rounding_off"`
}

// Bank selects questions from the fixed prompt sets. One Bank is shared by
// all sessions; the mutex serializes access to the random source, which is
// not safe for concurrent use.
type Bank struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Bank with a time-seeded random source.
func New() *Bank {
	return &Bank{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewWithSource creates a Bank using the provided random source.
// Tests pass a fixed-seed source for deterministic selection.
func NewWithSource(rng *rand.Rand) *Bank {
	return &Bank{rng: rng}
}

// Part1Questions samples questions across topicCount distinct Part 1 topic
// categories, two questions per topic, without replacement. The result never
// contains duplicates.
func (b *Bank) Part1Questions(topicCount int) []string {
	if topicCount <= 0 {
		topicCount = defaultPart1Topics
	}
	if topicCount > len(part1Topics) {
		topicCount = len(part1Topics)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	questions := make([]string, 0, topicCount*questionsPerTopic)
	for _, ti := range b.rng.Perm(len(part1Topics))[:topicCount] {
		topic := part1Topics[ti]
		picks := questionsPerTopic
		if picks > len(topic.questions) {
			picks = len(topic.questions)
		}
		for _, qi := range b.rng.Perm(len(topic.questions))[:picks] {
			questions = append(questions, topic.questions[qi])
		}
	}

	slog.Debug("questionbank.Part1Questions: sampled questions", "topicCount", topicCount, "questions", len(questions))
	return questions
}

// Part2CueCard returns a single random cue card from the set partitioned by
// assessment type.
func (b *Bank) Part2CueCard(at models.AssessmentType) CueCard {
	cards := generalCueCards
	if at == models.AssessmentAcademicSpeaking {
		cards = academicCueCards
	}
	b.mu.Lock()
	card := cards[b.rng.IntN(len(cards))]
	b.mu.Unlock()
	slog.Debug("questionbank.Part2CueCard: selected card", "assessmentType", at, "topic", card.Topic)
	return card
}

// Part3Questions samples count questions from the Part 3 set for the given
// topic. If topic is empty or unknown, a topic is chosen at random first.
func (b *Bank) Part3Questions(topic string, count int) []string {
	if count <= 0 {
		count = defaultPart3Questions
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := part3Set(topic)
	if !ok {
		set = part3Topics[b.rng.IntN(len(part3Topics))]
		slog.Debug("questionbank.Part3Questions: no topic match, picked at random", "requested", topic, "picked", set.name)
	}

	if count > len(set.questions) {
		count = len(set.questions)
	}
	questions := make([]string, 0, count)
	for _, qi := range b.rng.Perm(len(set.questions))[:count] {
		questions = append(questions, set.questions[qi])
	}

	slog.Debug("questionbank.Part3Questions: sampled questions", "topic", set.name, "count", len(questions))
	return questions
}

// Part3TopicFor maps a Part 2 cue-card topic to the Part 3 discussion topic
// that themes the final part, falling back to empty when no mapping exists.
func Part3TopicFor(cueCardTopic string) string {
	if t, ok := cueCardThemes[cueCardTopic]; ok {
		return t
	}
	return ""
}

func part3Set(topic string) (topicSet, bool) {
	for _, s := range part3Topics {
		if s.name == topic {
			return s, true
		}
	}
	return topicSet{}, false
}
