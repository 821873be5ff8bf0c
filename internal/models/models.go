// Package models defines the core data structures for the IELTS speaking
// assessment service.
//
// It includes types for conversation sessions, per-turn rubric results, and
// final assessments, which are shared across modules.
package models

import (
	"errors"
	"strings"
	"time"
)

// AssessmentType identifies which speaking assessment variant a session runs.
type AssessmentType string

const (
	// AssessmentAcademicSpeaking is the academic speaking assessment.
	AssessmentAcademicSpeaking AssessmentType = "academic_speaking"
	// AssessmentGeneralSpeaking is the general training speaking assessment.
	AssessmentGeneralSpeaking AssessmentType = "general_speaking"
)

// IsValidAssessmentType checks if the given assessment type is supported.
func IsValidAssessmentType(at AssessmentType) bool {
	switch at {
	case AssessmentAcademicSpeaking, AssessmentGeneralSpeaking:
		return true
	default:
		return false
	}
}

// InputType identifies how a candidate utterance arrives.
type InputType string

const (
	// InputTypeText indicates the utterance is plain text.
	InputTypeText InputType = "text"
	// InputTypeAudio indicates the utterance is an audio reference that
	// must be transcribed before scoring.
	InputTypeAudio InputType = "audio"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	// RoleExaminer marks turns spoken by the AI examiner.
	RoleExaminer Role = "examiner"
	// RoleCandidate marks turns spoken by the candidate.
	RoleCandidate Role = "candidate"
)

// Speaking test part bounds.
const (
	// MinPart is the first part of the speaking test.
	MinPart = 1
	// MaxPart is the last part of the speaking test.
	MaxPart = 3
)

// Validation constants for input validation
const (
	// MaxUtteranceLength defines the maximum allowed length for a candidate utterance
	MaxUtteranceLength = 8192
)

// Error variables for better error handling and testability
var (
	// ErrNoProviderAvailable indicates no generation provider could be reached
	// at session start. Fatal to Start; no session is created.
	ErrNoProviderAvailable = errors.New("no generation provider available")
	// ErrExaminerUnavailable indicates all providers failed mid-session after
	// the fallback attempt. Retryable; the failed turn is not recorded.
	ErrExaminerUnavailable = errors.New("examiner unavailable, please retry this turn")
	// ErrTranscriptionFailed indicates an audio turn could not be
	// transcribed. Retryable; the failed turn is not recorded.
	ErrTranscriptionFailed = errors.New("could not transcribe audio, please retry this turn")
	// ErrSessionNotFound indicates an unknown or already discarded session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidTransition indicates Transition or Finalize was called before
	// the current part's completion policy fired.
	ErrInvalidTransition = errors.New("current part is not complete")
	// ErrInvalidAssessmentType indicates an unsupported assessment type.
	ErrInvalidAssessmentType = errors.New("invalid assessment type")
	// ErrInvalidPart indicates a part outside the 1..3 range.
	ErrInvalidPart = errors.New("part must be between 1 and 3")
	// ErrUtteranceTooLong indicates a candidate utterance exceeding the limit.
	ErrUtteranceTooLong = errors.New("utterance exceeds maximum length")
)

// IsRetryable reports whether an operation error is safe to retry with the
// same input. Provider exhaustion is retryable; a stale session id is not.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrExaminerUnavailable) || errors.Is(err, ErrTranscriptionFailed)
}

// Turn represents a single entry in a session's conversation history.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds all state for one active speaking-test conversation.
//
// Sessions are created by Start, mutated only by Continue and Transition,
// and discarded by Finalize or idle reclamation. Callers must not mutate a
// Session concurrently; the orchestrator serializes access per session id.
type Session struct {
	ID             string         `json:"id"`
	AssessmentType AssessmentType `json:"assessment_type"`
	Part           int            `json:"part"`
	Questions      []string       `json:"questions"`
	QuestionIndex  int            `json:"question_index"`
	CueCardTopic   string         `json:"cue_card_topic,omitempty"`
	History        []Turn         `json:"history"`
	StartTime      time.Time      `json:"start_time"`
	LastActivity   time.Time      `json:"last_activity"`
	Provider       string         `json:"provider"`
	SpeechEnabled  bool           `json:"speech_enabled"`
	PartComplete   bool           `json:"part_complete"`

	// AvailableProviders is the detection result cached at session start,
	// used for in-call fallback. Never re-probed mid-session.
	AvailableProviders []string `json:"available_providers"`

	// PerformanceScores carries one entry per candidate turn, including
	// turns scored in earlier parts of the same assessment.
	PerformanceScores []RubricResult `json:"performance_scores"`

	// CarriedWords is the cumulative candidate word count from earlier
	// parts, used for session-volume scoring adjustments.
	CarriedWords int `json:"carried_words"`

	// CarriedSeconds is speaking time accumulated in earlier parts, used
	// for the final report's duration estimate.
	CarriedSeconds int `json:"carried_seconds"`
}

// CandidateWords returns the total candidate word count across the whole
// assessment, including parts completed before the current session identity.
func (s *Session) CandidateWords() int {
	total := s.CarriedWords
	for _, t := range s.History {
		if t.Role == RoleCandidate {
			total += len(strings.Fields(t.Text))
		}
	}
	return total
}

// CandidateTurns returns the number of candidate turns recorded in the
// current session identity.
func (s *Session) CandidateTurns() int {
	n := 0
	for _, t := range s.History {
		if t.Role == RoleCandidate {
			n++
		}
	}
	return n
}
