// Package conversation implements the speaking-test conversation
// orchestrator: it owns one active session's state across the three test
// parts, drives the examiner dialogue through the selected provider, scores
// every candidate turn, and produces the final assessment.
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/WWPCA/ieltsprep/internal/assessment"
	"github.com/WWPCA/ieltsprep/internal/models"
	"github.com/WWPCA/ieltsprep/internal/provider"
	"github.com/WWPCA/ieltsprep/internal/questionbank"
	"github.com/WWPCA/ieltsprep/internal/scoring"
	"github.com/WWPCA/ieltsprep/internal/store"
	"github.com/WWPCA/ieltsprep/internal/transcribe"
	"github.com/WWPCA/ieltsprep/internal/util"
)

// contextTurnLimit bounds the conversational context sent to providers to
// the last four turns (candidate plus examiner entries).
const contextTurnLimit = 4

// Orchestrator coordinates sessions, providers, scoring, and aggregation.
// All four operations serialize per session id; different sessions run
// fully in parallel.
type Orchestrator struct {
	store       store.Store
	detector    *provider.Detector
	bank        *questionbank.Bank
	transcriber transcribe.Transcriber
	callTimeout time.Duration
	locks       lockRegistry
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTranscriber sets the speech-to-text collaborator for audio turns.
func WithTranscriber(t transcribe.Transcriber) Option {
	return func(o *Orchestrator) { o.transcriber = t }
}

// WithCallTimeout bounds each provider generation call. This is distinct
// from the part-time budget.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// NewOrchestrator creates an orchestrator with the given dependencies.
func NewOrchestrator(st store.Store, det *provider.Detector, bank *questionbank.Bank, opts ...Option) *Orchestrator {
	slog.Debug("conversation.NewOrchestrator: creating orchestrator")
	o := &Orchestrator{
		store:       st,
		detector:    det,
		bank:        bank,
		callTimeout: provider.DefaultCallTimeout,
	}
	o.locks.init()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Progress reports where a session stands within its current part.
type Progress struct {
	Part           int `json:"part"`
	QuestionIndex  int `json:"question_index"`
	QuestionTotal  int `json:"question_total"`
	ElapsedSeconds int `json:"elapsed_seconds"`
}

// StartResult is returned by Start and by part-advancing Transitions.
type StartResult struct {
	SessionID      string                `json:"session_id"`
	AssessmentType models.AssessmentType `json:"assessment_type"`
	Part           int                   `json:"part"`
	ExaminerText   string                `json:"examiner_text"`
	ExaminerAudio  []byte                `json:"examiner_audio,omitempty"`
	SpeechEnabled  bool                  `json:"speech_enabled"`
	QuestionTotal  int                   `json:"question_total"`
}

// ContinueResult is returned for every processed candidate turn.
type ContinueResult struct {
	ExaminerText  string              `json:"examiner_text"`
	ExaminerAudio []byte              `json:"examiner_audio,omitempty"`
	TurnScore     models.RubricResult `json:"turn_score"`
	PartComplete  bool                `json:"part_complete"`
	Progress      Progress            `json:"progress"`
}

// TransitionResult is either the start of the next part or, after part 3,
// the final assessment.
type TransitionResult struct {
	Next  *StartResult            `json:"next,omitempty"`
	Final *models.FinalAssessment `json:"final,omitempty"`
}

// carryover moves cumulative assessment evidence across the new session
// identity a Transition creates.
type carryover struct {
	scores   []models.RubricResult
	words    int
	seconds  int
	cueTopic string
}

// Start begins a new session at the given part. It selects a provider,
// fetches the part's questions, and generates the examiner's opening. No
// session is created when provider selection yields none.
func (o *Orchestrator) Start(ctx context.Context, at models.AssessmentType, part int) (*StartResult, error) {
	if !models.IsValidAssessmentType(at) {
		return nil, models.ErrInvalidAssessmentType
	}
	if part < models.MinPart || part > models.MaxPart {
		return nil, models.ErrInvalidPart
	}
	return o.startPart(ctx, at, part, carryover{})
}

func (o *Orchestrator) startPart(ctx context.Context, at models.AssessmentType, part int, carry carryover) (*StartResult, error) {
	slog.Debug("Orchestrator.startPart: starting part", "assessmentType", at, "part", part)

	available := o.detector.DetectAvailable(ctx)
	primary := o.detector.SelectBest(available)
	if primary == "" {
		slog.Error("Orchestrator.startPart: no provider available", "assessmentType", at, "part", part)
		return nil, models.ErrNoProviderAvailable
	}
	speechEnabled := o.detector.SupportsSpeech(primary)

	questions, cueTopic := o.questionsForPart(at, part, carry.cueTopic)
	systemPrompt := buildSystemPrompt(at, part, questions, cueTopic)

	now := time.Now()
	sess := models.Session{
		ID:                 util.GenerateSessionID(),
		AssessmentType:     at,
		Part:               part,
		Questions:          questions,
		CueCardTopic:       cueTopic,
		StartTime:          now,
		LastActivity:       now,
		Provider:           primary,
		SpeechEnabled:      speechEnabled,
		AvailableProviders: available,
		PerformanceScores:  carry.scores,
		CarriedWords:       carry.words,
		CarriedSeconds:     carry.seconds,
	}

	req := provider.Request{
		SystemPrompt: systemPrompt,
		History: []provider.Message{
			{Role: provider.RoleCandidate, Content: openingCue(part)},
		},
		WantAudio: speechEnabled,
	}
	resp, err := o.generateWithFallback(ctx, &sess, req)
	if err != nil {
		slog.Error("Orchestrator.startPart: opening generation failed", "assessmentType", at, "part", part, "error", err)
		return nil, err
	}

	sess.History = append(sess.History, models.Turn{
		ID:        uuid.NewString(),
		Role:      models.RoleExaminer,
		Text:      resp.Text,
		Timestamp: time.Now(),
	})

	if err := o.store.SaveSession(sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	slog.Info("Orchestrator.startPart: session started",
		"sessionID", sess.ID, "assessmentType", at, "part", part,
		"provider", sess.Provider, "speechEnabled", speechEnabled, "questions", len(questions))
	return &StartResult{
		SessionID:      sess.ID,
		AssessmentType: at,
		Part:           part,
		ExaminerText:   resp.Text,
		ExaminerAudio:  resp.Audio,
		SpeechEnabled:  speechEnabled,
		QuestionTotal:  len(questions),
	}, nil
}

// Continue processes one candidate turn: transcribe if needed, score,
// generate the examiner's reply, and evaluate the part-completion policy.
// On provider failure after the fallback attempt, nothing is appended, so
// retrying with the same input is safe.
func (o *Orchestrator) Continue(ctx context.Context, sessionID, utterance string, inputType models.InputType) (*ContinueResult, error) {
	unlock := o.locks.lock(sessionID)
	defer unlock()

	sess, err := o.loadSession(sessionID)
	if err != nil {
		return nil, err
	}

	text := utterance
	if inputType == models.InputTypeAudio {
		if o.transcriber == nil {
			slog.Error("Orchestrator.Continue: audio turn without transcriber", "sessionID", sessionID)
			return nil, models.ErrTranscriptionFailed
		}
		transcribeCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		text, err = o.transcriber.Transcribe(transcribeCtx, utterance)
		cancel()
		if err != nil {
			slog.Warn("Orchestrator.Continue: transcription failed", "sessionID", sessionID, "error", err)
			return nil, models.ErrTranscriptionFailed
		}
	}
	if len(text) > models.MaxUtteranceLength {
		return nil, models.ErrUtteranceTooLong
	}

	// Score before any provider call; scoring is pure and cannot fail.
	turnScore := scoring.Score(scoring.Input{
		Text:           text,
		Duration:       responseDuration(sess),
		Part:           sess.Part,
		AssessmentType: sess.AssessmentType,
		SessionWords:   sess.CandidateWords(),
	})

	req := provider.Request{
		SystemPrompt: continuationPrompt(sess),
		History:      append(recentHistory(sess), provider.Message{Role: provider.RoleCandidate, Content: candidateContent(text)}),
		WantAudio:    sess.SpeechEnabled,
	}
	resp, err := o.generateWithFallback(ctx, sess, req)
	if err != nil {
		// History and performanceScores are unchanged: the caller can
		// retry this turn with the same input.
		slog.Warn("Orchestrator.Continue: all providers failed, turn not recorded", "sessionID", sessionID, "error", err)
		return nil, err
	}

	now := time.Now()
	sess.History = append(sess.History,
		models.Turn{ID: uuid.NewString(), Role: models.RoleCandidate, Text: text, Timestamp: now},
		models.Turn{ID: uuid.NewString(), Role: models.RoleExaminer, Text: resp.Text, Timestamp: now},
	)
	sess.PerformanceScores = append(sess.PerformanceScores, turnScore)
	if sess.QuestionIndex < len(sess.Questions) {
		sess.QuestionIndex++
	}
	sess.LastActivity = now
	if !sess.PartComplete && partComplete(sess) {
		sess.PartComplete = true
		slog.Info("Orchestrator.Continue: part complete", "sessionID", sessionID, "part", sess.Part, "candidateTurns", sess.CandidateTurns())
	}

	if err := o.store.SaveSession(*sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	slog.Debug("Orchestrator.Continue: turn processed",
		"sessionID", sessionID, "part", sess.Part,
		"questionIndex", sess.QuestionIndex, "partComplete", sess.PartComplete)
	return &ContinueResult{
		ExaminerText:  resp.Text,
		ExaminerAudio: resp.Audio,
		TurnScore:     turnScore,
		PartComplete:  sess.PartComplete,
		Progress: Progress{
			Part:           sess.Part,
			QuestionIndex:  sess.QuestionIndex,
			QuestionTotal:  len(sess.Questions),
			ElapsedSeconds: int(time.Since(sess.StartTime).Seconds()),
		},
	}, nil
}

// Transition advances a completed part. For parts 1 and 2 it starts the
// next part under a new session identity; at part 3 it routes to Finalize.
// The previous session is discarded only after the next part starts
// successfully.
func (o *Orchestrator) Transition(ctx context.Context, sessionID string) (*TransitionResult, error) {
	unlock := o.locks.lock(sessionID)
	defer unlock()

	sess, err := o.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.PartComplete {
		slog.Warn("Orchestrator.Transition: part not complete", "sessionID", sessionID, "part", sess.Part)
		return nil, models.ErrInvalidTransition
	}

	if sess.Part == models.MaxPart {
		final, err := o.finalizeLocked(sess)
		if err != nil {
			return nil, err
		}
		return &TransitionResult{Final: final}, nil
	}

	carry := carryover{
		scores:   sess.PerformanceScores,
		words:    sess.CandidateWords(),
		seconds:  sess.CarriedSeconds + int(time.Since(sess.StartTime).Seconds()),
		cueTopic: sess.CueCardTopic,
	}
	next, err := o.startPart(ctx, sess.AssessmentType, sess.Part+1, carry)
	if err != nil {
		// The old session survives so the caller can retry Transition.
		return nil, err
	}

	if err := o.store.DeleteSession(sess.ID); err != nil {
		slog.Warn("Orchestrator.Transition: failed to delete previous session", "sessionID", sess.ID, "error", err)
	}

	slog.Info("Orchestrator.Transition: advanced part",
		"previousSessionID", sess.ID, "nextSessionID", next.SessionID, "part", next.Part)
	return &TransitionResult{Next: next}, nil
}

// Finalize aggregates all per-turn scores into the final assessment and
// discards the session. It is only legal once part 3's completion policy
// has fired; earlier calls return ErrInvalidTransition.
func (o *Orchestrator) Finalize(ctx context.Context, sessionID string) (*models.FinalAssessment, error) {
	unlock := o.locks.lock(sessionID)
	defer unlock()

	sess, err := o.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Part != models.MaxPart || !sess.PartComplete {
		slog.Warn("Orchestrator.Finalize: session not ready to finalize", "sessionID", sessionID, "part", sess.Part, "partComplete", sess.PartComplete)
		return nil, models.ErrInvalidTransition
	}
	return o.finalizeLocked(sess)
}

// finalizeLocked computes the final assessment and discards the session.
// Callers must hold the session lock.
func (o *Orchestrator) finalizeLocked(sess *models.Session) (*models.FinalAssessment, error) {
	duration := time.Duration(sess.CarriedSeconds)*time.Second + time.Since(sess.StartTime)
	final := assessment.Aggregate(sess.PerformanceScores, duration)

	if err := o.store.DeleteSession(sess.ID); err != nil {
		slog.Warn("Orchestrator.finalizeLocked: failed to delete session", "sessionID", sess.ID, "error", err)
	}

	slog.Info("Orchestrator.finalizeLocked: session finalized",
		"sessionID", sess.ID, "overallBand", final.OverallBand, "turns", final.Stats.TotalTurns)
	return &final, nil
}

// generateWithFallback asks the session's primary provider for a response
// and, on failure, makes exactly one attempt against the next available
// provider in priority order. No new detection pass is run.
func (o *Orchestrator) generateWithFallback(ctx context.Context, sess *models.Session, req provider.Request) (*provider.Response, error) {
	chain := o.detector.Chain(sess.Provider, sess.AvailableProviders)
	if len(chain) > 2 {
		chain = chain[:2]
	}
	if len(chain) == 0 {
		return nil, models.ErrNoProviderAvailable
	}

	var lastErr error
	for i, p := range chain {
		callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		resp, err := p.Generate(callCtx, req)
		cancel()
		if err == nil {
			if i > 0 {
				slog.Info("Orchestrator.generateWithFallback: fallback provider served the call",
					"sessionID", sess.ID, "primary", sess.Provider, "fallback", p.ID())
			}
			return resp, nil
		}
		lastErr = err
		slog.Warn("Orchestrator.generateWithFallback: provider call failed",
			"sessionID", sess.ID, "provider", p.ID(), "attempt", i+1, "timeout", provider.IsTimeout(err), "error", err)
	}

	return nil, fmt.Errorf("%w: %v", models.ErrExaminerUnavailable, lastErr)
}

func (o *Orchestrator) loadSession(sessionID string) (*models.Session, error) {
	sess, err := o.store.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return nil, models.ErrSessionNotFound
	}
	return sess, nil
}

func (o *Orchestrator) questionsForPart(at models.AssessmentType, part int, prevCueTopic string) ([]string, string) {
	switch part {
	case 2:
		card := o.bank.Part2CueCard(at)
		questions := append([]string{renderCueCard(card)}, card.RoundingOff...)
		return questions, card.Topic
	case 3:
		topic := questionbank.Part3TopicFor(prevCueTopic)
		return o.bank.Part3Questions(topic, 5), ""
	default:
		return o.bank.Part1Questions(3), ""
	}
}

// recentHistory returns the last few turns as provider messages, oldest
// first.
func recentHistory(sess *models.Session) []provider.Message {
	entries := contextTurnLimit * 2
	start := len(sess.History) - entries
	if start < 0 {
		start = 0
	}

	msgs := make([]provider.Message, 0, entries)
	for _, t := range sess.History[start:] {
		role := provider.RoleCandidate
		if t.Role == models.RoleExaminer {
			role = provider.RoleExaminer
		}
		msgs = append(msgs, provider.Message{Role: role, Content: t.Text})
	}
	return msgs
}

// candidateContent maps candidate silence to an explicit marker so every
// vendor accepts the message.
func candidateContent(text string) string {
	if strings.TrimSpace(text) == "" {
		return "(The candidate did not respond.)"
	}
	return text
}

// responseDuration estimates how long the candidate spoke: the wall-clock
// gap since the examiner's last turn, clamped to a sane range.
func responseDuration(sess *models.Session) time.Duration {
	if len(sess.History) == 0 {
		return 0
	}
	d := time.Since(sess.History[len(sess.History)-1].Timestamp)
	if d < time.Second {
		return time.Second
	}
	if d > 10*time.Minute {
		return 10 * time.Minute
	}
	return d
}
