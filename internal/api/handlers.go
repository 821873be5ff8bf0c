package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/WWPCA/ieltsprep/internal/models"
)

// createSessionRequest is the body of POST /sessions.
type createSessionRequest struct {
	AssessmentType models.AssessmentType `json:"assessment_type"`
	Part           int                   `json:"part"`
}

// turnRequest is the body of POST /sessions/{id}/turns. For audio turns
// Utterance carries the base64-encoded audio and InputType is "audio".
type turnRequest struct {
	Utterance string           `json:"utterance"`
	InputType models.InputType `json:"input_type"`
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.createSessionHandler: processing request", "method", r.Method, "path", r.URL.Path)

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.createSessionHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.Part == 0 {
		req.Part = models.MinPart
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.reqTimeout)
	defer cancel()

	res, err := s.orch.Start(ctx, req.AssessmentType, req.Part)
	if err != nil {
		s.writeOrchestratorError(w, "createSessionHandler", err)
		return
	}

	slog.Info("Server.createSessionHandler: session created", "sessionID", res.SessionID, "part", res.Part)
	writeJSONResponse(w, http.StatusCreated, models.Success(res))
}

func (s *Server) turnHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	sessionID := r.PathValue("id")
	slog.Debug("Server.turnHandler: processing request", "sessionID", sessionID)

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.turnHandler: failed to decode JSON", "error", err, "sessionID", sessionID)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.InputType == "" {
		req.InputType = models.InputTypeText
	}
	if req.InputType != models.InputTypeText && req.InputType != models.InputTypeAudio {
		slog.Warn("Server.turnHandler: unknown input type", "inputType", req.InputType, "sessionID", sessionID)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Unknown input type"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.reqTimeout)
	defer cancel()

	res, err := s.orch.Continue(ctx, sessionID, req.Utterance, req.InputType)
	if err != nil {
		s.writeOrchestratorError(w, "turnHandler", err)
		return
	}

	slog.Debug("Server.turnHandler: turn processed", "sessionID", sessionID, "partComplete", res.PartComplete)
	writeJSONResponse(w, http.StatusOK, models.Success(res))
}

func (s *Server) transitionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	slog.Debug("Server.transitionHandler: processing request", "sessionID", sessionID)

	ctx, cancel := context.WithTimeout(r.Context(), s.reqTimeout)
	defer cancel()

	res, err := s.orch.Transition(ctx, sessionID)
	if err != nil {
		s.writeOrchestratorError(w, "transitionHandler", err)
		return
	}

	slog.Info("Server.transitionHandler: transition processed", "sessionID", sessionID, "finalized", res.Final != nil)
	writeJSONResponse(w, http.StatusOK, models.Success(res))
}

func (s *Server) finalizeHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	slog.Debug("Server.finalizeHandler: processing request", "sessionID", sessionID)

	ctx, cancel := context.WithTimeout(r.Context(), s.reqTimeout)
	defer cancel()

	final, err := s.orch.Finalize(ctx, sessionID)
	if err != nil {
		s.writeOrchestratorError(w, "finalizeHandler", err)
		return
	}

	slog.Info("Server.finalizeHandler: session finalized", "sessionID", sessionID, "overallBand", final.OverallBand)
	writeJSONResponse(w, http.StatusOK, models.Success(final))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]string{"status": "healthy"}))
}

// writeOrchestratorError maps orchestrator errors to HTTP statuses.
// Retryable failures use the retry envelope so clients resubmit the same
// input; everything else is terminal for that request.
func (s *Server) writeOrchestratorError(w http.ResponseWriter, handler string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidAssessmentType),
		errors.Is(err, models.ErrInvalidPart),
		errors.Is(err, models.ErrUtteranceTooLong):
		slog.Warn("Server."+handler+": rejected request", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
	case errors.Is(err, models.ErrSessionNotFound):
		slog.Warn("Server."+handler+": session not found", "error", err)
		writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
	case errors.Is(err, models.ErrInvalidTransition):
		slog.Warn("Server."+handler+": invalid transition", "error", err)
		writeJSONResponse(w, http.StatusConflict, models.Error(err.Error()))
	case errors.Is(err, models.ErrNoProviderAvailable):
		slog.Error("Server."+handler+": no provider available", "error", err)
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("No AI provider available"))
	case models.IsRetryable(err):
		slog.Warn("Server."+handler+": transient failure", "error", err)
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Retry("Temporarily unavailable, please retry"))
	default:
		slog.Error("Server."+handler+": internal error", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Internal server error"))
	}
}
