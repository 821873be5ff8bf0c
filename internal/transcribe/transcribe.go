// Package transcribe provides the speech-to-text collaborator consumed when
// a candidate turn arrives as audio.
package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Transcriber converts an audio reference into candidate text. The audio
// reference is base64-encoded audio data supplied by the caller.
type Transcriber interface {
	Transcribe(ctx context.Context, audioRef string) (string, error)
}

// transcriptionService defines the minimal interface for audio transcription.
type transcriptionService interface {
	New(ctx context.Context, body openai.AudioTranscriptionNewParams, opts ...option.RequestOption) (*openai.Transcription, error)
}

// OpenAITranscriber implements Transcriber using the OpenAI Whisper API.
type OpenAITranscriber struct {
	svc transcriptionService
}

// NewOpenAITranscriber creates a transcriber backed by the OpenAI API.
func NewOpenAITranscriber(apiKey string) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key not set")
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAITranscriber{svc: &cli.Audio.Transcriptions}, nil
}

// Transcribe decodes the audio reference and returns the recognized text.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioRef string) (string, error) {
	audio, err := base64.StdEncoding.DecodeString(audioRef)
	if err != nil {
		return "", fmt.Errorf("invalid audio reference: %w", err)
	}

	resp, err := t.svc.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  openai.File(bytes.NewReader(audio), "utterance.wav", "audio/wav"),
	})
	if err != nil {
		slog.Warn("OpenAITranscriber.Transcribe: transcription failed", "error", err, "audioBytes", len(audio))
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	slog.Debug("OpenAITranscriber.Transcribe: succeeded", "audioBytes", len(audio), "textLength", len(resp.Text))
	return resp.Text, nil
}

// MockTranscriber is a canned Transcriber for tests.
type MockTranscriber struct {
	Text string
	Err  error
	// Refs records the audio references passed in.
	Refs []string
}

// Transcribe returns the canned text or error.
func (m *MockTranscriber) Transcribe(ctx context.Context, audioRef string) (string, error) {
	m.Refs = append(m.Refs, audioRef)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}
