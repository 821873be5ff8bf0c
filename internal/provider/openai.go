package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Provider identifiers for the OpenAI-backed adapters. The speech-capable
// model is the highest-priority backend; the text model is its fallback.
const (
	OpenAISpeechID = "openai-speech"
	OpenAITextID   = "openai-text"
)

// Default OpenAI models.
const (
	defaultSpeechModel = "gpt-4o-audio-preview"
	defaultTextModel   = "gpt-4o-mini"
)

// openaiChatService defines the minimal interface for chat completions.
type openaiChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// openaiModelService defines the minimal interface for model lookups, used
// as the availability probe.
type openaiModelService interface {
	Get(ctx context.Context, model string, opts ...option.RequestOption) (*openai.Model, error)
}

// OpenAIConfig configures an OpenAI-backed provider adapter.
type OpenAIConfig struct {
	APIKey string
	// Model overrides the default model for this adapter.
	Model string
	// Speech marks the adapter as speech-capable, requesting audio output
	// alongside text.
	Speech bool
}

// OpenAIProvider implements Provider using the OpenAI API. One client backs
// both the speech-capable and text-only adapter instances.
type OpenAIProvider struct {
	id     string
	chat   openaiChatService
	models openaiModelService
	model  string
	speech bool
}

// NewOpenAIProvider creates an OpenAI provider adapter.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key not set")
	}

	cli := openai.NewClient(option.WithAPIKey(cfg.APIKey))

	id := OpenAITextID
	model := defaultTextModel
	if cfg.Speech {
		id = OpenAISpeechID
		model = defaultSpeechModel
	}
	if cfg.Model != "" {
		model = cfg.Model
	}

	slog.Debug("provider.NewOpenAIProvider: created adapter", "id", id, "model", model, "speech", cfg.Speech)
	return &OpenAIProvider{
		id:     id,
		chat:   &cli.Chat.Completions,
		models: &cli.Models,
		model:  model,
		speech: cfg.Speech,
	}, nil
}

// ID returns the adapter's provider identifier.
func (p *OpenAIProvider) ID() string { return p.id }

// Capabilities reports generation always, speech only for the audio model.
func (p *OpenAIProvider) Capabilities() Capabilities {
	return Capabilities{Generation: true, Speech: p.speech}
}

// Probe checks the configured model is reachable.
func (p *OpenAIProvider) Probe(ctx context.Context) error {
	if _, err := p.models.Get(ctx, p.model); err != nil {
		slog.Debug("OpenAIProvider.Probe: model lookup failed", "id", p.id, "model", p.model, "error", err)
		return &ErrUnavailable{Provider: p.id, Err: err}
	}
	return nil
}

// Generate produces the next examiner utterance, with synthesized speech
// when this adapter is speech-capable and the request asks for audio.
func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    buildOpenAIMessages(req),
		MaxTokens:   openai.Int(int64(maxTokensOrDefault(req.MaxTokens))),
		Temperature: openai.Float(temperatureOrDefault(req.Temperature)),
	}

	if p.speech && req.WantAudio {
		params.Modalities = []string{"text", "audio"}
		params.Audio = openai.ChatCompletionAudioParam{
			Format: openai.ChatCompletionAudioParamFormatWAV,
			Voice:  openai.ChatCompletionAudioParamVoiceAlloy,
		}
	}

	resp, err := p.chat.New(ctx, params)
	if err != nil {
		slog.Warn("OpenAIProvider.Generate: completion failed", "id", p.id, "model", p.model, "error", err)
		return nil, &ErrUnavailable{Provider: p.id, Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrEmptyResponse{Provider: p.id}
	}

	msg := resp.Choices[0].Message
	out := &Response{Text: msg.Content, Model: resp.Model}

	// Audio responses carry the text as a transcript instead of content.
	if msg.Audio.Data != "" {
		if out.Text == "" {
			out.Text = msg.Audio.Transcript
		}
		audio, decodeErr := base64.StdEncoding.DecodeString(msg.Audio.Data)
		if decodeErr != nil {
			slog.Warn("OpenAIProvider.Generate: failed to decode audio payload, returning text only", "id", p.id, "error", decodeErr)
		} else {
			out.Audio = audio
		}
	}

	if out.Text == "" {
		return nil, &ErrEmptyResponse{Provider: p.id}
	}

	slog.Debug("OpenAIProvider.Generate: succeeded", "id", p.id, "model", resp.Model, "textLength", len(out.Text), "hasAudio", len(out.Audio) > 0)
	return out, nil
}

func buildOpenAIMessages(req Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	for _, m := range req.History {
		if m.Role == RoleExaminer {
			messages = append(messages, openai.AssistantMessage(m.Content))
		} else {
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	return messages
}

func maxTokensOrDefault(n int) int {
	if n <= 0 {
		return defaultMaxTokens
	}
	return n
}

func temperatureOrDefault(t float64) float64 {
	if t <= 0 {
		return defaultTemperature
	}
	return t
}
