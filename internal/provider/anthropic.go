package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicID identifies the Anthropic text-only adapter, the first
// different-vendor fallback after the OpenAI backends.
const AnthropicID = "anthropic"

const defaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicConfig configures the Anthropic provider adapter.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// AnthropicProvider implements Provider using the Anthropic SDK. It is
// text-only: WantAudio is ignored.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicProvider creates an Anthropic provider adapter.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key not set")
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	slog.Debug("provider.NewAnthropicProvider: created adapter", "model", model)
	return &AnthropicProvider{client: &client, model: model}, nil
}

// ID returns the adapter's provider identifier.
func (p *AnthropicProvider) ID() string { return AnthropicID }

// Capabilities reports text generation only.
func (p *AnthropicProvider) Capabilities() Capabilities {
	return Capabilities{Generation: true, Speech: false}
}

// Probe checks the configured model is reachable.
func (p *AnthropicProvider) Probe(ctx context.Context) error {
	if _, err := p.client.Models.Get(ctx, p.model, anthropic.ModelGetParams{}); err != nil {
		slog.Debug("AnthropicProvider.Probe: model lookup failed", "model", p.model, "error", err)
		return &ErrUnavailable{Provider: AnthropicID, Err: err}
	}
	return nil
}

// Generate produces the next examiner utterance as text.
func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokensOrDefault(req.MaxTokens)),
		Messages:  buildAnthropicMessages(req.History),
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		slog.Warn("AnthropicProvider.Generate: message failed", "model", p.model, "error", err)
		return nil, &ErrUnavailable{Provider: AnthropicID, Err: err}
	}

	text := ""
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, &ErrEmptyResponse{Provider: AnthropicID}
	}

	slog.Debug("AnthropicProvider.Generate: succeeded", "model", msg.Model, "textLength", len(text))
	return &Response{Text: text, Model: string(msg.Model)}, nil
}

func buildAnthropicMessages(history []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(history))
	for _, m := range history {
		role := anthropic.MessageParamRoleUser
		if m.Role == RoleExaminer {
			role = anthropic.MessageParamRoleAssistant
		}
		out = append(out, anthropic.MessageParam{
			Role:    role,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(m.Content)},
		})
	}
	return out
}
