package provider

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// GeminiID identifies the Gemini text-only adapter, the last-resort vendor
// in the default priority order.
const GeminiID = "gemini"

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig configures the Gemini provider adapter.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiProvider implements Provider using the Google Gemini SDK. It is
// text-only: WantAudio is ignored.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini provider adapter.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	slog.Debug("provider.NewGeminiProvider: created adapter", "model", model)
	return &GeminiProvider{client: client, model: model}, nil
}

// ID returns the adapter's provider identifier.
func (p *GeminiProvider) ID() string { return GeminiID }

// Capabilities reports text generation only.
func (p *GeminiProvider) Capabilities() Capabilities {
	return Capabilities{Generation: true, Speech: false}
}

// Probe issues a minimal generation request as a reachability check; the
// Gemini API has no cheaper authenticated endpoint exposed by the SDK.
func (p *GeminiProvider) Probe(ctx context.Context) error {
	config := &genai.GenerateContentConfig{MaxOutputTokens: 1}
	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: "ping"}}}}
	if _, err := p.client.Models.GenerateContent(ctx, p.model, contents, config); err != nil {
		slog.Debug("GeminiProvider.Probe: generation check failed", "model", p.model, "error", err)
		return &ErrUnavailable{Provider: GeminiID, Err: err}
	}
	return nil
}

// Generate produces the next examiner utterance as text.
func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokensOrDefault(req.MaxTokens)),
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, buildGeminiContents(req.History), config)
	if err != nil {
		slog.Warn("GeminiProvider.Generate: generation failed", "model", p.model, "error", err)
		return nil, &ErrUnavailable{Provider: GeminiID, Err: err}
	}

	text := result.Text()
	if text == "" {
		return nil, &ErrEmptyResponse{Provider: GeminiID}
	}

	slog.Debug("GeminiProvider.Generate: succeeded", "model", p.model, "textLength", len(text))
	return &Response{Text: text, Model: p.model}, nil
}

func buildGeminiContents(history []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == RoleExaminer {
			role = "model"
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return out
}
