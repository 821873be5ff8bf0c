// Package provider defines the generation-provider abstraction used by the
// conversation orchestrator, with adapters for the supported AI backends.
//
// Every adapter exposes the same Generate shape regardless of vendor, plus a
// cheap Probe used by the capability detector at session start.
package provider

import (
	"context"
	"time"
)

// Role identifies a message author in the generation request history.
type Role string

const (
	// RoleExaminer maps to the assistant side of the vendor API.
	RoleExaminer Role = "examiner"
	// RoleCandidate maps to the user side of the vendor API.
	RoleCandidate Role = "candidate"
)

// Message is one entry of the bounded conversational context sent to a
// provider.
type Message struct {
	Role    Role
	Content string
}

// Request describes what to ask a provider for.
type Request struct {
	// SystemPrompt sets the examiner persona and grounding questions.
	SystemPrompt string

	// History is the bounded recent conversation, oldest first.
	History []Message

	// MaxTokens limits the response length. Zero means the adapter default.
	MaxTokens int

	// Temperature controls randomness, 0.0-1.0.
	Temperature float64

	// WantAudio requests synthesized speech alongside text. Adapters
	// without speech capability ignore it and return text only.
	WantAudio bool
}

// Response holds a provider's output.
type Response struct {
	// Text is the generated examiner utterance.
	Text string

	// Audio is synthesized speech for Text, nil when unavailable.
	Audio []byte

	// Model is the concrete model that served the request.
	Model string
}

// Capabilities describes what a provider can do, resolved once per session
// by the detector and cached on the session, never re-probed per call.
type Capabilities struct {
	Generation bool
	Speech     bool
}

// Provider is an interchangeable backend capable of generating the next
// examiner utterance, and optionally synthesizing speech.
type Provider interface {
	// ID returns the stable provider identifier used in priority lists.
	ID() string

	// Capabilities reports what this provider supports when reachable.
	Capabilities() Capabilities

	// Probe performs a cheap reachability check. An error or timeout
	// means the provider is excluded from the current detection pass.
	Probe(ctx context.Context) error

	// Generate produces the next examiner utterance.
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Default request bounds shared by adapters.
const (
	defaultMaxTokens   = 512
	defaultTemperature = 0.7
	// DefaultCallTimeout bounds a single generation call, distinct from
	// the part-time budget.
	DefaultCallTimeout = 15 * time.Second
	// DefaultProbeTimeout bounds one availability probe.
	DefaultProbeTimeout = 3 * time.Second
)
