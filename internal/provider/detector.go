package provider

import (
	"context"
	"log/slog"
	"time"
)

// Detector probes a prioritized list of providers and records which are
// available. Detection runs once per session start; the result is cached on
// the session, never shared or invalidated across sessions mid-flight.
type Detector struct {
	providers    []Provider
	probeTimeout time.Duration
}

// NewDetector creates a Detector over providers in priority order: the
// highest-fidelity speech-capable backend first, down to the last-resort
// vendor.
func NewDetector(providers []Provider) *Detector {
	return &Detector{providers: providers, probeTimeout: DefaultProbeTimeout}
}

// NewDetectorWithTimeout creates a Detector with a custom per-probe timeout.
func NewDetectorWithTimeout(providers []Provider, probeTimeout time.Duration) *Detector {
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}
	return &Detector{providers: providers, probeTimeout: probeTimeout}
}

// DetectAvailable probes each provider in priority order with a short
// timeout per probe. A provider that errors or times out is excluded, not
// retried within the same detection pass. Detection never fails: it
// degrades to an empty available set.
func (d *Detector) DetectAvailable(ctx context.Context) []string {
	available := make([]string, 0, len(d.providers))
	for _, p := range d.providers {
		probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
		err := p.Probe(probeCtx)
		cancel()
		if err != nil {
			slog.Debug("Detector.DetectAvailable: provider excluded", "provider", p.ID(), "error", err)
			continue
		}
		available = append(available, p.ID())
	}
	slog.Info("Detector.DetectAvailable: detection pass complete", "available", available, "candidates", len(d.providers))
	return available
}

// SelectBest returns the first available provider by priority order, or the
// empty string when none are available. Pure function over the detection
// result.
func (d *Detector) SelectBest(available []string) string {
	set := make(map[string]bool, len(available))
	for _, id := range available {
		set[id] = true
	}
	for _, p := range d.providers {
		if set[p.ID()] {
			return p.ID()
		}
	}
	return ""
}

// SupportsSpeech reports whether the identified provider can return audio.
// This is a capability test distinct from availability: a provider may be
// reachable but text-only.
func (d *Detector) SupportsSpeech(id string) bool {
	if p, ok := d.Get(id); ok {
		return p.Capabilities().Speech
	}
	return false
}

// Get returns the provider with the given identifier.
func (d *Detector) Get(id string) (Provider, bool) {
	for _, p := range d.providers {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// Chain returns the providers to try for one generation call: the primary
// first, then the remaining available providers in priority order. The
// orchestrator attempts exactly one fallback from this chain per call.
func (d *Detector) Chain(primary string, available []string) []Provider {
	set := make(map[string]bool, len(available))
	for _, id := range available {
		set[id] = true
	}

	chain := make([]Provider, 0, len(available))
	if p, ok := d.Get(primary); ok {
		chain = append(chain, p)
	}
	for _, p := range d.providers {
		if p.ID() != primary && set[p.ID()] {
			chain = append(chain, p)
		}
	}
	return chain
}
