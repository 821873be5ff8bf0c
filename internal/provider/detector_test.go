package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAvailableExcludesFailingProbes(t *testing.T) {
	good := NewMockProvider("good", MockResponse{Text: "hi"})
	bad := NewMockProvider("bad").FailProbe(errors.New("connection refused"))
	alsoGood := NewMockProvider("also-good", MockResponse{Text: "hi"})

	det := NewDetector([]Provider{good, bad, alsoGood})
	available := det.DetectAvailable(context.Background())

	assert.Equal(t, []string{"good", "also-good"}, available)
}

func TestDetectAvailableAllDown(t *testing.T) {
	a := NewMockProvider("a").FailProbe(errors.New("down"))
	b := NewMockProvider("b").FailProbe(errors.New("down"))

	det := NewDetector([]Provider{a, b})
	available := det.DetectAvailable(context.Background())

	assert.Empty(t, available)
	assert.Equal(t, "", det.SelectBest(available))
}

func TestSelectBestHonorsPriorityOrder(t *testing.T) {
	first := NewMockProvider("first")
	second := NewMockProvider("second")
	det := NewDetector([]Provider{first, second})

	assert.Equal(t, "first", det.SelectBest([]string{"second", "first"}))
	assert.Equal(t, "second", det.SelectBest([]string{"second"}))
	assert.Equal(t, "", det.SelectBest(nil))
}

func TestSupportsSpeech(t *testing.T) {
	speech := NewMockProvider("speech").WithSpeech()
	text := NewMockProvider("text")
	det := NewDetector([]Provider{speech, text})

	assert.True(t, det.SupportsSpeech("speech"))
	assert.False(t, det.SupportsSpeech("text"))
	assert.False(t, det.SupportsSpeech("unknown"))
}

func TestChainPrimaryFirst(t *testing.T) {
	a := NewMockProvider("a")
	b := NewMockProvider("b")
	c := NewMockProvider("c")
	det := NewDetector([]Provider{a, b, c})

	chain := det.Chain("b", []string{"a", "b", "c"})
	require.Len(t, chain, 3)
	assert.Equal(t, "b", chain[0].ID())
	assert.Equal(t, "a", chain[1].ID())
	assert.Equal(t, "c", chain[2].ID())
}

func TestChainSkipsUnavailable(t *testing.T) {
	a := NewMockProvider("a")
	b := NewMockProvider("b")
	det := NewDetector([]Provider{a, b})

	chain := det.Chain("a", []string{"a"})
	require.Len(t, chain, 1)
	assert.Equal(t, "a", chain[0].ID())
}

func TestDetectAvailableProbeTimeout(t *testing.T) {
	slow := &slowProbeProvider{id: "slow", delay: 200 * time.Millisecond}
	fast := NewMockProvider("fast")

	det := NewDetectorWithTimeout([]Provider{slow, fast}, 20*time.Millisecond)
	available := det.DetectAvailable(context.Background())

	assert.Equal(t, []string{"fast"}, available)
}

// slowProbeProvider blocks in Probe until its delay elapses or the context
// expires.
type slowProbeProvider struct {
	id    string
	delay time.Duration
}

func (s *slowProbeProvider) ID() string                 { return s.id }
func (s *slowProbeProvider) Capabilities() Capabilities { return Capabilities{Generation: true} }

func (s *slowProbeProvider) Probe(ctx context.Context) error {
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *slowProbeProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return &Response{Text: "ok"}, nil
}
