package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProviderFIFOResponses(t *testing.T) {
	mock := NewMockProvider("mock",
		MockResponse{Text: "first"},
		MockResponse{Text: "second"},
	)

	resp, err := mock.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text)

	resp, err = mock.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Text)

	// Last response repeats once the queue runs dry.
	resp, err = mock.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Text)

	assert.Equal(t, 3, mock.CallCount())
}

func TestMockProviderNoResponses(t *testing.T) {
	mock := NewMockProvider("empty")

	_, err := mock.Generate(context.Background(), Request{})
	require.Error(t, err)

	var unavailable *ErrUnavailable
	assert.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "empty", unavailable.Provider)
}

func TestErrUnavailableUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := &ErrUnavailable{Provider: "openai", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "openai")
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.True(t, IsTimeout(&ErrUnavailable{Provider: "p", Err: context.DeadlineExceeded}))
	assert.False(t, IsTimeout(errors.New("other")))
	assert.False(t, IsTimeout(nil))
}

func TestRequestDefaults(t *testing.T) {
	assert.Equal(t, defaultMaxTokens, maxTokensOrDefault(0))
	assert.Equal(t, 256, maxTokensOrDefault(256))

	assert.InDelta(t, defaultTemperature, temperatureOrDefault(0), 1e-9)
	assert.InDelta(t, 0.2, temperatureOrDefault(0.2), 1e-9)
}
