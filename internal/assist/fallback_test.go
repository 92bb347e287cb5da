package assist_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleekinvoices/internal/assist"
	"sleekinvoices/internal/port"
)

type stubExtractor struct {
	out   *port.ExtractOutput
	err   error
	calls int
}

func (s *stubExtractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func okOutput(model string) *port.ExtractOutput {
	return &port.ExtractOutput{
		DraftJSON: json.RawMessage(`{"client_name":"Acme"}`),
		ModelUsed: model,
	}
}

func TestFallbackExtractor_PrimaryWins(t *testing.T) {
	primary := &stubExtractor{out: okOutput("primary-model")}
	secondary := &stubExtractor{out: okOutput("secondary-model")}
	f := assist.NewFallbackExtractor(
		[]port.InvoiceExtractor{primary, secondary},
		[]string{"openai", "claude"},
	)

	out, err := f.Extract(context.Background(), port.ExtractInput{Description: "bill Acme"})
	require.NoError(t, err)
	assert.Equal(t, "primary-model", out.ModelUsed)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls)
}

func TestFallbackExtractor_FallsBackOnError(t *testing.T) {
	primary := &stubExtractor{err: errors.New("upstream 500")}
	secondary := &stubExtractor{out: okOutput("secondary-model")}
	f := assist.NewFallbackExtractor(
		[]port.InvoiceExtractor{primary, secondary},
		[]string{"openai", "claude"},
	)

	out, err := f.Extract(context.Background(), port.ExtractInput{Description: "bill Acme"})
	require.NoError(t, err)
	assert.Equal(t, "secondary-model", out.ModelUsed)
	assert.Equal(t, 1, primary.calls)
}

func TestFallbackExtractor_AllFail(t *testing.T) {
	primary := &stubExtractor{err: errors.New("upstream 500")}
	secondary := &stubExtractor{err: errors.New("timeout")}
	f := assist.NewFallbackExtractor(
		[]port.InvoiceExtractor{primary, secondary},
		[]string{"openai", "claude"},
	)

	_, err := f.Extract(context.Background(), port.ExtractInput{Description: "bill Acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all extractors failed")
}

func TestFallbackExtractor_RateLimitOpensCircuit(t *testing.T) {
	primary := &stubExtractor{err: assist.NewRateLimitError("openai", errors.New("429"), 60)}
	secondary := &stubExtractor{out: okOutput("secondary-model")}
	f := assist.NewFallbackExtractor(
		[]port.InvoiceExtractor{primary, secondary},
		[]string{"openai", "claude"},
	)

	// First call trips the primary's circuit and falls back.
	out, err := f.Extract(context.Background(), port.ExtractInput{Description: "bill Acme"})
	require.NoError(t, err)
	assert.Equal(t, "secondary-model", out.ModelUsed)
	assert.Equal(t, 1, primary.calls)

	// Second call skips the primary entirely while the circuit is open.
	_, err = f.Extract(context.Background(), port.ExtractInput{Description: "bill Acme again"})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, secondary.calls)
}

func TestFallbackExtractor_AllRateLimited(t *testing.T) {
	only := &stubExtractor{err: assist.NewRateLimitError("openai", errors.New("429"), 30)}
	f := assist.NewFallbackExtractor([]port.InvoiceExtractor{only}, []string{"openai"})

	_, err := f.Extract(context.Background(), port.ExtractInput{Description: "bill Acme"})
	var rlErr *assist.RateLimitError
	require.ErrorAs(t, err, &rlErr)

	// The circuit is open now; the next call reports rate limiting without
	// touching the provider.
	_, err = f.Extract(context.Background(), port.ExtractInput{Description: "bill Acme"})
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 1, only.calls)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, assist.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, assist.ParseRetryAfterHeader("Wed, 21 Oct 2026 07:28:00 GMT"))
	assert.Equal(t, 30, assist.ParseRetryAfterHeader("30"))
}
