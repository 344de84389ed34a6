package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/agenticlabs-console/internal/domain"
)

// fakeGetter отдает заранее заданное тело или ошибку и считает вызовы
type fakeGetter struct {
	body  string
	err   error
	calls int
}

func (f *fakeGetter) GetJSON(_ context.Context, _ string, _ url.Values, out any) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.body), out)
}

func syntheticFallback(p url.Values) domain.MetricsSummary {
	return domain.MetricsSummary{TotalRuns: 1, ProviderBreakdown: []domain.ProviderStat{{Provider: p.Get("range"), Runs: 1}}}
}

func TestFetchSuccess(t *testing.T) {
	g := &fakeGetter{body: `{"total_runs": 5, "total_cost_usd": 0.5}`}
	res := Fetch(context.Background(), g, "/v1/metrics/summary", nil, syntheticFallback)

	require.NoError(t, res.Err)
	assert.False(t, res.UsedFallback)
	assert.Equal(t, int64(5), res.Data.TotalRuns)
	assert.Empty(t, res.Warning())
}

func TestFetchFallbackOnError(t *testing.T) {
	g := &fakeGetter{err: errors.New("connection refused")}
	res := Fetch(context.Background(), g, "/v1/metrics/summary", url.Values{"range": {"30d"}}, syntheticFallback)

	assert.True(t, res.UsedFallback)
	assert.Equal(t, "connection refused", res.Warning())
	assert.Equal(t, "30d", res.Data.ProviderBreakdown[0].Provider, "fallback receives the request params")
}

func TestFetchValidationFailureUsesFallback(t *testing.T) {
	// provider runs не сходятся с total_runs
	g := &fakeGetter{body: `{"total_runs": 5, "provider_breakdown": [{"provider": "openai", "runs": 2}]}`}
	res := Fetch(context.Background(), g, "/v1/metrics/summary", nil, syntheticFallback)

	assert.True(t, res.UsedFallback)
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, domain.ErrInvalidSummary)
	assert.Contains(t, res.Warning(), "unexpected response shape")
}

func TestFetchStrictWithoutFallback(t *testing.T) {
	g := &fakeGetter{err: errors.New("timeout")}
	res := Fetch[domain.LogsPage](context.Background(), g, "/v1/logs", nil, nil)

	require.Error(t, res.Err)
	assert.False(t, res.UsedFallback)
	assert.Empty(t, res.Data.Items)
	assert.Zero(t, res.Data.Total)
}

func TestFetchIsIdempotent(t *testing.T) {
	g := &fakeGetter{body: `{"total": 2, "offset": 0, "limit": 50, "items": [{"id": 1}, {"id": 2}]}`}
	first := Fetch[domain.LogsPage](context.Background(), g, "/v1/logs", nil, nil)
	second := Fetch[domain.LogsPage](context.Background(), g, "/v1/logs", nil, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, g.calls, "no caching between calls")
}

func TestSequencerDiscardsStale(t *testing.T) {
	var s Sequencer
	t1 := s.Next()
	t2 := s.Next()

	assert.True(t, s.Commit(t2))
	assert.False(t, s.Commit(t1), "older response must be discarded")
	assert.False(t, s.Commit(t2), "same token applies once")
	assert.False(t, s.Commit(99), "token never issued")
	assert.Equal(t, t2, s.Latest())
}

func TestSequencerConcurrent(t *testing.T) {
	var s Sequencer
	var wg sync.WaitGroup
	tokens := make(chan uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens <- s.Next()
		}()
	}
	wg.Wait()
	close(tokens)

	seen := map[uint64]bool{}
	for tok := range tokens {
		assert.False(t, seen[tok], "duplicate token %d", tok)
		seen[tok] = true
	}
	assert.Equal(t, uint64(100), s.Latest())
}
