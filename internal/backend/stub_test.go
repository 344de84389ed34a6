package backend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/agenticlabs-console/internal/domain"
)

func TestStubSummaryIsValid(t *testing.T) {
	stub, srv := newStubServer(t)
	stub.Seed(40, 6*24*time.Hour)

	for _, rng := range []string{domain.Range24h, domain.Range7d, domain.Range30d} {
		resp, err := http.Get(srv.URL + PathMetricsSummary + "?range=" + rng)
		require.NoError(t, err)

		var s domain.MetricsSummary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
		resp.Body.Close()

		require.NoError(t, s.Validate(), rng)
		assert.Len(t, s.Timeseries, domain.RangeDays(rng))

		var perDay int64
		for _, pt := range s.Timeseries {
			perDay += pt.Requests
		}
		assert.Equal(t, s.TotalRuns, perDay, rng)
	}
}

func TestStubEmptySummary(t *testing.T) {
	s := summarize(nil, 7, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.Validate())
	assert.Zero(t, s.TotalRuns)
	assert.Nil(t, s.BaselineCostUSD)
	assert.Nil(t, s.AvgAlriScore)
	assert.Equal(t, "2026-10-13", s.Timeseries[0].Date)
	assert.Equal(t, "2026-10-19", s.Timeseries[6].Date)
}

func TestStubLogsPagination(t *testing.T) {
	stub, srv := newStubServer(t)
	stub.Seed(7, time.Hour)

	resp, err := http.Get(srv.URL + PathLogs + "?offset=2&limit=3")
	require.NoError(t, err)
	defer resp.Body.Close()

	var page domain.LogsPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, int64(7), page.Total)
	require.Len(t, page.Items, 3)
	// Свежие первыми: 7, 6 пропущены
	assert.Equal(t, []int64{5, 4, 3}, []int64{page.Items[0].ID, page.Items[1].ID, page.Items[2].ID})
}

func TestStubRunRejectsEmptyPrompt(t *testing.T) {
	_, srv := newStubServer(t)
	resp, err := http.Post(srv.URL+PathRun, "application/json", strings.NewReader(`{"prompt":""}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestStubBandForPrompt(t *testing.T) {
	assert.Equal(t, domain.PolicySimple, bandForPrompt("hi"))
	assert.Equal(t, domain.PolicyModerate, bandForPrompt(strings.Repeat("a", 100)))
	assert.Equal(t, domain.PolicyComplex, bandForPrompt(strings.Repeat("a", 500)))
}

func TestStubRoutesHealth(t *testing.T) {
	stub, _ := newStubServer(t)
	rec := httptest.NewRecorder()
	stub.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PathHealth, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
