package table

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/agenticlabs-console/internal/domain"
)

func tier(t domain.AlriTier) *domain.AlriTier { return &t }

func sampleRecords() []domain.RunRecord {
	return []domain.RunRecord{
		{ID: 1, Timestamp: 100, Band: "simple", Provider: "ollama", Model: "llama3", LatencyMs: 120, PromptTokens: 10, CompletionTokens: 5, CostUSD: 0, SavingsUSD: 0.002, AlriScore: domain.Float64(1.0), AlriTier: tier(domain.TierGreenLow)},
		{ID: 2, Timestamp: 300, Band: "Complex", Provider: "Anthropic", Model: "claude", LatencyMs: 900, PromptTokens: 40, CompletionTokens: 400, CostUSD: 0.009, SavingsUSD: -0.001, AlriScore: domain.Float64(7.1), AlriTier: tier(domain.TierOrangeHigh)},
		{ID: 3, Timestamp: 200, Band: "moderate", Provider: "openai", Model: "gpt-4o-mini", LatencyMs: 450, PromptTokens: 20, CompletionTokens: 80, CostUSD: 0.001, SavingsUSD: 0.0005},
		{ID: 4, Timestamp: 400, Band: "simple", Provider: "gemini", Model: "flash", LatencyMs: 80, PromptTokens: 5, CompletionTokens: 1, CostUSD: 0.0001, SavingsUSD: 0.0019, AlriScore: domain.Float64(3.3)},
	}
}

func ids(records []domain.RunRecord) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestSortByKey(t *testing.T) {
	tests := []struct {
		key  Key
		want []int64
	}{
		{KeyTime, []int64{1, 3, 2, 4}},
		{KeyLatency, []int64{4, 1, 3, 2}},
		{KeyTokens, []int64{4, 1, 3, 2}},
		{KeyCost, []int64{1, 4, 3, 2}},
		{KeySavings, []int64{2, 3, 4, 1}},
		{KeyProvider, []int64{2, 4, 1, 3}}, // без учета регистра
		{KeyAlri, []int64{3, 1, 4, 2}},     // null первым при asc
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(sampleRecords(), tt.key, Asc)))
		})
	}
}

func TestSortDescIsExactReverseOfAsc(t *testing.T) {
	for _, key := range []Key{KeyTime, KeyLatency, KeyTokens, KeyCost, KeySavings, KeyProvider, KeyModel, KeyAlri} {
		asc := ids(Sort(sampleRecords(), key, Asc))
		desc := ids(Sort(sampleRecords(), key, Desc))
		slices.Reverse(desc)
		assert.Equal(t, asc, desc, key)
	}
}

func TestSortNullAlriLastWhenDescending(t *testing.T) {
	desc := Sort(sampleRecords(), KeyAlri, Desc)
	assert.Nil(t, desc[len(desc)-1].AlriScore)
	assert.Equal(t, int64(2), desc[0].ID)
}

func TestSortIsIdempotentAndPure(t *testing.T) {
	in := sampleRecords()
	before := ids(in)

	once := Sort(in, KeyLatency, Desc)
	twice := Sort(once, KeyLatency, Desc)

	assert.Equal(t, ids(once), ids(twice))
	assert.Equal(t, before, ids(in), "input must not be reordered")
}

func TestSortStableForTies(t *testing.T) {
	in := sampleRecords()
	out := Sort(in, KeyBand, Asc)
	// Две записи simple (1 и 4) сохраняют порядок поступления
	assert.Equal(t, []int64{2, 3, 1, 4}, ids(out))
}

func TestUnsortedKeepsArrivalOrder(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(SortState{}.Apply(sampleRecords())))
}

func TestParseKeyAndDirection(t *testing.T) {
	k, err := ParseKey(" Latency ")
	require.NoError(t, err)
	assert.Equal(t, KeyLatency, k)

	_, err = ParseKey("prompt")
	require.Error(t, err)

	d, err := ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Asc, d)

	d, err = ParseDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, Desc, d)

	_, err = ParseDirection("sideways")
	require.Error(t, err)
}

func TestSortStateMachine(t *testing.T) {
	var s SortState
	require.True(t, s.Unsorted())

	s = s.Toggle(KeyCost)
	assert.Equal(t, SortState{Key: KeyCost, Dir: Asc}, s)

	s = s.Toggle(KeyCost)
	assert.Equal(t, SortState{Key: KeyCost, Dir: Desc}, s)

	s = s.Toggle(KeyCost)
	assert.Equal(t, SortState{Key: KeyCost, Dir: Asc}, s, "desc cycles back to asc, never to unsorted")

	s = s.Toggle(KeyCost).Toggle(KeyAlri)
	assert.Equal(t, SortState{Key: KeyAlri, Dir: Asc}, s, "new key always starts ascending")

	assert.Equal(t, "alri asc", s.Label())
	assert.Equal(t, "unsorted", SortState{}.Label())
}

func TestRowsFormatting(t *testing.T) {
	rec := sampleRecords()[1]
	rec.RouterLatencyMs = domain.Float64(5)
	rec.ProviderLatencyMs = domain.Float64(890)
	rec.ProcessingLatencyMs = domain.Float64(5)

	row := FormatRow(rec, time.UTC)
	assert.Equal(t, "1970-01-01 00:05:00", row.Time)
	assert.Equal(t, "COMPLEX", row.Band)
	assert.Equal(t, "0.900 s", row.Latency)
	assert.Equal(t, "Router 0.005 s · Provider 0.890 s · Processing 0.005 s", row.LatencyBreakdown)
	assert.Equal(t, "440", row.Tokens)
	assert.Equal(t, "$0.009000", row.Cost)
	assert.Equal(t, "-0.001000", row.Savings)
	assert.False(t, row.SavingsPositive)
	assert.Equal(t, "7.1 (orange high)", row.Alri)

	rows := Rows(sampleRecords(), nil)
	require.Len(t, rows, 4)
	assert.Equal(t, "+0.002000", rows[0].Savings)
	assert.Equal(t, "1 (green low)", rows[0].Alri)
	assert.Equal(t, NoValue, rows[2].Alri)
	assert.Equal(t, "3.3", rows[3].Alri)
	assert.Empty(t, rows[0].LatencyBreakdown)
}
