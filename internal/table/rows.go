package table

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xela07ax/agenticlabs-console/internal/domain"
)

// Row — отформатированная строка таблицы журнала.
type Row struct {
	ID               int64  `json:"id"`
	Time             string `json:"time"`
	Band             string `json:"band"`
	Provider         string `json:"provider"`
	Model            string `json:"model"`
	Latency          string `json:"latency"`
	LatencyBreakdown string `json:"latency_breakdown,omitempty"`
	Tokens           string `json:"tokens"`
	Cost             string `json:"cost"`
	Savings          string `json:"savings"`
	SavingsPositive  bool   `json:"savings_positive"`
	Alri             string `json:"alri"`
}

// NoValue — заглушка для отсутствующего значения
const NoValue = "—"

// Rows форматирует записи в порядке их следования; loc == nil означает UTC.
func Rows(records []domain.RunRecord, loc *time.Location) []Row {
	if loc == nil {
		loc = time.UTC
	}
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, FormatRow(r, loc))
	}
	return rows
}

func FormatRow(r domain.RunRecord, loc *time.Location) Row {
	row := Row{
		ID:              r.ID,
		Time:            time.Unix(r.Timestamp, 0).In(loc).Format(time.DateTime),
		Band:            strings.ToUpper(r.Band),
		Provider:        r.Provider,
		Model:           r.Model,
		Latency:         seconds(r.LatencyMs),
		Tokens:          fmt.Sprintf("%d", r.TotalTokens()),
		Cost:            fmt.Sprintf("$%.6f", r.CostUSD),
		SavingsPositive: r.SavingsUSD >= 0,
		Alri:            FormatAlri(r.AlriScore, r.AlriTier),
	}

	if r.SavingsUSD >= 0 {
		row.Savings = fmt.Sprintf("+%.6f", r.SavingsUSD)
	} else {
		row.Savings = fmt.Sprintf("%.6f", r.SavingsUSD)
	}

	if r.HasLatencyBreakdown() {
		row.LatencyBreakdown = fmt.Sprintf("Router %s · Provider %s · Processing %s",
			seconds(*r.RouterLatencyMs), seconds(*r.ProviderLatencyMs), seconds(*r.ProcessingLatencyMs))
	}
	return row
}

// FormatAlri: "7.5 (orange high)", "3" без тира, "—" без балла
func FormatAlri(score *float64, tier *domain.AlriTier) string {
	if score == nil {
		return NoValue
	}
	text := fmt.Sprintf("%.1f", *score)
	if *score == math.Trunc(*score) {
		text = fmt.Sprintf("%.0f", *score)
	}
	if tier == nil || *tier == "" {
		return text
	}
	return fmt.Sprintf("%s (%s)", text, tier.Label())
}

func seconds(ms float64) string {
	return fmt.Sprintf("%.3f s", ms/1000)
}
