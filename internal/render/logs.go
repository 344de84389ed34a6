package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/xela07ax/agenticlabs-console/internal/analytics"
	"github.com/xela07ax/agenticlabs-console/internal/risk"
	logtable "github.com/xela07ax/agenticlabs-console/internal/table"
)

// LogsHeaders — заголовки колонок журнала в порядке ключей сортировки
var LogsHeaders = []string{"TIME", "BAND", "PROVIDER", "MODEL", "LATENCY", "TOKENS", "COST", "SAVINGS", "ALRI"}

// LogsTable рисует строки журнала; колонка текущей сортировки помечается стрелкой.
func LogsTable(rows []logtable.Row, sort logtable.SortState) string {
	if len(rows) == 0 {
		return HelpStyle.Render("No runs on this page")
	}

	headers := make([]string, len(LogsHeaders))
	copy(headers, LogsHeaders)
	for i, k := range logtable.Keys {
		if !sort.Unsorted() && sort.Key == k {
			arrow := " ↑"
			if sort.Dir == logtable.Desc {
				arrow = " ↓"
			}
			headers[i] += arrow
		}
	}

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		latency := r.Latency
		if r.LatencyBreakdown != "" {
			latency += " (" + r.LatencyBreakdown + ")"
		}
		data = append(data, []string{r.Time, r.Band, r.Provider, r.Model, latency, r.Tokens, r.Cost, r.Savings, r.Alri})
	}

	savingsCol := 7
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Subtle)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(Primary)
			}
			if col == savingsCol && row >= 0 && row < len(rows) {
				if rows[row].SavingsPositive {
					return s.Foreground(tierColors["green_low"])
				}
			}
			return s
		})
	return t.Render()
}

// TierLegend — распределение тиров ALRI на странице
func TierLegend(shares []risk.TierShare) string {
	parts := make([]string, 0, len(shares))
	for _, s := range shares {
		if s.Runs == 0 {
			continue
		}
		style := lipgloss.NewStyle().Foreground(Subtle)
		if c, ok := tierColors[s.Tier]; ok {
			style = lipgloss.NewStyle().Foreground(c)
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s %d (%s)",
			strings.ReplaceAll(s.Tier, "_", " "), s.Runs, analytics.Percent(s.Pct))))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ")
}

// PageFooter — "1-50 of 312 · sorted by latency desc"
func PageFooter(offset, count int, total int64, sort logtable.SortState) string {
	from := offset + 1
	if count == 0 {
		from = offset
	}
	return HelpStyle.Render(fmt.Sprintf("%d-%d of %s · %s",
		from, offset+count, analytics.Count(total), sort.Label()))
}
