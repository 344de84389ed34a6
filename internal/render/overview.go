package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/xela07ax/agenticlabs-console/internal/analytics"
)

// Overview рисует карточки метрик, долю провайдеров и график запросов по дням.
func Overview(o analytics.Overview, width int) string {
	if width < 60 {
		width = 60
	}

	var sections []string
	sections = append(sections, TitleStyle.Render("Router overview · "+o.Range))
	if o.UsedFallback {
		sections = append(sections, WarnStyle.Render("Live metrics unavailable, showing sample data: "+o.Warning))
	}
	if o.Empty {
		sections = append(sections, HelpStyle.Render(o.EmptyMessage))
	}

	d := o.Display
	cards := [][2]string{
		{"Total runs", d.TotalRuns},
		{"Avg latency", d.AvgLatency},
		{"Total cost", d.TotalCost},
		{"Cost / run", d.CostPerRun},
		{"Savings", d.Savings},
		{"What-if", d.WhatIf},
		{"High ALRI", d.HighAlri},
		{"Avg ALRI", d.AvgAlri},
	}
	cardWidth := (width / 4) - 2
	var rows []string
	for i := 0; i < len(cards); i += 4 {
		var line []string
		for _, c := range cards[i:min(i+4, len(cards))] {
			line = append(line, card(c[0], c[1], cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, rows...))

	if len(o.Providers) > 0 {
		values := make([]float64, 0, len(o.Providers))
		labels := make([]string, 0, len(o.Providers))
		for _, p := range o.Providers {
			values = append(values, p.RunSharePct)
			labels = append(labels, p.Provider)
		}
		sections = append(sections, TitleStyle.Render("Runs by provider"), BarChart(values, labels, width))
	}

	if len(o.Summary.Timeseries) > 0 {
		series := make([]float64, 0, len(o.Summary.Timeseries))
		for _, pt := range o.Summary.Timeseries {
			series = append(series, float64(pt.Requests))
		}
		first := o.Summary.Timeseries[0].Date
		last := o.Summary.Timeseries[len(o.Summary.Timeseries)-1].Date
		sections = append(sections, LineChart(series, width-10, 8, "requests/day "+first+" .. "+last))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func card(label, value string, width int) string {
	return CardStyle.Width(width).Render(
		HelpStyle.Render(label) + "\n" + lipgloss.NewStyle().Bold(true).Render(value))
}

// LineChart — одна серия; asciigraph не умеет рисовать одну точку, поэтому она дублируется.
func LineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return HelpStyle.Render("No data available")
	}
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(max(height, 3)),
		asciigraph.Width(max(width, 20)),
		asciigraph.Caption(caption),
	)
}

// BarChart — горизонтальные полосы процентов
func BarChart(pcts []float64, labels []string, width int) string {
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}
	barWidth := max(width-labelWidth-12, 10)

	lines := make([]string, 0, len(pcts))
	for i, pct := range pcts {
		n := int(pct / 100 * float64(barWidth))
		n = min(max(n, 0), barWidth)
		bar := lipgloss.NewStyle().Foreground(Primary).Render(strings.Repeat("█", n)) +
			lipgloss.NewStyle().Foreground(Subtle).Render(strings.Repeat("░", barWidth-n))
		lines = append(lines, fmt.Sprintf("%*s %s %s", labelWidth, labels[i], bar, analytics.Percent(pct)))
	}
	return strings.Join(lines, "\n")
}
