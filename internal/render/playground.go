package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xela07ax/agenticlabs-console/internal/analytics"
	"github.com/xela07ax/agenticlabs-console/internal/domain"
)

// RunView — то, что показывает песочница после запуска
type RunView struct {
	Prompt string
	Result *domain.RunResult
	Err    string
}

// Run рисует запуск в макете темы. Переключатель по LayoutKind покрывает все варианты,
// неизвестный вид рисуется как classic-chat.
func Run(theme Theme, v RunView, width int) string {
	if width < 40 {
		width = 40
	}
	switch theme.Layout {
	case LayoutSplitRight:
		return splitRight(theme, v, width)
	case LayoutStacked:
		return stacked(theme, v, width)
	case LayoutConsole:
		return console(theme, v, width)
	default:
		return classicChat(theme, v, width)
	}
}

func classicChat(theme Theme, v RunView, width int) string {
	bubble := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Padding(0, 1).
		Width(width - 4)

	parts := []string{
		header(theme),
		bubble.Align(lipgloss.Right).Render(v.Prompt),
		bubble.Render(responseText(v)),
		meta(theme, v.Result),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func splitRight(theme Theme, v RunView, width int) string {
	half := (width - 3) / 2
	pane := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Accent).
		Padding(0, 1).
		Width(half - 2)

	left := pane.Render("Prompt\n\n" + v.Prompt)
	right := pane.Render(responseText(v) + "\n\n" + meta(theme, v.Result))
	return lipgloss.JoinVertical(lipgloss.Left,
		header(theme),
		lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right),
	)
}

func stacked(theme Theme, v RunView, width int) string {
	card := lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(theme.Accent).
		PaddingLeft(1).
		Width(width - 2)

	return lipgloss.JoinVertical(lipgloss.Left,
		header(theme),
		card.Render(v.Prompt),
		"",
		card.Render(responseText(v)),
		"",
		card.Render(trace(v.Result)),
	)
}

func console(theme Theme, v RunView, width int) string {
	prompt := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var b strings.Builder
	b.WriteString(prompt.Render("$ ") + v.Prompt + "\n")
	b.WriteString(responseText(v) + "\n")
	if v.Result != nil {
		b.WriteString(HelpStyle.Render("# " + trace(v.Result)))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Accent).
		Width(width - 2).
		Render(b.String())
}

func header(theme Theme) string {
	chip := lipgloss.NewStyle().Foreground(theme.Chip).Bold(true)
	return chip.Render(theme.Label) + HelpStyle.Render("  "+string(theme.Layout))
}

func responseText(v RunView) string {
	switch {
	case v.Err != "":
		return ErrorStyle.Render("Error: " + v.Err)
	case v.Result == nil:
		return HelpStyle.Render("Run a prompt to see the routed response")
	case v.Result.Output == "":
		return HelpStyle.Render("(empty output)")
	default:
		return v.Result.Output
	}
}

func meta(theme Theme, r *domain.RunResult) string {
	if r == nil {
		return ""
	}
	return lipgloss.NewStyle().Foreground(theme.Chip).Render(trace(r))
}

// trace — однострочная сводка маршрута: провайдер, модель, тир, задержка, стоимость и токены
func trace(r *domain.RunResult) string {
	if r == nil {
		return ""
	}
	line := fmt.Sprintf("%s/%s band=%s latency=%s cost=%s",
		r.Provider, r.Model, r.Band, analytics.Millis(r.LatencyMs), analytics.USD(r.Cost.TotalUSD))
	if u := r.Usage; u != nil && u.TotalTokens != nil {
		line += fmt.Sprintf(" tokens=%d", *u.TotalTokens)
	}
	return line
}
