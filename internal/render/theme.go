// Package render рисует представления консоли для терминала: макеты песочницы,
// карточки обзора и таблицу журнала.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LayoutKind — вариант макета песочницы
type LayoutKind string

const (
	LayoutClassicChat LayoutKind = "classic-chat"
	LayoutSplitRight  LayoutKind = "split-right"
	LayoutStacked     LayoutKind = "stacked"
	LayoutConsole     LayoutKind = "console"
)

// Theme — оформление песочницы для провайдера
type Theme struct {
	Provider string         `json:"provider"`
	Label    string         `json:"label"`
	Layout   LayoutKind     `json:"layout"`
	Accent   lipgloss.Color `json:"accent"`
	Chip     lipgloss.Color `json:"chip"`
}

// ProviderAuto — роутер выбирает сам
const ProviderAuto = "auto"

var themes = map[string]Theme{
	ProviderAuto: {Provider: ProviderAuto, Label: "Auto (Router decides)", Layout: LayoutClassicChat, Accent: "#818cf8", Chip: "#e2e8f0"},
	"openai":     {Provider: "openai", Label: "GPT (OpenAI)", Layout: LayoutSplitRight, Accent: "#74AA9C", Chip: "#9fd6c7"},
	"anthropic":  {Provider: "anthropic", Label: "Claude (Anthropic)", Layout: LayoutStacked, Accent: "#fcd34d", Chip: "#ffd7a3"},
	"grok":       {Provider: "grok", Label: "Grok", Layout: LayoutConsole, Accent: "#d4d4d4", Chip: "#ffffff"},
	"gemini":     {Provider: "gemini", Label: "Gemini", Layout: LayoutSplitRight, Accent: "#38bdf8", Chip: "#bae6fd"},
	"ollama":     {Provider: "ollama", Label: "Ollama (Local)", Layout: LayoutClassicChat, Accent: "#93c5fd", Chip: "#dbeafe"},
}

// Providers — известные провайдеры в порядке меню
var Providers = []string{ProviderAuto, "openai", "anthropic", "grok", "gemini", "ollama"}

// ThemeFor — тотальное отображение: неизвестный провайдер получает тему auto.
func ThemeFor(provider string) Theme {
	if t, ok := themes[strings.ToLower(strings.TrimSpace(provider))]; ok {
		return t
	}
	return themes[ProviderAuto]
}

// SelectProvider: явно выбранный провайдер, иначе провайдер из результата, иначе auto.
func SelectProvider(selected, resultProvider string) string {
	selected = strings.ToLower(strings.TrimSpace(selected))
	if _, ok := themes[selected]; ok && selected != ProviderAuto {
		return selected
	}
	resultProvider = strings.ToLower(strings.TrimSpace(resultProvider))
	if _, ok := themes[resultProvider]; ok {
		return resultProvider
	}
	return ProviderAuto
}
