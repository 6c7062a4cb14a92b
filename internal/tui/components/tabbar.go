package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/IchaiWiz/chat-gpt-insight/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Costs", Key: 'c', KeyPos: 0},
	{Name: "Conversations", Key: 'v', KeyPos: 3},
	{Name: "Settings", Key: 's', KeyPos: 0},
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	dimKeyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	var parts []string
	for i, tab := range Tabs {
		var rendered string
		if i == activeIdx {
			rendered = activeStyle.Render(tab.Name)
		} else if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
			before := tab.Name[:tab.KeyPos]
			key := string(tab.Name[tab.KeyPos])
			after := tab.Name[tab.KeyPos+1:]
			rendered = inactiveStyle.Render(before) +
				dimKeyStyle.Render("[") + keyStyle.Render(key) + dimKeyStyle.Render("]") +
				inactiveStyle.Render(after)
		} else {
			rendered = inactiveStyle.Render(tab.Name) +
				dimKeyStyle.Render("[") + keyStyle.Render(string(tab.Key)) + dimKeyStyle.Render("]")
		}
		parts = append(parts, rendered)
	}

	return " " + strings.Join(parts, "  ")
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
