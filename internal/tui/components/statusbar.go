package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/IchaiWiz/chat-gpt-insight/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, archiveInfo string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [tab]switch  [q]uit"
	right := ""
	if archiveInfo != "" {
		right = fmt.Sprintf("Archive: %s ", archiveInfo)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	bar := left
	for i := 0; i < padding; i++ {
		bar += " "
	}
	bar += right

	return style.Render(bar)
}
