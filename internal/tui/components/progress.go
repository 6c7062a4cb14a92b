package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/IchaiWiz/chat-gpt-insight/internal/tui/theme"
)

// ShareBar renders a labeled bar showing a 0-1 share, used for
// per-model cost breakdowns.
func ShareBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active

	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	bar := progress.New(
		progress.WithSolidFill(string(t.Accent)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		" " + bar.ViewAs(pct) + " " +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}
