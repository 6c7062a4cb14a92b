// Package tui implements the interactive dashboard.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/IchaiWiz/chat-gpt-insight/internal/cli"
	"github.com/IchaiWiz/chat-gpt-insight/internal/config"
	"github.com/IchaiWiz/chat-gpt-insight/internal/model"
	"github.com/IchaiWiz/chat-gpt-insight/internal/pricing"
	"github.com/IchaiWiz/chat-gpt-insight/internal/stats"
	"github.com/IchaiWiz/chat-gpt-insight/internal/tui/components"
	"github.com/IchaiWiz/chat-gpt-insight/internal/tui/theme"
)

const (
	tabOverview = iota
	tabCosts
	tabConversations
	tabSettings
)

// LoadFunc produces the flattened dataset, typically backed by the
// cache-aware pipeline. It runs off the UI goroutine.
type LoadFunc func() ([]model.ConversationEntry, error)

type dataMsg struct {
	entries []model.ConversationEntry
	err     error
}

// App is the bubbletea model for the dashboard.
type App struct {
	cfg    config.Config
	prices *pricing.Table
	load   LoadFunc
	period stats.Period

	width  int
	height int

	loading bool
	spin    spinner.Model
	loadErr error

	activeTab int
	selected  int // conversations tab cursor
	scroll    int

	entries []model.ConversationEntry
	global  model.GlobalStats
	text    model.TextStats
	costs   model.CostStats
}

// New builds the dashboard around a load function.
func New(cfg config.Config, prices *pricing.Table, period stats.Period, load LoadFunc) *App {
	theme.SetActive(cfg.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return &App{
		cfg:     cfg,
		prices:  prices,
		load:    load,
		period:  period,
		loading: true,
		spin:    sp,
	}
}

// Run starts the dashboard and blocks until it exits.
func Run(cfg config.Config, prices *pricing.Table, period stats.Period, load LoadFunc) error {
	p := tea.NewProgram(New(cfg, prices, period, load), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.loadCmd())
}

func (a *App) loadCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := a.load()
		return dataMsg{entries: entries, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case dataMsg:
		a.loading = false
		if msg.err != nil {
			a.loadErr = msg.err
			return a, nil
		}
		a.entries = msg.entries
		a.global = stats.Global(a.entries, a.prices)
		a.text = stats.Text(a.entries)
		a.costs = stats.CostsOverTime(a.entries, a.prices, a.period)
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "tab", "right", "l":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab", "left", "h":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "up", "k":
		if a.activeTab == tabConversations && a.selected > 0 {
			a.selected--
			if a.selected < a.scroll {
				a.scroll = a.selected
			}
		}
		return a, nil
	case "down", "j":
		if a.activeTab == tabConversations && a.selected < len(a.entries)-1 {
			a.selected++
			if a.selected >= a.scroll+a.listHeight() {
				a.scroll = a.selected - a.listHeight() + 1
			}
		}
		return a, nil
	case "r":
		if !a.loading {
			a.loading = true
			a.loadErr = nil
			return a, tea.Batch(a.spin.Tick, a.loadCmd())
		}
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a *App) listHeight() int {
	h := a.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

func (a *App) View() string {
	t := theme.Active

	if a.loading {
		return fmt.Sprintf("\n\n   %s Processing archive...\n", a.spin.View())
	}
	if a.loadErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(t.Red)
		return fmt.Sprintf("\n\n   %s\n\n   [q]uit  [r]etry\n", errStyle.Render(a.loadErr.Error()))
	}

	header := components.RenderTabBar(a.activeTab, a.width)

	var body string
	switch a.activeTab {
	case tabOverview:
		body = a.viewOverview()
	case tabCosts:
		body = a.viewCosts()
	case tabConversations:
		body = a.viewConversations()
	case tabSettings:
		body = a.viewSettings()
	}

	status := components.RenderStatusBar(a.width, fmt.Sprintf("%d conversations", len(a.entries)))

	return header + "\n\n" + body + "\n" + status
}

func (a *App) viewOverview() string {
	width := a.width - 2
	if width < 40 {
		width = 40
	}

	cards := components.MetricCardRow([]struct{ Label, Value, Delta string }{
		{"Conversations", cli.FormatNumber(int64(a.global.TotalConversations)), ""},
		{"Input Tokens", cli.FormatTokens(a.global.TotalTokensIn), ""},
		{"Output Tokens", cli.FormatTokens(a.global.TotalTokensOut), ""},
		{"Est. Cost", cli.FormatCost(a.global.TotalCost), ""},
	}, width)

	textBody := fmt.Sprintf("Words      %s\nSentences  %s\nCharacters %s\nAvg words/conv %s",
		cli.FormatNumber(a.text.TotalWords),
		cli.FormatNumber(a.text.TotalSentences),
		cli.FormatNumber(a.text.TotalCharacters),
		cli.FormatNumber(a.text.AverageWordsPerConversation),
	)
	textCard := components.ContentCard("Text Metrics", textBody, width/2)

	chart := ""
	if n := len(a.costs.CostsOverTime); n > 0 {
		values := make([]float64, 0, n)
		labels := make([]string, 0, n)
		for _, cp := range a.costs.CostsOverTime {
			values = append(values, cp.TotalCost)
			labels = append(labels, cp.Period)
		}
		chart = components.ContentCard(
			fmt.Sprintf("Cost Over Time (%s)", a.period),
			components.BarChart(values, labels, theme.Active.Accent, components.CardInnerWidth(width/2), 8),
			width-width/2,
		)
	}

	return cards + "\n" + components.CardRow([]string{textCard, chart})
}

func (a *App) viewCosts() string {
	width := a.width - 2
	if width < 40 {
		width = 40
	}

	labelW := 0
	for slug := range a.costs.CostsByModel {
		if len(slug) > labelW {
			labelW = len(slug)
		}
	}

	body := ""
	total := a.costs.TotalCost
	for slug, mc := range a.costs.CostsByModel {
		share := 0.0
		if total > 0 {
			share = mc.TotalCost / total
		}
		body += components.ShareBar(slug, share, labelW, 24) +
			"  " + cli.FormatCost(mc.TotalCost) + "\n"
	}
	if body == "" {
		body = "No cost data."
	}

	imageBody := ""
	for recipient, cost := range a.costs.CostsByImage {
		imageBody += fmt.Sprintf("%s  %s\n", recipient, cli.FormatCost(cost))
	}

	out := components.ContentCard(
		fmt.Sprintf("Costs By Model  (total %s)", cli.FormatCost(total)), body, width)
	if imageBody != "" {
		out += "\n" + components.ContentCard("Image Generation", imageBody, width)
	}
	return out
}

func (a *App) viewConversations() string {
	t := theme.Active
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	if len(a.entries) == 0 {
		return "  No conversations."
	}

	height := a.listHeight()
	end := a.scroll + height
	if end > len(a.entries) {
		end = len(a.entries)
	}

	out := ""
	for i := a.scroll; i < end; i++ {
		e := a.entries[i]
		date := ""
		if created, ok := e.CreatedAt(); ok {
			date = created.Format("2006-01-02")
		}
		line := fmt.Sprintf(" %-10s  %-40.40s  %4d msgs  %s",
			date, e.Title, len(e.Messages), cli.FormatCost(e.TotalCost))
		if i == a.selected {
			out += selStyle.Render(line) + "\n"
		} else {
			out += rowStyle.Render(line) + "\n"
		}
	}

	e := a.entries[a.selected]
	detail := fmt.Sprintf("model %s | user %d | assistant %d | tool %d | in %s | out %s",
		orUnknown(e.DominantModel),
		e.UserMessageCount, e.AssistantMessageCount, e.ToolMessageCount,
		cli.FormatTokens(e.InputTokens), cli.FormatTokens(e.OutputTokens))
	out += "\n" + rowStyle.Render(" "+detail)
	return out
}

func (a *App) viewSettings() string {
	width := a.width - 2
	if width < 40 {
		width = 40
	}

	body := fmt.Sprintf("Config     %s\nArchive    %s\nPrices     %s\nTheme      %s\nPeriod     %s\n\nEdit with `gptinsight setup`.",
		config.ConfigPath(),
		orUnknown(a.cfg.General.ArchivePath),
		orDefault(a.cfg.General.PriceFile, "built-in"),
		theme.Active.Name,
		a.period,
	)
	return components.ContentCard("Settings", body, width)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
