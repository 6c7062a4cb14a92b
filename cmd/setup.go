package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/IchaiWiz/chat-gpt-insight/internal/config"
	"github.com/IchaiWiz/chat-gpt-insight/internal/stats"
	"github.com/IchaiWiz/chat-gpt-insight/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	archivePath := cfg.General.ArchivePath
	priceFile := cfg.General.PriceFile
	showText := cfg.Analysis.ShowMessageText
	defaultPeriod := cfg.Analysis.DefaultPeriod
	themeName := cfg.Appearance.Theme

	periodOptions := make([]huh.Option[string], 0, len(stats.Periods))
	for _, p := range stats.Periods {
		periodOptions = append(periodOptions, huh.NewOption(string(p), string(p)))
	}
	themeOptions := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOptions = append(themeOptions, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Conversation archive").
				Description("Path to the conversations.json file from your ChatGPT export").
				Value(&archivePath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("archive path is required")
					}
					if _, err := os.Stat(s); err != nil {
						return fmt.Errorf("cannot read %s", s)
					}
					return nil
				}),
			huh.NewInput().
				Title("Price table (optional)").
				Description("JSON file with per-model token rates; leave empty for defaults").
				Value(&priceFile),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Keep message text?").
				Description("Stores text and transcriptions in the flattened output").
				Value(&showText),
			huh.NewSelect[string]().
				Title("Default period").
				Options(periodOptions...).
				Value(&defaultPeriod),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOptions...).
				Value(&themeName),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.General.ArchivePath = archivePath
	cfg.General.PriceFile = priceFile
	cfg.Analysis.ShowMessageText = showText
	cfg.Analysis.DefaultPeriod = defaultPeriod
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Printf("\n  Saved %s\n", config.ConfigPath())
	return nil
}
