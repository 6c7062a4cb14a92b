package cmd

import (
	"github.com/spf13/cobra"

	"github.com/IchaiWiz/chat-gpt-insight/internal/config"
	"github.com/IchaiWiz/chat-gpt-insight/internal/model"
	"github.com/IchaiWiz/chat-gpt-insight/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// The dashboard owns the terminal; loading happens behind its
	// spinner instead of the usual stderr progress.
	flagQuiet = true

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	prices, err := loadPrices(cfg)
	if err != nil {
		return err
	}
	p, err := period(cfg.Analysis.DefaultPeriod)
	if err != nil {
		return err
	}

	return tui.Run(cfg, prices, p, func() ([]model.ConversationEntry, error) {
		rc, err := loadEntries()
		if err != nil {
			return nil, err
		}
		return rc.Entries, nil
	})
}
