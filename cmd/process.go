package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagProcessOutput string

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Flatten the archive into structured JSON",
	Long: "Reads the conversation export, resolves every message, prices it, and\n" +
		"writes the flattened dataset as JSON.",
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&flagProcessOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(processCmd)
}

func runProcess(_ *cobra.Command, _ []string) error {
	rc, err := loadEntries()
	if err != nil {
		return err
	}

	out := os.Stdout
	if flagProcessOutput != "" {
		f, err := os.Create(flagProcessOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rc.Entries); err != nil {
		return fmt.Errorf("writing structured data: %w", err)
	}

	if flagProcessOutput != "" && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %d conversations to %s\n", len(rc.Entries), flagProcessOutput)
	}
	return nil
}
