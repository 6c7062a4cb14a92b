package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IchaiWiz/chat-gpt-insight/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats [statistic...]",
	Short: "Run one or more named statistics over the archive",
	Long: "Computes the requested statistics and prints them as JSON. With no arguments\n" +
		"every statistic runs. Available: " + joinNames(),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func joinNames() string {
	out := ""
	for i, n := range stats.Names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// period resolves the bucketing granularity from the flag, the config
// default, then monthly.
func period(defaultPeriod string) (stats.Period, error) {
	name := flagPeriod
	if name == "" {
		name = defaultPeriod
	}
	if name == "" {
		name = string(stats.PeriodMonthly)
	}
	if i := strings.IndexByte(name, ','); i >= 0 {
		name = name[:i]
	}
	return stats.ParsePeriod(name)
}

// periodList resolves --period as a comma-separated list, so the stats
// command can bucket the same report several ways in one run.
func periodList(defaultPeriod string) ([]stats.Period, error) {
	raw := flagPeriod
	if raw == "" {
		raw = defaultPeriod
	}
	if raw == "" {
		raw = string(stats.PeriodMonthly)
	}

	var out []stats.Period
	for _, name := range strings.Split(raw, ",") {
		p, err := stats.ParsePeriod(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// periodDependent reports whether a statistic's result changes with the
// bucketing granularity.
func periodDependent(name string) bool {
	switch name {
	case stats.StatText, stats.StatGlobal:
		return false
	}
	return true
}

func runStats(_ *cobra.Command, args []string) error {
	rc, err := loadEntries()
	if err != nil {
		return err
	}

	periods, err := periodList(rc.Config.Analysis.DefaultPeriod)
	if err != nil {
		return err
	}
	start, end, err := dateRange()
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = stats.Names
	}

	opts := stats.Options{
		Prices:    rc.Prices,
		StartDate: start,
		EndDate:   end,
	}

	// One statistic failing must not abort the rest.
	results := make(map[string]any, len(names))
	failed := 0
	for _, name := range names {
		opts.Period = periods[0]
		if !periodDependent(name) || len(periods) == 1 {
			result, err := stats.Compute(name, rc.Entries, opts)
			if err != nil {
				failed++
				slog.Error("statistic failed", "stat", name, "error", err)
				fmt.Fprintf(os.Stderr, "  %s: %v\n", name, err)
				continue
			}
			results[name] = result
			continue
		}

		// Several granularities requested: nest by period name.
		byPeriod := make(map[string]any, len(periods))
		for _, p := range periods {
			opts.Period = p
			result, err := stats.Compute(name, rc.Entries, opts)
			if err != nil {
				failed++
				slog.Error("statistic failed", "stat", name, "period", p, "error", err)
				fmt.Fprintf(os.Stderr, "  %s (%s): %v\n", name, p, err)
				continue
			}
			byPeriod[string(p)] = result
		}
		if len(byPeriod) > 0 {
			results[name] = byPeriod
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d statistic computations failed", failed)
	}
	return nil
}
