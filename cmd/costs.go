package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/IchaiWiz/chat-gpt-insight/internal/cli"
	"github.com/IchaiWiz/chat-gpt-insight/internal/stats"
)

var costsCmd = &cobra.Command{
	Use:   "costs",
	Short: "Cost breakdown by model, image use, and period",
	RunE:  runCosts,
}

func init() {
	rootCmd.AddCommand(costsCmd)
}

func runCosts(_ *cobra.Command, _ []string) error {
	rc, err := loadEntries()
	if err != nil {
		return err
	}
	if len(rc.Entries) == 0 {
		fmt.Println("\n  No conversations found.")
		return nil
	}

	p, err := period(rc.Config.Analysis.DefaultPeriod)
	if err != nil {
		return err
	}
	start, end, err := dateRange()
	if err != nil {
		return err
	}

	cs := stats.CombinedCosts(rc.Entries, rc.Prices, p, start, end)

	fmt.Println()
	title := "COST BREAKDOWN"
	if flagStart != "" || flagEnd != "" {
		title = fmt.Sprintf("COST BREAKDOWN  %s .. %s", orAny(flagStart), orAny(flagEnd))
	}
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	// By model, highest spend first
	type modelRow struct {
		slug string
		cost float64
	}
	models := make([]modelRow, 0, len(cs.CostsByModel))
	for slug, mc := range cs.CostsByModel {
		models = append(models, modelRow{slug, mc.TotalCost})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].cost > models[j].cost })

	modelRows := make([][]string, 0, len(models)+2)
	for _, m := range models {
		mc := cs.CostsByModel[m.slug]
		modelRows = append(modelRows, []string{
			m.slug,
			cli.FormatCost(mc.InputCost),
			cli.FormatCost(mc.OutputCost),
			cli.FormatTokens(mc.TotalTokens),
			cli.FormatCost(mc.TotalCost),
		})
	}
	modelRows = append(modelRows, []string{"---"})
	modelRows = append(modelRows, []string{"TOTAL", "", "", "", cli.FormatCost(cs.TotalCost)})

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Model",
		Headers: []string{"Model", "Input", "Output", "Tokens", "Total"},
		Rows:    modelRows,
	}))

	if len(models) > 0 && models[0].cost > 0 && cs.TotalCost > 0 {
		fmt.Println()
		for _, m := range models {
			bar := cli.RenderHorizontalBar(m.slug, m.cost, models[0].cost, 30)
			fmt.Printf("%s %s\n", bar, cli.FormatPercent(m.cost/cs.TotalCost))
		}
		fmt.Println()
	}

	if len(cs.CostsByImage) > 0 {
		imageRows := make([][]string, 0, len(cs.CostsByImage))
		for recipient, cost := range cs.CostsByImage {
			imageRows = append(imageRows, []string{recipient, cli.FormatCost(cost)})
		}
		sort.Slice(imageRows, func(i, j int) bool { return imageRows[i][0] < imageRows[j][0] })
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Image Generation",
			Headers: []string{"Recipient", "Cost"},
			Rows:    imageRows,
		}))
	}

	// Over time with a sparkline of total cost per bucket
	if len(cs.CostsOverTime) > 0 {
		timeRows := make([][]string, 0, len(cs.CostsOverTime))
		values := make([]float64, 0, len(cs.CostsOverTime))
		for _, cp := range cs.CostsOverTime {
			timeRows = append(timeRows, []string{
				cp.Period,
				cli.FormatCost(cp.InputCost),
				cli.FormatCost(cp.OutputCost),
				cli.FormatCost(cp.TotalCost),
			})
			values = append(values, cp.TotalCost)
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("Over Time (%s)", p),
			Headers: []string{"Period", "Input", "Output", "Total"},
			Rows:    timeRows,
		}))
		fmt.Printf("  Trend: %s\n\n", cli.RenderSparkline(values))
	}

	return nil
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}
