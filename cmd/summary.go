package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IchaiWiz/chat-gpt-insight/internal/cli"
	"github.com/IchaiWiz/chat-gpt-insight/internal/stats"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Corpus-wide usage overview",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	rc, err := loadEntries()
	if err != nil {
		return err
	}
	if len(rc.Entries) == 0 {
		fmt.Println("\n  No conversations found.")
		return nil
	}

	global := stats.Global(rc.Entries, rc.Prices)
	text := stats.Text(rc.Entries)

	var audioSecs float64
	for _, e := range rc.Entries {
		for _, m := range e.Messages {
			audioSecs += m.AdditionalInfo.AudioDuration
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CHATGPT USAGE SUMMARY"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Usage",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Conversations", cli.FormatNumber(int64(global.TotalConversations))},
			{"Input tokens", cli.FormatTokens(global.TotalTokensIn)},
			{"Output tokens", cli.FormatTokens(global.TotalTokensOut)},
			{"Estimated cost", cli.FormatCost(global.TotalCost)},
			{"Voice audio", cli.FormatDuration(int64(audioSecs))},
		},
	}))

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Text",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Words", cli.FormatNumber(text.TotalWords)},
			{"Sentences", cli.FormatNumber(text.TotalSentences)},
			{"Characters", cli.FormatNumber(text.TotalCharacters)},
			{"Tokens", cli.FormatNumber(text.TotalTokens)},
			{"Avg words / conversation", cli.FormatNumber(text.AverageWordsPerConversation)},
		},
	}))

	return nil
}
