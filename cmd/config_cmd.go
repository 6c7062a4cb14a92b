package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/IchaiWiz/chat-gpt-insight/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println(config.ConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if !config.Exists() {
		fmt.Printf("# no config file at %s, showing defaults\n", config.ConfigPath())
	}
	return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
}
