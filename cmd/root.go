package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/streamly/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "streamly",
	Short: "Conversational assistant for Streamlit feature updates",
	Long: `Streamly answers questions about Streamlit. Requests for the latest
updates are answered straight from a local updates document; everything
else is delegated to a configured language-model provider with the full
conversation as context.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
