package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/streamly/internal/catalog"
)

var updatesCmd = &cobra.Command{
	Use:   "updates [keyword]",
	Short: "Look up an update by keyword, or list the latest highlights",
	Long: `With a keyword, prints the first update whose title or description
contains it. Without one, prints the highlight entries.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdates,
}

func init() {
	updatesCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(updatesCmd)
}

type updatesOutput struct {
	Keyword string           `json:"keyword,omitempty"`
	Content string           `json:"content"`
	Match   *catalog.Located `json:"match,omitempty"`
}

func runUpdates(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc := catalog.Load(cfg.UpdatesFile)

	var result updatesOutput
	if len(args) == 1 {
		result.Keyword = args[0]
		result.Content = catalog.Lookup(args[0], doc)
		if loc, ok := catalog.Find(args[0], doc); ok {
			result.Match = &loc
		}
	} else {
		result.Content = catalog.SummarizeHighlightsFor(doc, cfg.Assistant.Framework)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintln(out, result.Content)
	return nil
}
