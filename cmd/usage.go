package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/samber/do"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/streamly/internal/config"
	"github.com/ziadkadry99/streamly/internal/usage"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show the exchange ledger: totals, tokens and estimated cost",
	RunE:  runUsage,
}

func init() {
	usageCmd.Flags().Int("limit", 10, "number of recent exchanges to list")
	usageCmd.Flags().String("path", "", "filter recent exchanges by path: direct, delegated")
	usageCmd.Flags().String("session", "", "filter recent exchanges by session id")
	usageCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(usageCmd)
}

type usageOutput struct {
	Summary usage.Summary    `json:"summary"`
	Recent  []usage.Exchange `json:"recent"`
}

func runUsage(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	pathFilter, _ := cmd.Flags().GetString("path")
	sessionFilter, _ := cmd.Flags().GetString("session")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	di, err := setup()
	if err != nil {
		return err
	}
	defer shutdown(di)

	store, err := usageStore(di)
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintf(os.Stderr, "Usage ledger is disabled (storage.disabled in %s).\n", cfgFile)
		return nil
	}

	ctx := cmd.Context()
	sum, err := store.Summary(ctx)
	if err != nil {
		return err
	}
	recent, err := store.Recent(ctx, usage.QueryFilter{
		SessionID: sessionFilter,
		Path:      pathFilter,
		Limit:     limit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(usageOutput{Summary: sum, Recent: recent})
	}

	cfg := do.MustInvoke[*config.Config](di)
	fmt.Fprintf(out, "Ledger: %s\n\n", cfg.Storage.Path)
	fmt.Fprintf(out, "  Exchanges:     %d (%d direct, %d delegated, %d failed)\n",
		sum.Exchanges, sum.Direct, sum.Delegated, sum.Failed)
	fmt.Fprintf(out, "  Input tokens:  %d\n", sum.InputTokens)
	fmt.Fprintf(out, "  Output tokens: %d\n", sum.OutputTokens)
	fmt.Fprintf(out, "  Est. cost:     $%.4f\n", sum.CostUSD)

	if len(recent) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSESSION\tPATH\tMODEL\tTOKENS\tLATENCY\tERROR")
	for _, e := range recent {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%dms\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			shortID(e.SessionID), e.Path, e.Model,
			e.InputTokens, e.OutputTokens, e.LatencyMS, e.Error)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
