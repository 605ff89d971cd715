package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/samber/do"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/streamly/internal/assistant"
	"github.com/ziadkadry99/streamly/internal/config"
	"github.com/ziadkadry99/streamly/internal/conversation"
	"github.com/ziadkadry99/streamly/internal/llm"
	"github.com/ziadkadry99/streamly/internal/progress"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long: `Starts an interactive conversation. Type "exit" or press Ctrl-C to quit.
Type "/history" to reprint the recent conversation and "/latest" to show
the newest highlights.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	di, err := setup()
	if err != nil {
		return err
	}
	defer shutdown(di)

	cfg := do.MustInvoke[*config.Config](di)
	manager, err := do.Invoke[*assistant.Manager](di)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sess := manager.Create()
	defer manager.End(sess.ID())

	name := cfg.Assistant.Name
	fmt.Fprintf(out, "%s: %s\n\n", name, sess.Greeting())

	waiter := progress.NewWaiter(os.Stderr)
	prompt := promptui.Prompt{Label: "You"}

	for {
		input, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		switch strings.TrimSpace(strings.ToLower(input)) {
		case "exit", "quit":
			return nil
		case "/history":
			printTurns(out, name, sess.DisplayTail(cfg.Assistant.DisplayWindow))
			continue
		case "/latest":
			fmt.Fprintf(out, "%s: %s\n\n", name, sess.LatestUpdates())
			continue
		}

		waiter.Start("Thinking...")
		turns, err := sess.SubmitUtterance(cmd.Context(), input)
		waiter.Stop()

		var pe *llm.ProviderError
		switch {
		case errors.Is(err, assistant.ErrEmptyUtterance):
			continue
		case errors.As(err, &pe):
			fmt.Fprintf(out, "%s\n\n", pe.UserMessage())
			continue
		case err != nil:
			return err
		}

		if len(turns) > 0 {
			printTurns(out, name, turns[len(turns)-1:])
		}
	}
}

func printTurns(w io.Writer, name string, turns []conversation.Turn) {
	for _, t := range turns {
		speaker := "You"
		if t.Role == conversation.RoleAssistant {
			speaker = name
		}
		fmt.Fprintf(w, "%s: %s\n\n", speaker, t.Content)
	}
}
