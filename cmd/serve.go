package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/streamly/internal/assistant"
	"github.com/ziadkadry99/streamly/internal/config"
	"github.com/ziadkadry99/streamly/internal/server"
	"github.com/ziadkadry99/streamly/internal/usage"
)

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket chat server",
	Long:  `Serves the assistant over a REST API and a WebSocket chat endpoint, together with the updates catalog and the usage ledger.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		store, err := usageStore(di)
		if err != nil {
			return err
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, manager, store)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			slog.Info("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("Server shutdown failed", "error", err)
			}
		}()

		slog.Info("streamly server starting",
			"version", Version,
			"port", port,
			"updates", cfg.UpdatesFile,
			"entries", len(manager.Document().Entries()),
			"usage_ledger", ledgerPath(cfg, store))

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	},
}

func ledgerPath(cfg *config.Config, store *usage.Store) string {
	if store == nil {
		return "disabled"
	}
	return cfg.Storage.Path
}

func init() {
	serveCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
