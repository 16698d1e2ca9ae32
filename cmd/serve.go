package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/microcopy/internal/config"
	"github.com/agentic-research/microcopy/internal/flatten"
	"github.com/agentic-research/microcopy/internal/ingest"
	"github.com/agentic-research/microcopy/internal/trigger"
	"github.com/agentic-research/microcopy/internal/writeback"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP trigger",
	Long: `Starts the HTTP trigger. Every request to server.path (GET or POST) compiles the
feed of every target locale and hands it to the configured write-back sinks.
The optional JSON body {"version": ...} names the run; the response is
"Version: <version>".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Address = serveAddr
		}
		if err := cfg.Validate(); err != nil && !errors.Is(err, config.ErrNotConfigured) {
			return err
		}

		var source ingest.Source
		if cfg.Configured() {
			src, err := backendSource(cfg, logger)
			if err != nil {
				return err
			}
			source = src
		} else {
			logger.Warn("content backend not configured, requests will only echo the version")
		}

		sinkList, closeSinks, err := sinks(cfg, logger)
		if err != nil {
			return err
		}
		defer closeSinks()

		dispatcher := writeback.NewDispatcher(logger.Named("writeback"), cfg.GetRequestTimeout(), sinkList...)
		handler := trigger.NewHandler(trigger.HandlerConfig{
			Source:       source,
			Transformer:  flatten.New(cfg.Locales.Default),
			Targets:      cfg.TargetLocales(),
			Dispatcher:   dispatcher,
			FetchTimeout: cfg.GetRequestTimeout(),
			Logger:       logger.Named("trigger"),
		})
		server, err := trigger.NewServer(trigger.ServerConfig{
			Address:         cfg.Server.Address,
			Handler:         trigger.Routes(cfg.Server.Path, handler),
			Dispatcher:      dispatcher,
			ShutdownTimeout: cfg.GetShutdownTimeout(),
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		names := make([]string, 0, len(sinkList))
		for _, s := range dispatcher.Sinks() {
			names = append(names, s.Name())
		}
		logger.Info("starting trigger",
			zap.String("path", cfg.Server.Path),
			zap.Strings("locales", cfg.TargetLocales()),
			zap.Strings("sinks", names),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.address)")
	rootCmd.AddCommand(serveCmd)
}
