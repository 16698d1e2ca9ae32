package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/microcopy/api"
	"github.com/agentic-research/microcopy/internal/config"
	"github.com/agentic-research/microcopy/internal/flatten"
	"github.com/agentic-research/microcopy/internal/ingest"
	"github.com/agentic-research/microcopy/internal/writeback"
)

// buildOptions are the inputs of one offline build.
type buildOptions struct {
	SyncPath    string
	LocalesPath string
	OutDir      string
	Version     string
	Locales     []string
	Record      bool // append to the history database
}

var buildOpts buildOptions

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the per-locale feeds into a directory",
	Long: `Compiles every target locale once and writes <locale>.json files into the
output directory. Payloads are read from --sync and --locales when given,
otherwise fetched from the content backend. Nothing is published.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context(), cmd.OutOrStdout(), cfg, logger, buildOpts)
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildOpts.SyncPath, "sync", "", "Sync payload file (JSON)")
	buildCmd.Flags().StringVar(&buildOpts.LocalesPath, "locales", "", "Locale listing file (JSON)")
	buildCmd.Flags().StringVarP(&buildOpts.OutDir, "out", "o", "", "Output directory (default output.dir or ./dist)")
	buildCmd.Flags().StringVar(&buildOpts.Version, "version", "", "Version stamp (default current time in ms)")
	buildCmd.Flags().StringSliceVarP(&buildOpts.Locales, "locale", "l", nil, "Target locales (default locales.targets)")
	buildCmd.Flags().BoolVar(&buildOpts.Record, "record", false, "Also record the feeds in the history database")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(ctx context.Context, out io.Writer, c *config.Config, log *zap.Logger, opts buildOptions) error {
	source, err := buildSource(c, log, opts)
	if err != nil {
		return err
	}

	start := time.Now()
	g, err := source.Fetch(ctx)
	if err != nil {
		return err
	}

	targets := opts.Locales
	if len(targets) == 0 {
		targets = c.TargetLocales()
	}
	feeds := flatten.New(c.Locales.Default).Build(g, targets)
	if feeds == nil {
		return fmt.Errorf("nothing to compile: %d entries, %d locales, no delivery channel or no locales",
			g.Len(), len(g.Locales()))
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = c.Output.Dir
	}
	if outDir == "" {
		outDir = "dist"
	}
	sinkList := []writeback.Sink{writeback.NewDirSink(outDir)}
	if opts.Record && c.Output.HistoryDB != "" {
		history, err := writeback.OpenHistory(c.Output.HistoryDB)
		if err != nil {
			return err
		}
		defer func() { _ = history.Close() }()
		sinkList = append(sinkList, history)
	}

	version := opts.Version
	if version == "" {
		version = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	for _, lc := range feeds {
		feed := api.Feed{Version: version, Locale: lc.Locale, Content: lc.Content}
		for _, sink := range sinkList {
			if err := sink.Write(ctx, feed); err != nil {
				return fmt.Errorf("%s sink: %w", sink.Name(), err)
			}
		}
		fmt.Fprintf(out, "%s\t%d keys\t%s\n", lc.Locale, len(lc.Content), writeback.FileName(lc.Locale))
	}
	log.Info("build done",
		zap.String("out", outDir),
		zap.String("version", version),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func buildSource(c *config.Config, log *zap.Logger, opts buildOptions) (ingest.Source, error) {
	switch {
	case opts.SyncPath != "" && opts.LocalesPath != "":
		return &ingest.FileSource{
			SyncPath:    opts.SyncPath,
			LocalesPath: opts.LocalesPath,
			Engine:      ingest.NewEngine(log.Named("ingest")),
		}, nil
	case opts.SyncPath != "" || opts.LocalesPath != "":
		return nil, fmt.Errorf("--sync and --locales must be given together")
	case c.Configured():
		return backendSource(c, log)
	default:
		return nil, fmt.Errorf("no payload files given: %w", config.ErrNotConfigured)
	}
}
