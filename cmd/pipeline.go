package cmd

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/agentic-research/microcopy/internal/config"
	"github.com/agentic-research/microcopy/internal/contentful"
	"github.com/agentic-research/microcopy/internal/ingest"
	"github.com/agentic-research/microcopy/internal/writeback"
)

// backendSource builds the delivery-backed graph source.
func backendSource(c *config.Config, log *zap.Logger) (*ingest.BackendSource, error) {
	client, err := contentful.NewDeliveryClient(contentful.ClientConfig{
		Host:        c.Contentful.Host,
		Space:       c.Contentful.Space,
		Environment: c.Contentful.Environment,
		Token:       c.Contentful.AccessToken,
		HTTPClient:  &http.Client{Timeout: c.GetRequestTimeout()},
		Logger:      log.Named("delivery"),
	})
	if err != nil {
		return nil, err
	}
	return ingest.NewBackendSource(client, ingest.NewEngine(log.Named("ingest"))), nil
}

// sinks opens every write-back destination the config enables. The returned
// close function releases them.
func sinks(c *config.Config, log *zap.Logger) ([]writeback.Sink, func(), error) {
	var (
		out     []writeback.Sink
		closers []func() error
	)
	closeAll := func() {
		for _, fn := range closers {
			if err := fn(); err != nil {
				log.Warn("closing sink", zap.Error(err))
			}
		}
	}

	if c.ManagementEnabled() {
		client, err := contentful.NewManagementClient(contentful.ClientConfig{
			Host:        c.Contentful.ManagementHost,
			Space:       c.Contentful.Space,
			Environment: c.Contentful.Environment,
			Token:       c.Contentful.ManagementToken,
			HTTPClient:  &http.Client{Timeout: c.GetRequestTimeout()},
			Logger:      log.Named("management"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("management client: %w", err)
		}
		out = append(out, writeback.NewManagementSink(client, c.Contentful.TargetEntry, c.Locales.Default, log.Named("management")))
	} else if c.Configured() {
		log.Warn("no management token, publishing to the target record is disabled")
	}

	if c.Output.Dir != "" {
		out = append(out, writeback.NewDirSink(c.Output.Dir))
	}

	if c.Output.HistoryDB != "" {
		history, err := writeback.OpenHistory(c.Output.HistoryDB)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, history.Close)
		out = append(out, history)
	}

	return out, closeAll, nil
}
