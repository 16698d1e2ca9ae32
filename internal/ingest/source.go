package ingest

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/agentic-research/microcopy/internal/graph"
)

// DeliveryAPI is the read side of the content backend.
type DeliveryAPI interface {
	// Sync returns the initial sync payload.
	Sync(ctx context.Context) ([]byte, error)
	// Locales returns the locale listing payload.
	Locales(ctx context.Context) ([]byte, error)
}

// BackendSource fetches the entry graph from the content backend. The sync
// and locale reads run concurrently.
type BackendSource struct {
	API    DeliveryAPI
	Engine *Engine
}

func NewBackendSource(api DeliveryAPI, engine *Engine) *BackendSource {
	return &BackendSource{API: api, Engine: engine}
}

// Fetch implements Source.
func (s *BackendSource) Fetch(ctx context.Context) (*graph.Graph, error) {
	var syncPayload, localePayload []byte

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		syncPayload, err = s.API.Sync(egCtx)
		if err != nil {
			return fmt.Errorf("sync entries: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		localePayload, err = s.API.Locales(egCtx)
		if err != nil {
			return fmt.Errorf("list locales: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return s.Engine.Build(syncPayload, localePayload)
}

// FileSource reads previously exported payloads from disk.
type FileSource struct {
	SyncPath    string
	LocalesPath string
	Engine      *Engine
}

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context) (*graph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	syncPayload, err := os.ReadFile(s.SyncPath)
	if err != nil {
		return nil, fmt.Errorf("read sync payload: %w", err)
	}
	localePayload, err := os.ReadFile(s.LocalesPath)
	if err != nil {
		return nil, fmt.Errorf("read locale payload: %w", err)
	}
	return s.Engine.Build(syncPayload, localePayload)
}
