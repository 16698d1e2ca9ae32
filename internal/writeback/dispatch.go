// Package writeback delivers compiled feeds to their destinations: the
// backend target record, a directory of per-locale JSON files and a SQLite
// history of every run.
package writeback

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agentic-research/microcopy/api"
)

// Sink receives compiled feeds.
type Sink interface {
	Name() string
	Write(ctx context.Context, feed api.Feed) error
}

// LocaleFilter is implemented by sinks that only want some locales.
type LocaleFilter interface {
	Wants(locale string) bool
}

// DefaultWriteTimeout bounds a single sink write.
const DefaultWriteTimeout = 60 * time.Second

// Dispatcher fans feeds out to sinks without blocking the caller. A failing
// sink is logged and never affects the other sinks or the caller.
type Dispatcher struct {
	sinks   []Sink
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher. A nil logger disables logging and a
// zero timeout means DefaultWriteTimeout.
func NewDispatcher(logger *zap.Logger, timeout time.Duration, sinks ...Sink) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return &Dispatcher{sinks: sinks, logger: logger, timeout: timeout}
}

// Sinks returns the configured sinks.
func (d *Dispatcher) Sinks() []Sink {
	return d.sinks
}

// Dispatch starts one write per interested sink and returns immediately.
// Writes outlive ctx's cancellation but keep its values.
func (d *Dispatcher) Dispatch(ctx context.Context, feed api.Feed) {
	detached := context.WithoutCancel(ctx)
	for _, sink := range d.sinks {
		if f, ok := sink.(LocaleFilter); ok && !f.Wants(feed.Locale) {
			continue
		}
		d.wg.Add(1)
		go d.write(detached, sink, feed)
	}
}

func (d *Dispatcher) write(ctx context.Context, sink Sink, feed api.Feed) {
	defer d.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	fields := []zap.Field{
		zap.String("sink", sink.Name()),
		zap.String("locale", feed.Locale),
		zap.String("version", feed.Version),
	}
	if id, ok := RequestID(ctx); ok {
		fields = append(fields, zap.String("request_id", id))
	}

	start := time.Now()
	if err := sink.Write(ctx, feed); err != nil {
		d.logger.Error("write-back failed", append(fields, zap.Error(err))...)
		return
	}
	d.logger.Info("write-back done", append(fields, zap.Duration("elapsed", time.Since(start)))...)
}

// Wait blocks until every dispatched write has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

type requestIDKey struct{}

// WithRequestID tags ctx so write-back logs can be correlated with the
// request that triggered them.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
