// Package trigger exposes the feed compilation as an HTTP endpoint.
package trigger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ohler55/ojg/oj"
	"go.uber.org/zap"

	"github.com/agentic-research/microcopy/api"
	"github.com/agentic-research/microcopy/internal/flatten"
	"github.com/agentic-research/microcopy/internal/ingest"
	"github.com/agentic-research/microcopy/internal/writeback"
)

// maxBodyBytes bounds the trigger request body.
const maxBodyBytes = 1 << 20

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	// Source provides the entry graph. Nil means the backend is not
	// configured: requests are answered without running the pipeline.
	Source ingest.Source
	// Transformer compiles the graph. Nil means flatten.New("").
	Transformer *flatten.Transformer
	// Targets are the locales compiled on every run.
	Targets []string
	// Dispatcher receives the compiled feeds. Nil discards them.
	Dispatcher *writeback.Dispatcher
	// FetchTimeout bounds the backend fetch. Zero means no bound.
	FetchTimeout time.Duration
	// Logger is used for structured logging. If nil, logging is disabled.
	Logger *zap.Logger
	// Now returns the current time. If nil, time.Now is used.
	Now func() time.Time
}

// Handler runs the pipeline once per request and always answers with
// "Version: <version>".
type Handler struct {
	source      ingest.Source
	transformer *flatten.Transformer
	targets     []string
	dispatcher  *writeback.Dispatcher
	timeout     time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(config HandlerConfig) *Handler {
	transformer := config.Transformer
	if transformer == nil {
		transformer = flatten.New("")
	}
	targets := config.Targets
	if len(targets) == 0 {
		targets = []string{transformer.DefaultLocale()}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		source:      config.Source,
		transformer: transformer,
		targets:     targets,
		dispatcher:  config.Dispatcher,
		timeout:     config.FetchTimeout,
		logger:      logger,
		now:         now,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := h.logger.With(zap.String("request_id", requestID))

	version := h.version(r, logger)
	logger.Info("trigger received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("version", version),
	)

	ctx := writeback.WithRequestID(r.Context(), requestID)
	if _, err := h.Run(ctx, version); err != nil {
		logger.Error("pipeline failed", zap.String("version", version), zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Version: "+version)
}

// Run fetches the graph, compiles every target locale and hands the feeds to
// the dispatcher. It returns the compiled locales; nil means there was
// nothing to compile. Write-back happens in the background.
func (h *Handler) Run(ctx context.Context, version string) ([]api.LocaleContent, error) {
	if h.source == nil {
		h.logger.Debug("backend not configured, skipping")
		return nil, nil
	}

	fetchCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	g, err := h.source.Fetch(fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}

	out := h.transformer.Build(g, h.targets)
	if out == nil {
		h.logger.Warn("nothing to compile",
			zap.Int("entries", g.Len()),
			zap.Int("locales", len(g.Locales())),
		)
		return nil, nil
	}

	if h.dispatcher != nil {
		for _, lc := range out {
			h.dispatcher.Dispatch(ctx, api.Feed{Version: version, Locale: lc.Locale, Content: lc.Content})
		}
	}
	return out, nil
}

// version reads the optional {"version": ...} body. A missing, empty or
// zero version, or an unreadable body, yields the current Unix time in
// milliseconds.
func (h *Handler) version(r *http.Request, logger *zap.Logger) string {
	fallback := strconv.FormatInt(h.now().UnixMilli(), 10)
	if r.Body == nil {
		return fallback
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		logger.Warn("read request body", zap.Error(err))
		return fallback
	}
	if len(body) == 0 {
		return fallback
	}
	data, err := oj.Parse(body)
	if err != nil {
		logger.Debug("request body is not JSON", zap.Error(err))
		return fallback
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return fallback
	}
	if v, ok := formatVersion(obj["version"]); ok {
		return v
	}
	return fallback
}

func formatVersion(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case int64:
		return strconv.FormatInt(t, 10), t != 0
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), t != 0
	default:
		return "", false
	}
}
