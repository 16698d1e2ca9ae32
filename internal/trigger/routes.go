package trigger

import (
	"io"
	"net/http"
)

// DefaultPath is the route the trigger is mounted on when none is configured.
const DefaultPath = "/api/trigger"

// HealthPath answers liveness probes without running the pipeline.
const HealthPath = "/healthz"

// Routes mounts trigger on path (any method) and a health check on
// HealthPath. Every other path answers 404.
func Routes(path string, trigger http.Handler) http.Handler {
	if path == "" {
		path = DefaultPath
	}
	if path == "/" {
		path = "/{$}"
	}
	mux := http.NewServeMux()
	mux.Handle(path, trigger)
	mux.HandleFunc("GET "+HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	return mux
}
