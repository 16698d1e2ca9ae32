package ingest

import (
	"context"

	"github.com/agentic-research/microcopy/internal/graph"
)

// Walker queries decoded JSON payloads.
type Walker interface {
	// Query executes a selector against root and returns the matches in
	// document order.
	Query(root any, selector string) ([]Match, error)

	// String returns the first match of selector when it is a non-empty
	// string.
	String(root any, selector string) (string, bool)
}

// Match is a single result from a query.
type Match interface {
	// Values returns the matched object's fields. Primitive matches are
	// returned under the "value" key.
	Values() map[string]any

	// Context returns the matched value itself, used as the root for
	// follow-up queries.
	Context() any
}

// Source produces the entry graph for one run.
type Source interface {
	Fetch(ctx context.Context) (*graph.Graph, error)
}
