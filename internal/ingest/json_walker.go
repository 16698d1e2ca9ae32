package ingest

import (
	"fmt"
	"sync"

	"github.com/ohler55/ojg/jp"
)

// JsonWalker implements Walker for decoded JSON data. Parsed selectors are
// cached since the same handful of paths is evaluated for every entry.
type JsonWalker struct {
	exprs sync.Map // selector -> jp.Expr
}

func NewJsonWalker() *JsonWalker {
	return &JsonWalker{}
}

func (w *JsonWalker) compile(selector string) (jp.Expr, error) {
	if x, ok := w.exprs.Load(selector); ok {
		return x.(jp.Expr), nil
	}
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	w.exprs.Store(selector, x)
	return x, nil
}

// Query implements Walker.
func (w *JsonWalker) Query(root any, selector string) ([]Match, error) {
	x, err := w.compile(selector)
	if err != nil {
		return nil, err
	}

	results := x.Get(root)

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = &jsonMatch{value: r}
	}
	return matches, nil
}

// String implements Walker.
func (w *JsonWalker) String(root any, selector string) (string, bool) {
	x, err := w.compile(selector)
	if err != nil {
		return "", false
	}
	s, ok := x.First(root).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

type jsonMatch struct {
	value any
}

// Values implements Match.
func (m *jsonMatch) Values() map[string]any {
	switch v := m.value.(type) {
	case map[string]any:
		return v
	default:
		return map[string]any{"value": v}
	}
}

// Context implements Match.
func (m *jsonMatch) Context() any {
	return m.value
}
