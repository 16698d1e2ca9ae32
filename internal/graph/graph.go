package graph

import "errors"

var ErrNotFound = errors.New("entry not found")

// Locale is a locale record of the content backend.
type Locale struct {
	Code         string `json:"code"`
	FallbackCode string `json:"fallbackCode,omitempty"`
}

// Graph is the immutable set of entries and locales fetched for one run.
type Graph struct {
	entries []*Entry
	byID    map[string]*Entry
	locales []Locale
}

// New indexes entries by ID. Later entries with a duplicate ID replace
// earlier ones in the index but keep their position for First.
func New(entries []*Entry, locales []Locale) *Graph {
	g := &Graph{
		entries: entries,
		byID:    make(map[string]*Entry, len(entries)),
		locales: locales,
	}
	for _, e := range entries {
		if e != nil && e.ID != "" {
			g.byID[e.ID] = e
		}
	}
	return g
}

// Locales returns the locale records.
func (g *Graph) Locales() []Locale {
	return g.locales
}

// Get returns the entry with the given ID.
func (g *Graph) Get(id string) (*Entry, error) {
	if e, ok := g.byID[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

// First returns the first entry of the given kind in payload order.
func (g *Graph) First(kind Kind) (*Entry, bool) {
	for _, e := range g.entries {
		if e != nil && e.Kind == kind {
			return e, true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (g *Graph) Len() int {
	return len(g.entries)
}
