// Package flatten compiles the content graph of one delivery channel into
// the flat, locale-keyed lookup tables consumed by the client application.
//
// All transforms are pure: they read the immutable graph, perform no I/O and
// never fail. Missing or malformed input contributes nothing to the output.
package flatten

import (
	"github.com/agentic-research/microcopy/internal/graph"
	"github.com/agentic-research/microcopy/internal/richtext"
)

// DefaultLocale is the locale structural fields (key, name and the entry
// lists) are read from, and the last locale tried for localized text.
const DefaultLocale = "en-US"

// Field names read from the content graph.
const (
	fieldKey          = "key"
	fieldName         = "name"
	fieldBodyText     = "bodyText"
	fieldContentItems = "contentItems"
	fieldContents     = "contents"
	fieldMicrocopy    = "microcopy"
	fieldModals       = "modals"
	fieldModules      = "modules"
	fieldScreenSets   = "screenSets"
	fieldScreens      = "screens"

	// ModalsKey is the output property holding the merged modals.
	ModalsKey = "modals"
)

// Transformer holds the settings shared by every transform.
type Transformer struct {
	defaultLocale string
	render        richtext.Options
}

// New returns a Transformer reading structural fields from defaultLocale.
// An empty defaultLocale means DefaultLocale.
func New(defaultLocale string) *Transformer {
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}
	t := &Transformer{defaultLocale: defaultLocale}
	t.render = richtext.Options{EntryKey: t.entryKey}
	return t
}

// DefaultLocale returns the locale structural fields are read from.
func (t *Transformer) DefaultLocale() string {
	return t.defaultLocale
}

// entryKey resolves the interpolation key of an embedded entry.
func (t *Transformer) entryKey(target any) (string, bool) {
	e, ok := target.(*graph.Entry)
	if !ok {
		return "", false
	}
	return e.Text(fieldKey, t.defaultLocale)
}

// pass carries the per-locale state of one transform call.
type pass struct {
	locale   string
	fallback string
	trail    *graph.Trail
}

func newPass(locale, fallback string) *pass {
	return &pass{locale: locale, fallback: fallback, trail: graph.NewTrail()}
}

// collect concatenates the list field of every entry, in entry order.
func (t *Transformer) collect(entries []*graph.Entry, field string) []*graph.Entry {
	var out []*graph.Entry
	for _, e := range entries {
		out = append(out, e.Entries(field, t.defaultLocale)...)
	}
	return out
}

// ofKind keeps the entries of the given kind, in order.
func ofKind(entries []*graph.Entry, kind graph.Kind) []*graph.Entry {
	var out []*graph.Entry
	for _, e := range entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
