package graph

import (
	"sync/atomic"

	"github.com/agentic-research/microcopy/internal/richtext"
)

var nextOrdinal atomic.Uint32

// Entry is one typed content record. Field values are keyed by field name and
// then by locale code. Links to other entries have already been resolved to
// *Entry values; unresolvable links are absent.
//
// Entries are mutated only while a graph is being built and are read-only
// afterwards.
type Entry struct {
	ID          string
	ContentType string
	Kind        Kind

	ordinal uint32
	fields  map[string]map[string]any
}

// NewEntry creates an entry with no fields.
func NewEntry(id, contentType string) *Entry {
	return &Entry{
		ID:          id,
		ContentType: contentType,
		Kind:        KindOf(contentType),
		ordinal:     nextOrdinal.Add(1),
		fields:      make(map[string]map[string]any),
	}
}

// SetField stores the value of field name for locale. Only used while
// building a graph.
func (e *Entry) SetField(name, locale string, value any) *Entry {
	byLocale, ok := e.fields[name]
	if !ok {
		byLocale = make(map[string]any)
		e.fields[name] = byLocale
	}
	byLocale[locale] = value
	return e
}

// Field returns the value of field name for locale. ok is false when the
// field, the locale or the value is missing.
func (e *Entry) Field(name, locale string) (any, bool) {
	if e == nil {
		return nil, false
	}
	v, ok := e.fields[name][locale]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Text returns a non-empty string field value.
func (e *Entry) Text(name, locale string) (string, bool) {
	v, ok := e.Field(name, locale)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Entries returns the linked entries of a list field, in order. Items that
// are not entries are skipped.
func (e *Entry) Entries(name, locale string) []*Entry {
	v, ok := e.Field(name, locale)
	if !ok {
		return nil
	}
	switch items := v.(type) {
	case []*Entry:
		return items
	case []any:
		out := make([]*Entry, 0, len(items))
		for _, item := range items {
			if child, ok := item.(*Entry); ok && child != nil {
				out = append(out, child)
			}
		}
		return out
	case *Entry:
		return []*Entry{items}
	default:
		return nil
	}
}

// RichText returns a rich-text field value. Plain string values are promoted
// to a single-paragraph document.
func (e *Entry) RichText(name, locale string) (*richtext.Node, bool) {
	v, ok := e.Field(name, locale)
	if !ok {
		return nil, false
	}
	switch doc := v.(type) {
	case *richtext.Node:
		return doc, true
	case string:
		return &richtext.Node{
			Type: richtext.TypeDocument,
			Content: []*richtext.Node{{
				Type:    richtext.TypeParagraph,
				Content: []*richtext.Node{{Type: richtext.TypeText, Value: doc}},
			}},
		}, true
	default:
		return nil, false
	}
}
