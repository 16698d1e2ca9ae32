package ingest

import (
	"errors"
	"fmt"

	"github.com/ohler55/ojg/oj"
	"go.uber.org/zap"

	"github.com/agentic-research/microcopy/internal/graph"
	"github.com/agentic-research/microcopy/internal/richtext"
)

// ErrMalformedPayload is returned when a payload is not a JSON object.
var ErrMalformedPayload = errors.New("malformed payload")

// Selectors into the backend payloads.
const (
	selEntries      = "$.entries[*]"
	selItems        = "$.items[*]"
	selSysID        = "$.sys.id"
	selSysType      = "$.sys.type"
	selSysLinkType  = "$.sys.linkType"
	selContentType  = "$.sys.contentType.sys.id"
	selLocaleCode   = "$.code"
	selFallbackCode = "$.fallbackCode"
)

// Engine decodes sync and locale payloads into an entry graph.
type Engine struct {
	Walker Walker
	Logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Walker: NewJsonWalker(),
		Logger: logger,
	}
}

// Build decodes both payloads and links entries to each other.
func (e *Engine) Build(syncPayload, localePayload []byte) (*graph.Graph, error) {
	entries, err := e.DecodeEntries(syncPayload)
	if err != nil {
		return nil, err
	}
	locales, err := e.DecodeLocales(localePayload)
	if err != nil {
		return nil, err
	}
	return graph.New(entries, locales), nil
}

func parseObject(payload []byte, what string) (map[string]any, error) {
	data, err := oj.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("parse %s payload: %w", what, err)
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s payload: %w", what, ErrMalformedPayload)
	}
	return obj, nil
}

// DecodeLocales decodes a locale listing ({"items": [...]}). Records
// without a code are skipped.
func (e *Engine) DecodeLocales(payload []byte) ([]graph.Locale, error) {
	root, err := parseObject(payload, "locale")
	if err != nil {
		return nil, err
	}
	matches, err := e.Walker.Query(root, selItems)
	if err != nil {
		return nil, err
	}

	locales := make([]graph.Locale, 0, len(matches))
	for _, m := range matches {
		item := m.Context()
		code, ok := e.Walker.String(item, selLocaleCode)
		if !ok {
			continue
		}
		fallback, _ := e.Walker.String(item, selFallbackCode)
		locales = append(locales, graph.Locale{Code: code, FallbackCode: fallback})
	}
	return locales, nil
}

// rawEntry is an entry whose fields still carry unresolved links.
type rawEntry struct {
	entry  *graph.Entry
	fields map[string]any
}

// DecodeEntries decodes a sync payload. Both the client shape
// ({"entries": [...]}) and the raw API page shape ({"items": [...]}, where
// only items of type Entry are kept) are accepted.
func (e *Engine) DecodeEntries(payload []byte) ([]*graph.Entry, error) {
	root, err := parseObject(payload, "sync")
	if err != nil {
		return nil, err
	}

	matches, err := e.Walker.Query(root, selEntries)
	if err != nil {
		return nil, err
	}
	rawShape := false
	if len(matches) == 0 {
		if matches, err = e.Walker.Query(root, selItems); err != nil {
			return nil, err
		}
		rawShape = true
	}

	// Pass 1: create every entry so links can point at any of them.
	raws := make([]rawEntry, 0, len(matches))
	created := make([]*graph.Entry, 0, len(matches))
	for _, m := range matches {
		item := m.Context()
		if rawShape {
			if t, _ := e.Walker.String(item, selSysType); t != "Entry" {
				continue
			}
		}
		id, ok := e.Walker.String(item, selSysID)
		if !ok {
			e.Logger.Debug("skipping entry without id")
			continue
		}
		contentType, _ := e.Walker.String(item, selContentType)
		fields, _ := m.Values()["fields"].(map[string]any)

		entry := graph.NewEntry(id, contentType)
		created = append(created, entry)
		raws = append(raws, rawEntry{entry: entry, fields: fields})
	}

	// Pass 2: resolve links and rich text.
	r := &resolver{walker: e.Walker, index: graph.New(created, nil)}
	entries := make([]*graph.Entry, 0, len(raws))
	for _, raw := range raws {
		for name, byLocale := range raw.fields {
			values, ok := byLocale.(map[string]any)
			if !ok {
				continue
			}
			for locale, v := range values {
				if resolved := r.value(v); resolved != nil {
					raw.entry.SetField(name, locale, resolved)
				}
			}
		}
		entries = append(entries, raw.entry)
	}

	e.Logger.Debug("decoded entries",
		zap.Int("entries", len(entries)),
		zap.Int("unresolved_links", r.unresolved),
	)
	return entries, nil
}

// resolver replaces entry links with the linked *graph.Entry and rich-text
// documents with *richtext.Node.
type resolver struct {
	walker     Walker
	index      *graph.Graph
	unresolved int
}

// value resolves v. It returns nil when v is a link that cannot be resolved.
func (r *resolver) value(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if richtext.IsDocument(t) {
			doc, _ := richtext.Decode(t, r.target)
			return doc
		}
		if id, ok := r.reference(t); ok {
			linked, err := r.index.Get(id)
			if err != nil {
				r.unresolved++
				return nil
			}
			return linked
		}
		return t
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if resolved := r.value(item); resolved != nil {
				out = append(out, resolved)
			}
		}
		return out
	default:
		return v
	}
}

// target resolves the data.target of a rich-text node to an entry.
func (r *resolver) target(raw any) any {
	if linked, ok := r.value(raw).(*graph.Entry); ok {
		return linked
	}
	return nil
}

// reference reports the entry ID v points at, for entry links and inline
// entries alike. Asset links are not references.
func (r *resolver) reference(v map[string]any) (string, bool) {
	sysType, _ := r.walker.String(v, selSysType)
	switch sysType {
	case "Link":
		if linkType, _ := r.walker.String(v, selSysLinkType); linkType != "Entry" {
			return "", false
		}
	case "Entry":
	default:
		return "", false
	}
	return r.walker.String(v, selSysID)
}
