package flatten

import (
	"github.com/agentic-research/microcopy/api"
	"github.com/agentic-research/microcopy/internal/graph"
)

// Screens flattens screens keyed by screen name. Unregulated screens only
// read unregulated content sets and regulated screens only regulated ones.
// When both variants produce the same screen name the regulated screen wins.
func (t *Transformer) Screens(locale, fallback string, screens []*graph.Entry) api.Content {
	return t.screens(newPass(locale, fallback), screens)
}

func (t *Transformer) screens(p *pass, screens []*graph.Entry) api.Content {
	unregulated := t.screensOf(p, graph.Unregulated, screens)
	regulated := t.screensOf(p, graph.Regulated, screens)
	// Inverse of the module-level order in ForLocale. Kept as is pending
	// product confirmation.
	return MergeWithPrecedence(unregulated, regulated)
}

func (t *Transformer) screensOf(p *pass, v graph.Variant, screens []*graph.Entry) api.Content {
	out := api.Content{}
	setKind := graph.ContentSetKind(v)
	for _, screen := range ofKind(screens, graph.ScreenKind(v)) {
		name, ok := screen.Text(fieldName, t.defaultLocale)
		if !ok {
			continue
		}
		sets := ofKind(screen.Entries(fieldContents, t.defaultLocale), setKind)
		out[name] = t.contentSetArray(p, sets)
	}
	return out
}
