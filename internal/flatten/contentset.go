package flatten

import (
	"github.com/agentic-research/microcopy/api"
	"github.com/agentic-research/microcopy/internal/graph"
	"github.com/agentic-research/microcopy/internal/richtext"
)

// ContentSet flattens one content set into a mapping from item key to the
// rendered text of leaf items or the flattened mapping of nested sets.
// Items without a key and image items contribute nothing; a later item
// replaces an earlier one with the same key.
func (t *Transformer) ContentSet(locale, fallback string, set *graph.Entry) api.Content {
	return t.contentSet(newPass(locale, fallback), set)
}

// ContentSetArray flattens every keyed set of sets and stores each result
// under the set's key; later sets replace earlier ones on a key collision.
func (t *Transformer) ContentSetArray(locale, fallback string, sets []*graph.Entry) api.Content {
	return t.contentSetArray(newPass(locale, fallback), sets)
}

func (t *Transformer) contentSetArray(p *pass, sets []*graph.Entry) api.Content {
	out := api.Content{}
	for _, set := range sets {
		key, ok := set.Text(fieldKey, t.defaultLocale)
		if !ok {
			continue
		}
		out[key] = t.contentSet(p, set)
	}
	return out
}

func (t *Transformer) contentSet(p *pass, set *graph.Entry) api.Content {
	out := api.Content{}
	if set == nil || !p.trail.Enter(set) {
		// A set nested inside itself stops here.
		return out
	}
	defer p.trail.Leave(set)

	for _, item := range set.Entries(fieldContentItems, t.defaultLocale) {
		key, ok := item.Text(fieldKey, t.defaultLocale)
		if !ok {
			continue
		}
		switch item.Kind {
		case graph.KindContentSet, graph.KindRegulatedContentSet:
			out[key] = t.contentSet(p, item)
		case graph.KindContentImage, graph.KindRegulatedContentImage:
			// Images are delivered through a separate channel.
		case graph.KindLeaf,
			graph.KindDeliveryChannel,
			graph.KindModule, graph.KindRegulatedModule,
			graph.KindScreen, graph.KindRegulatedScreen:
			doc, ok := t.bodyText(p, item)
			if !ok {
				continue
			}
			out[key] = richtext.Render(doc, t.render)
		}
	}
	return out
}

// bodyText resolves the item's text in the target locale, then the fallback
// locale, then the default locale. The first locale with a value wins.
func (t *Transformer) bodyText(p *pass, item *graph.Entry) (*richtext.Node, bool) {
	for _, locale := range [...]string{p.locale, p.fallback, t.defaultLocale} {
		if locale == "" {
			continue
		}
		if doc, ok := item.RichText(fieldBodyText, locale); ok {
			return doc, true
		}
	}
	return nil, false
}
