package flatten

import (
	"github.com/agentic-research/microcopy/api"
	"github.com/agentic-research/microcopy/internal/graph"
)

// Build compiles the feed of every target locale, in target order. It
// returns nil when the graph has no delivery channel or no locales.
func (t *Transformer) Build(g *graph.Graph, targets []string) []api.LocaleContent {
	if g == nil || len(g.Locales()) == 0 {
		return nil
	}
	channel, ok := g.First(graph.KindDeliveryChannel)
	if !ok {
		return nil
	}

	fallbacks := FallbackMap(g.Locales())
	out := make([]api.LocaleContent, 0, len(targets))
	for _, locale := range targets {
		out = append(out, api.LocaleContent{
			Locale:  locale,
			Content: t.ForLocale(channel, locale, fallbacks),
		})
	}
	return out
}
