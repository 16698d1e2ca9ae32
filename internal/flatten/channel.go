package flatten

import (
	"github.com/agentic-research/microcopy/api"
	"github.com/agentic-research/microcopy/internal/graph"
)

// variantOutput is what one module variant contributes to a locale.
type variantOutput struct {
	microcopy api.Content
	modals    api.Content
	screens   api.Content
}

func (t *Transformer) variant(p *pass, v graph.Variant, modules []*graph.Entry) variantOutput {
	ofVariant := ofKind(modules, graph.ModuleKind(v))
	return variantOutput{
		microcopy: t.moduleMicrocopy(p, ofVariant),
		modals:    t.moduleModals(p, ofVariant),
		screens:   t.moduleScreens(p, ofVariant),
	}
}

// ForLocale compiles the complete feed of one delivery channel for locale.
// fallbacks maps locale codes to their fallback locale (see FallbackMap).
//
// Layers are merged in this order, each overriding the keys of the layers
// before it: global microcopy, regulated module microcopy, unregulated
// module microcopy, the "modals" property (regulated then unregulated),
// regulated module screens, unregulated module screens.
func (t *Transformer) ForLocale(channel *graph.Entry, locale string, fallbacks map[string]string) api.Content {
	p := newPass(locale, fallbacks[locale])

	global := t.contentSetArray(p, channel.Entries(fieldMicrocopy, t.defaultLocale))

	modules := channel.Entries(fieldModules, t.defaultLocale)
	regulated := t.variant(p, graph.Regulated, modules)
	unregulated := t.variant(p, graph.Unregulated, modules)

	// Unregulated modules override regulated ones here, the reverse of the
	// order inside screens().
	out := MergeWithPrecedence(global, regulated.microcopy)
	out = MergeWithPrecedence(out, unregulated.microcopy)
	out[ModalsKey] = MergeWithPrecedence(regulated.modals, unregulated.modals)
	out = MergeWithPrecedence(out, regulated.screens)
	out = MergeWithPrecedence(out, unregulated.screens)
	return out
}
