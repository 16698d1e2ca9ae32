package flatten

import "github.com/agentic-research/microcopy/internal/graph"

// FallbackMap maps every locale code to the single locale tried before the
// default locale: its declared fallback, or itself when it declares none.
// Records without a code are skipped.
func FallbackMap(locales []graph.Locale) map[string]string {
	out := make(map[string]string, len(locales))
	for _, l := range locales {
		if l.Code == "" {
			continue
		}
		if l.FallbackCode == "" {
			out[l.Code] = l.Code
			continue
		}
		out[l.Code] = l.FallbackCode
	}
	return out
}
