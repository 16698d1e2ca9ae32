package flatten

import "github.com/agentic-research/microcopy/api"

// MergeWithPrecedence returns a new Content holding every key of base and
// override. On a key collision the value from override wins. The merge is
// shallow: nested Content values are replaced, not merged.
func MergeWithPrecedence(base, override api.Content) api.Content {
	out := make(api.Content, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
