package richtext

import (
	"fmt"
	"strings"
)

// Options controls rendering.
type Options struct {
	// EntryKey returns the interpolation key of an embedded entry target.
	// Embedded entries whose key cannot be resolved render as "".
	EntryKey func(target any) (string, bool)
}

// Render flattens doc into a plain string: each top-level block is rendered
// on its own and the blocks are joined with "\n". A nil or empty document
// renders as "". Render never fails; nodes it cannot interpret render as "".
func Render(doc *Node, opts Options) string {
	if doc == nil {
		return ""
	}
	blocks := []*Node{doc}
	if doc.Type == TypeDocument {
		blocks = doc.Content
	}
	if len(blocks) == 0 {
		return ""
	}

	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		var sb strings.Builder
		renderNode(&sb, b, opts)
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func renderNode(sb *strings.Builder, n *Node, opts Options) {
	if n == nil {
		return
	}
	switch n.Type {
	case TypeText:
		sb.WriteString(n.Value)
	case TypeEmbeddedEntry:
		sb.WriteString(placeholder(n.Target, opts))
	case TypeParagraph:
		renderChildren(sb, n, opts)
	default:
		if len(n.Content) == 0 {
			sb.WriteString(n.Value)
			return
		}
		renderChildren(sb, n, opts)
	}
}

// renderChildren concatenates children with no separator of its own.
func renderChildren(sb *strings.Builder, n *Node, opts Options) {
	for _, c := range n.Content {
		renderNode(sb, c, opts)
	}
}

func placeholder(target any, opts Options) string {
	if target == nil || opts.EntryKey == nil {
		return ""
	}
	key, ok := opts.EntryKey(target)
	if !ok {
		return ""
	}
	return fmt.Sprintf("{{ %s }}", key)
}
