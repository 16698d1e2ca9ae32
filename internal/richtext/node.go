// Package richtext models the backend's rich-text document tree and renders
// it into the plain strings carried by the client feed.
package richtext

// Node types with dedicated rendering rules. Every other type falls back to
// its text value or the concatenation of its children.
const (
	TypeDocument      = "document"
	TypeParagraph     = "paragraph"
	TypeText          = "text"
	TypeEmbeddedEntry = "embedded-entry-inline"
)

// Node is one block, inline or text node of a rich-text document.
type Node struct {
	Type    string
	Value   string  // text nodes only
	Content []*Node // block and inline containers

	// Target is the resolved data.target of embedded nodes, nil when the
	// reference could not be resolved.
	Target any
}

// IsDocument reports whether raw has the shape of a rich-text document root.
func IsDocument(raw any) bool {
	m, ok := raw.(map[string]any)
	if !ok {
		return false
	}
	t, _ := m["nodeType"].(string)
	return t == TypeDocument
}

// Decode converts a decoded JSON node into a Node tree. resolve maps the raw
// data.target value of a node onto whatever the caller wants stored in
// Target; a nil resolve leaves targets unset. Children that are not nodes are
// dropped. ok is false when raw itself is not a node.
func Decode(raw any, resolve func(target any) any) (*Node, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	nodeType, ok := m["nodeType"].(string)
	if !ok || nodeType == "" {
		return nil, false
	}

	n := &Node{Type: nodeType}
	if v, ok := m["value"].(string); ok {
		n.Value = v
	}
	if data, ok := m["data"].(map[string]any); ok && resolve != nil {
		if target, ok := data["target"]; ok && target != nil {
			n.Target = resolve(target)
		}
	}
	if children, ok := m["content"].([]any); ok {
		n.Content = make([]*Node, 0, len(children))
		for _, c := range children {
			if child, ok := Decode(c, resolve); ok {
				n.Content = append(n.Content, child)
			}
		}
	}
	return n, true
}
