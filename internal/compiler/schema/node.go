// Package schema defines the output shape of a compilation: a tree of nodes
// read from a YAML definition, each naming where its value comes from in the
// input document and how it is encoded.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/x2bin-lang/x2bin/internal/compiler/literal"
)

// Kind is the storage category of a node.
type Kind int

const (
	// KindElement is a child element whose own children are described by
	// the node's children.
	KindElement Kind = iota
	// KindElementLeaf is a child element whose text is a single value.
	KindElementLeaf
	// KindAttribute is a single attribute value.
	KindAttribute
	// KindNameCapture is the enclosing element's own tag name ($name).
	KindNameCapture
	// KindTextCapture is the enclosing element's text ($value).
	KindTextCapture
	// KindAttributeWildcard matches every attribute ($attrs).
	KindAttributeWildcard
	// KindElementWildcard matches every child element ($any).
	KindElementWildcard
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindElementLeaf:
		return "leaf"
	case KindAttribute:
		return "attribute"
	case KindNameCapture:
		return "$name"
	case KindTextCapture:
		return "$value"
	case KindAttributeWildcard:
		return "$attrs"
	case KindElementWildcard:
		return "$any"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is one position of the schema tree. Nodes are immutable once the
// Reader returns them.
type Node struct {
	// Name is the "|"-alternated list of element or attribute names the
	// node matches. Empty for captures and wildcards.
	Name string
	Kind Kind
	// Type is the literal type of a leaf. None on a leaf means the type is
	// inferred from the text; Enum leaves carry EnumType.
	Type     literal.Type
	EnumType string
	// Default holds the literals written when the input is absent. Nil
	// means the field is required.
	Default []literal.Literal
	// Array marks a zero-or-more field, written as a count followed by the
	// items.
	Array bool
	// Presence writes a BOOL before the value telling whether the input was
	// present; an absent input writes nothing else.
	Presence bool
	// Line is the line of the node's key in the definition file.
	Line int

	leaf     bool
	children []*Node
	ref      string
}

// IsLeaf reports whether the node encodes a single value rather than a
// nested record.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// Children returns the nested schema of a composite node, in declaration
// order.
func (n *Node) Children() []*Node {
	return n.children
}

// Reference returns the name of the recursive node this node was copied
// from, if any.
func (n *Node) Reference() string {
	return n.ref
}

// IsLocalized reports whether the node holds localizable text.
func (n *Node) IsLocalized() bool {
	return n.leaf && n.Type.IsLocal()
}

// Required reports whether absence of the input is an error.
func (n *Node) Required() bool {
	return n.Default == nil && !n.Presence
}

// DisplayName returns the name used in diagnostics.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.Kind.String()
}

// Describe renders the subtree, one node per line, for `x2bin check`.
// Recursive references are printed once and not expanded again.
func (n *Node) Describe() string {
	var b strings.Builder
	n.describe(&b, 0, make(map[*Node]bool))
	return b.String()
}

func (n *Node) describe(b *strings.Builder, depth int, seen map[*Node]bool) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.DisplayName())

	var flags []string
	if n.Kind == KindAttribute || n.Kind == KindAttributeWildcard {
		flags = append(flags, "attr")
	}
	if n.Array {
		flags = append(flags, "array")
	}
	if n.Presence {
		flags = append(flags, "presence")
	}
	if n.Required() {
		flags = append(flags, "required")
	}
	if n.leaf {
		switch {
		case n.Type == literal.Enum:
			b.WriteString(": ENUM " + n.EnumType)
		case n.Type == literal.None:
			b.WriteString(": <inferred>")
		default:
			b.WriteString(": " + n.Type.String())
		}
	}
	if len(n.Default) > 0 && !n.Required() {
		parts := make([]string, len(n.Default))
		for i, d := range n.Default {
			parts[i] = d.String()
		}
		flags = append(flags, "default="+strings.Join(parts, ","))
	}
	if len(flags) > 0 {
		b.WriteString(" [" + strings.Join(flags, " ") + "]")
	}

	if n.ref != "" {
		if seen[n] {
			b.WriteString(" -> $" + n.ref + "\n")
			return
		}
		b.WriteString(" ($" + n.ref + ")")
	}
	b.WriteString("\n")

	seen[n] = true
	for _, c := range n.children {
		c.describe(b, depth+1, seen)
	}
	delete(seen, n)
}

// Schema is the result of reading a definition: the active root plus the
// registry of named recursive nodes.
type Schema struct {
	Root  *Node
	nodes map[string]*Node
}

// Lookup returns the recursive node registered under name.
func (s *Schema) Lookup(name string) (*Node, bool) {
	n, ok := s.nodes[name]
	return n, ok
}

// Names returns the registered recursive node names, sorted.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.nodes))
	for name := range s.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
