package serialize

import (
	"strings"

	"github.com/x2bin-lang/x2bin/internal/compiler/codex"
	"github.com/x2bin-lang/x2bin/internal/compiler/document"
	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
	"github.com/x2bin-lang/x2bin/internal/compiler/literal"
	"github.com/x2bin-lang/x2bin/internal/compiler/schema"
	"github.com/x2bin-lang/x2bin/internal/compiler/wire"
)

// SerializeElement writes one record for elem against node. A nil elem is
// the absent case: the node's presence flag or default is written, or a
// RequiredFieldMissing error is returned.
func (c *Context) SerializeElement(w *wire.Writer, elem *document.Element, node *schema.Node) error {
	if node.Presence {
		w.Bool(elem != nil)
	}
	if elem == nil {
		if node.Presence {
			return w.Err()
		}
		if node.Default == nil {
			return c.fail(errors.NewRequiredFieldMissing(node.DisplayName()))
		}
		return c.WriteLiterals(w, node.Default)
	}

	saved := c.pos
	defer func() { c.pos = saved }()
	c.pos.Line = elem.Line
	c.pos.Element = elem.Name

	if node.IsLocalized() {
		return c.writeLocalized(w, elem, node)
	}
	if node.IsLeaf() {
		text := elem.Text()
		return c.writeLeaf(w, node, &text)
	}

	// Children are written in schema order, not document order.
	for _, child := range node.Children() {
		if err := c.serializeChild(w, elem, child); err != nil {
			return err
		}
	}
	return w.Err()
}

func (c *Context) serializeChild(w *wire.Writer, elem *document.Element, child *schema.Node) error {
	switch child.Kind {
	case schema.KindNameCapture:
		name := elem.Name
		return c.writeValue(w, child, &name)

	case schema.KindTextCapture:
		text := elem.Text()
		return c.writeValue(w, child, &text)

	case schema.KindAttributeWildcard:
		c.WriteCount(w, len(elem.Attrs))
		for _, a := range elem.Attrs {
			value := a.Value
			if err := c.writeValue(w, child, &value); err != nil {
				return err
			}
		}
		return nil

	case schema.KindAttribute:
		if child.Array {
			attrs := elem.AttributesNamed(child.Name)
			c.WriteCount(w, len(attrs))
			for _, a := range attrs {
				value := a.Value
				if err := c.writeValue(w, child, &value); err != nil {
					return err
				}
			}
			return nil
		}
		if a, ok := elem.Attribute(child.Name); ok {
			return c.writeValue(w, child, &a.Value)
		}
		return c.writeValue(w, child, nil)

	case schema.KindElementWildcard:
		return c.serializeItems(w, elem.Children, child)

	default:
		if child.Array {
			return c.serializeItems(w, elem.ChildrenNamed(child.Name), child)
		}
		return c.SerializeElement(w, elem.Child(child.Name), child)
	}
}

// serializeItems writes a count followed by one record per item.
func (c *Context) serializeItems(w *wire.Writer, items []*document.Element, node *schema.Node) error {
	c.WriteCount(w, len(items))
	for _, item := range items {
		if err := c.SerializeElement(w, item, node); err != nil {
			return err
		}
	}
	return nil
}

// writeValue writes a value that is not an element of its own: a capture or
// an attribute. A nil text is an absent attribute.
func (c *Context) writeValue(w *wire.Writer, node *schema.Node, text *string) error {
	if node.Presence {
		w.Bool(text != nil)
		if text == nil {
			return w.Err()
		}
	}
	return c.writeLeaf(w, node, text)
}

// writeLeaf parses text against a leaf node and writes the result.
func (c *Context) writeLeaf(w *wire.Writer, node *schema.Node, text *string) error {
	switch node.Type {
	case literal.Exist:
		w.Bool(literal.IsPresent(text))
		return w.Err()
	case literal.NoExist:
		w.Bool(!literal.IsPresent(text))
		return w.Err()
	}

	if text == nil || (*text == "" && node.Default != nil) {
		if node.Default == nil {
			return c.fail(errors.NewRequiredFieldMissing(node.DisplayName()))
		}
		return c.WriteLiterals(w, node.Default)
	}

	lits, err := c.parseLeaf(node, *text)
	if err != nil {
		return c.fail(err)
	}
	if err := c.WriteLiterals(w, lits); err != nil {
		return c.fail(err)
	}
	return nil
}

func (c *Context) parseLeaf(node *schema.Node, text string) ([]literal.Literal, error) {
	switch {
	case node.Type == literal.Enum:
		if c.opts.Enums == nil {
			return nil, errors.NewNoEnumResolver(node.EnumType)
		}
		v, err := c.opts.Enums.Resolve(node.EnumType, text)
		if err != nil {
			return nil, err
		}
		return []literal.Literal{literal.NewInt(literal.Int, v)}, nil
	case node.Type.Arity() > 0:
		return literal.ParseTuple(text, node.Type)
	default:
		lit, err := c.opts.Parser.Parse(text, node.Type)
		if err != nil {
			return nil, err
		}
		return []literal.Literal{lit}, nil
	}
}

// writeLocalized interns a LOCAL element. Child elements are language
// variants keyed by tag name; otherwise the element's own text, or the
// default text when blank, is a plain string.
func (c *Context) writeLocalized(w *wire.Writer, elem *document.Element, node *schema.Node) error {
	var key *codex.LocalizedString
	switch {
	case elem.HasChildren():
		variants := make([]codex.Translation, len(elem.Children))
		for i, child := range elem.Children {
			variants[i] = codex.Translation{Lang: child.Name, Text: c.localText(node.Type, child.Text())}
		}
		key = codex.NewLocalized(variants)
	case strings.TrimSpace(elem.Text()) != "":
		key = codex.Plain(elem.Text())
	default:
		key = codex.Plain(defaultText(node))
	}
	c.writeID(w, c.Strings.Insert(key))
	return w.Err()
}

func (c *Context) localText(t literal.Type, text string) string {
	switch t {
	case literal.LocalTrim:
		return wire.AggressiveTrim(text)
	case literal.LocalNoTrim:
		return text
	default:
		return c.opts.StringTrim.Apply(text)
	}
}

func defaultText(node *schema.Node) string {
	if len(node.Default) > 0 && node.Default[0].Type().Kind() == literal.KindString {
		return node.Default[0].Str()
	}
	return ""
}
