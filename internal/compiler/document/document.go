// Package document holds the abstract input tree walked by the serializer
// and the adapters that build it from source files.
package document

import (
	"strings"
)

// Attr is one attribute of an element.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of the input tree. Element names and attribute names are
// local names; namespaces are dropped.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	Line     int

	text string
}

// Text returns the concatenated text of the element and all its descendants
// in document order.
func (e *Element) Text() string {
	return e.text
}

// HasChildren reports whether the element has child elements.
func (e *Element) HasChildren() bool {
	return len(e.Children) > 0
}

// splitNames splits a "|"-alternated list of candidate names.
func splitNames(names string) []string {
	return strings.Split(names, "|")
}

// Attribute returns the first attribute matching one of the "|"-alternated
// candidate names, trying the candidates in order.
func (e *Element) Attribute(names string) (Attr, bool) {
	for _, name := range splitNames(names) {
		for _, a := range e.Attrs {
			if a.Name == name {
				return a, true
			}
		}
	}
	return Attr{}, false
}

// AttributesNamed returns the attributes matching the candidate names, in
// candidate order.
func (e *Element) AttributesNamed(names string) []Attr {
	var out []Attr
	for _, name := range splitNames(names) {
		for _, a := range e.Attrs {
			if a.Name == name {
				out = append(out, a)
			}
		}
	}
	return out
}

// Child returns the first child element matching one of the "|"-alternated
// candidate names, trying the candidates in order.
func (e *Element) Child(names string) *Element {
	for _, name := range splitNames(names) {
		for _, c := range e.Children {
			if c.Name == name {
				return c
			}
		}
	}
	return nil
}

// ChildrenNamed returns all child elements matching the candidate names,
// grouped by candidate in the order the candidates are listed.
func (e *Element) ChildrenNamed(names string) []*Element {
	var out []*Element
	for _, name := range splitNames(names) {
		for _, c := range e.Children {
			if c.Name == name {
				out = append(out, c)
			}
		}
	}
	return out
}
