// Package codex implements the string interning tables. A Codex maps each
// distinct key to a dense, insertion-ordered id; id 0 is always the empty
// string.
package codex

import (
	"sort"
	"strings"
	"sync"
)

// LocalizedString is an interning key: a canonical text plus, optionally, the
// text per language tag.
type LocalizedString struct {
	Canonical string
	Localized map[string]string
}

// Plain returns a key without per-language text.
func Plain(text string) *LocalizedString {
	return &LocalizedString{Canonical: text}
}

// Translation is one language variant of a localized string.
type Translation struct {
	Lang string
	Text string
}

// NewLocalized builds a localized key. Language tags are upper-cased; the
// first variant's text becomes the canonical text.
func NewLocalized(variants []Translation) *LocalizedString {
	if len(variants) == 0 {
		return Plain("")
	}
	ls := &LocalizedString{
		Canonical: variants[0].Text,
		Localized: make(map[string]string, len(variants)),
	}
	for _, v := range variants {
		ls.Localized[strings.ToUpper(v.Lang)] = v.Text
	}
	return ls
}

// IsLocalized reports whether the key carries per-language text.
func (ls *LocalizedString) IsLocalized() bool {
	return ls.Localized != nil
}

// Text returns the text for lang, or the canonical text when the key has no
// variant for it.
func (ls *LocalizedString) Text(lang string) string {
	if text, ok := ls.Localized[lang]; ok {
		return text
	}
	return ls.Canonical
}

// Codex is an insertion-ordered interning table. Plain keys are deduplicated
// by text; localized keys are only ever equal to themselves, so inserting a
// localized key always allocates a new id unless that same pointer was
// inserted before. Codex is safe for concurrent use.
type Codex struct {
	mu        sync.Mutex
	plain     map[string]int
	localized map[*LocalizedString]int
	entries   []*LocalizedString
	languages map[string]struct{}
}

// New returns a Codex holding only the empty string at id 0.
func New() *Codex {
	return &Codex{
		plain:     map[string]int{"": 0},
		localized: make(map[*LocalizedString]int),
		entries:   []*LocalizedString{Plain("")},
		languages: make(map[string]struct{}),
	}
}

// InsertString interns a plain text.
func (c *Codex) InsertString(text string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.plain[text]; ok {
		return id
	}
	id := len(c.entries)
	c.plain[text] = id
	c.entries = append(c.entries, Plain(text))
	return id
}

// Insert interns key and returns its id.
func (c *Codex) Insert(key *LocalizedString) int {
	if !key.IsLocalized() {
		return c.InsertString(key.Canonical)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.localized[key]; ok {
		return id
	}
	id := len(c.entries)
	c.localized[key] = id
	c.entries = append(c.entries, key)
	for lang := range key.Localized {
		c.languages[lang] = struct{}{}
	}
	return id
}

// Len returns the number of entries, including the empty string.
func (c *Codex) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Languages returns every language tag seen so far, sorted.
func (c *Codex) Languages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	langs := make([]string, 0, len(c.languages))
	for lang := range c.languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Strings returns the canonical text of every entry in id order.
func (c *Codex) Strings() []string {
	return c.Enumerate("")
}

// Enumerate returns, in id order, each entry's text for lang, falling back to
// the canonical text.
func (c *Codex) Enumerate(lang string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Text(lang)
	}
	return out
}
