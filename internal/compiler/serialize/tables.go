package serialize

import (
	"context"
	"fmt"

	"github.com/x2bin-lang/x2bin/internal/compiler/wire"
)

// Languages returns the language tags used by localized strings, sorted.
// Empty when nothing was localized.
func (c *Context) Languages() []string {
	return c.Strings.Languages()
}

// WriteStringTable writes the string table for lang: the entry count, then
// every interned string in id order. Entries without a variant for lang,
// and every entry when lang is empty, use their canonical text.
func (c *Context) WriteStringTable(w *wire.Writer, lang string) error {
	entries := c.Strings.Enumerate(lang)
	c.WriteCount(w, len(entries))
	for _, s := range entries {
		if err := c.opts.String.Write(w, s); err != nil {
			return err
		}
	}
	return w.Err()
}

// WriteScriptTable writes the entry count followed by every interned script
// in id order: its processed source, or, with a script compiler configured,
// the length-prefixed object buffer and debug buffer.
func (c *Context) WriteScriptTable(ctx context.Context, w *wire.Writer) error {
	entries := c.Scripts.Strings()
	c.WriteCount(w, len(entries))
	for i, src := range entries {
		if c.opts.Scripts == nil {
			if err := c.opts.String.Write(w, src); err != nil {
				return err
			}
			continue
		}

		object, debug, err := c.opts.Scripts.Compile(ctx, src)
		if err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
		c.WriteCount(w, len(object))
		w.Bytes(object)
		c.WriteCount(w, len(debug))
		w.Bytes(debug)
	}
	return w.Err()
}
