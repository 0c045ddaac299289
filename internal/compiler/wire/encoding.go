package wire

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
)

// IntEncoding selects how general integers (INT literals, counts and
// interned ids) are written.
type IntEncoding int

const (
	IntVar IntEncoding = iota
	Int8Fixed
	Int16Fixed
	Int32Fixed
	Int64Fixed
)

var intEncodingNames = []string{"int7", "int8", "int16", "int32", "int64"}

// ParseIntEncoding resolves an integer encoder name: 7bit, int7, int8,
// int16, int32 or int64.
func ParseIntEncoding(name string) (IntEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "7bit", "int7":
		return IntVar, nil
	case "int8":
		return Int8Fixed, nil
	case "int16":
		return Int16Fixed, nil
	case "int32":
		return Int32Fixed, nil
	case "int64":
		return Int64Fixed, nil
	}
	return 0, errors.NewInvalidOption("INT serializer", name, intEncodingNames...)
}

func (e IntEncoding) String() string {
	if int(e) < len(intEncodingNames) {
		return intEncodingNames[e]
	}
	return fmt.Sprintf("IntEncoding(%d)", int(e))
}

// Write emits v. Values are truncated to the encoder's width.
func (e IntEncoding) Write(w *Writer, v int32) {
	switch e {
	case Int8Fixed:
		w.Uint8(uint8(v))
	case Int16Fixed:
		w.Int16(int16(v))
	case Int32Fixed:
		w.Int32(v)
	case Int64Fixed:
		w.Int64(int64(v))
	default:
		w.Varint32(v)
	}
}

// StringWidth selects how inline strings are delimited.
type StringWidth int

const (
	StringVar StringWidth = iota
	String8
	String16
	String32
	String64
	StringNullTerminated
)

var stringWidthNames = []string{"int7", "int8", "int16", "int32", "int64", "nullterm"}

// ParseStringWidth resolves a string encoder name: 7bit, int7, int8, int16,
// int32, int64 or nullterm.
func ParseStringWidth(name string) (StringWidth, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "7bit", "int7":
		return StringVar, nil
	case "int8":
		return String8, nil
	case "int16":
		return String16, nil
	case "int32":
		return String32, nil
	case "int64":
		return String64, nil
	case "nullterm":
		return StringNullTerminated, nil
	}
	return 0, errors.NewInvalidOption("string index serializer", name, stringWidthNames...)
}

func (s StringWidth) String() string {
	if int(s) < len(stringWidthNames) {
		return stringWidthNames[s]
	}
	return fmt.Sprintf("StringWidth(%d)", int(s))
}

// ParseCharset resolves an IANA character set name or a numeric Windows code
// page. UTF-8 is returned for an empty name.
func ParseCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}
	if page, err := strconv.Atoi(name); err == nil {
		switch page {
		case 65001:
			return unicode.UTF8, nil
		case 1200:
			return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
		case 1201:
			return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
		}
		for _, candidate := range []string{"windows-" + name, "IBM" + name} {
			if enc, err := ianaindex.IANA.Encoding(candidate); err == nil && enc != nil {
				return enc, nil
			}
		}
		return nil, errors.NewInvalidOption("encoding", name)
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, errors.NewInvalidOption("encoding", name)
	}
	return enc, nil
}

// StringEncoder writes inline strings: the text converted to the charset
// followed or preceded by its delimiter.
type StringEncoder struct {
	Width   StringWidth
	Charset encoding.Encoding
}

// Encode converts s to the configured charset.
func (e StringEncoder) Encode(s string) ([]byte, error) {
	if e.Charset == nil || e.Charset == unicode.UTF8 {
		return []byte(s), nil
	}
	out, err := e.Charset.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", s, err)
	}
	return out, nil
}

// Write emits s with its length prefix or terminator.
func (e StringEncoder) Write(w *Writer, s string) error {
	raw, err := e.Encode(s)
	if err != nil {
		return err
	}
	n := len(raw)
	switch e.Width {
	case String8:
		w.Uint8(uint8(n))
	case String16:
		w.Int16(int16(n))
	case String32:
		w.Int32(int32(n))
	case String64:
		w.Int64(int64(n))
	case StringNullTerminated:
		w.Bytes(raw)
		w.Uint8(0)
		return w.Err()
	default:
		w.Varint32(int32(n))
	}
	w.Bytes(raw)
	return w.Err()
}
