// Package output writes the artifacts of a compilation run: the primary
// record file of each job and the string and script tables.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
)

// Compressor wraps an artifact stream. Close must flush the compressed
// stream without closing w.
type Compressor interface {
	Wrap(w io.Writer) (io.WriteCloser, error)
}

// Compression is a built-in Compressor.
type Compression int

const (
	// CompressionNone writes artifacts as is.
	CompressionNone Compression = iota
	// CompressionZlib writes a zlib stream at best compression.
	CompressionZlib
)

var compressionNames = []string{"none", "zlib"}

// ParseCompression resolves a --compression value. Blank means none.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, nil
	case "zlib":
		return CompressionZlib, nil
	}
	return 0, errors.NewInvalidOption("compression", name, compressionNames...)
}

func (c Compression) String() string {
	if int(c) < len(compressionNames) {
		return compressionNames[c]
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// Wrap implements Compressor.
func (c Compression) Wrap(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CompressionZlib:
		return zlib.NewWriterLevel(w, zlib.BestCompression)
	default:
		return nopCloser{w}, nil
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
