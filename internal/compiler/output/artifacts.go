package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/x2bin-lang/x2bin/internal/compiler/serialize"
	"github.com/x2bin-lang/x2bin/internal/compiler/wire"
)

const (
	// DictionaryFile is the string table when nothing was localized.
	DictionaryFile = "dict.xbin"
	// ScriptsFile is the script table.
	ScriptsFile = "scripts.xbin"
	// TableExt names per-language string tables, <LANG>.xbin.
	TableExt = ".xbin"
)

// ArtifactKind identifies what an artifact holds.
type ArtifactKind string

const (
	KindPrimary    ArtifactKind = "primary"
	KindDictionary ArtifactKind = "dictionary"
	KindScripts    ArtifactKind = "scripts"
)

// Artifact is one file written by a run.
type Artifact struct {
	Kind ArtifactKind
	Path string
	// Lang is the language tag of a localized dictionary.
	Lang string
	// Size is the number of bytes on disk.
	Size int64
}

// DictionaryPath returns where the string table for lang is written. An
// empty lang is the unlocalized dict.xbin.
func DictionaryPath(dir, lang string) string {
	if lang == "" {
		return filepath.Join(dir, DictionaryFile)
	}
	return filepath.Join(dir, lang+TableExt)
}

// Writer creates artifact files through a Compressor.
type Writer struct {
	compressor Compressor
	logger     *zap.Logger
}

// NewWriter creates an artifact writer. A nil compressor writes plain files
// and a nil logger discards output.
func NewWriter(compressor Compressor, logger *zap.Logger) *Writer {
	if compressor == nil {
		compressor = CompressionNone
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{compressor: compressor, logger: logger}
}

// WritePrimary writes a job's records to path.
func (w *Writer) WritePrimary(path string, sc *serialize.Context, rec *serialize.Records) (Artifact, error) {
	return w.writeFile(Artifact{Kind: KindPrimary, Path: path}, func(ww *wire.Writer) error {
		return sc.WritePrimary(ww, rec)
	})
}

// WriteTables writes the shared tables of sc into dir: dict.xbin, or one
// <LANG>.xbin per language tag when any string was localized, then
// scripts.xbin.
func (w *Writer) WriteTables(ctx context.Context, dir string, sc *serialize.Context) ([]Artifact, error) {
	langs := sc.Languages()
	if len(langs) == 0 {
		langs = []string{""}
	}

	artifacts := make([]Artifact, 0, len(langs)+1)
	for _, lang := range langs {
		a, err := w.writeFile(Artifact{Kind: KindDictionary, Path: DictionaryPath(dir, lang), Lang: lang},
			func(ww *wire.Writer) error {
				return sc.WriteStringTable(ww, lang)
			})
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}

	a, err := w.writeFile(Artifact{Kind: KindScripts, Path: filepath.Join(dir, ScriptsFile)},
		func(ww *wire.Writer) error {
			return sc.WriteScriptTable(ctx, ww)
		})
	if err != nil {
		return nil, err
	}
	return append(artifacts, a), nil
}

func (w *Writer) writeFile(a Artifact, fill func(*wire.Writer) error) (Artifact, error) {
	if dir := filepath.Dir(a.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return a, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(a.Path)
	if err != nil {
		return a, fmt.Errorf("failed to create %s: %w", a.Path, err)
	}
	defer f.Close()

	stream, err := w.compressor.Wrap(f)
	if err != nil {
		return a, fmt.Errorf("failed to start compression for %s: %w", a.Path, err)
	}
	if err := fill(wire.NewWriter(stream)); err != nil {
		stream.Close()
		return a, fmt.Errorf("failed to write %s: %w", a.Path, err)
	}
	if err := stream.Close(); err != nil {
		return a, fmt.Errorf("failed to finish %s: %w", a.Path, err)
	}
	if err := f.Close(); err != nil {
		return a, fmt.Errorf("failed to close %s: %w", a.Path, err)
	}

	if info, err := os.Stat(a.Path); err == nil {
		a.Size = info.Size()
	}
	w.logger.Debug("wrote artifact",
		zap.String("kind", string(a.Kind)),
		zap.String("path", a.Path),
		zap.Int64("bytes", a.Size))
	return a, nil
}
