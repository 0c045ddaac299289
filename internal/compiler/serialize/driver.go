package serialize

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/x2bin-lang/x2bin/internal/compiler/document"
	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
	"github.com/x2bin-lang/x2bin/internal/compiler/schema"
	"github.com/x2bin-lang/x2bin/internal/compiler/wire"
	"github.com/x2bin-lang/x2bin/internal/utils"
)

// Job is one input file or directory compiled against a schema root.
type Job struct {
	Root *schema.Node
	// Input is an XML file or a directory searched recursively for files
	// named *<Extension>.xml.
	Input     string
	Extension string
	// Singleton stops after the first record and omits the record count.
	Singleton bool
}

// Records is the primary stream produced by a job.
type Records struct {
	Count     int
	Singleton bool
	Data      []byte
	// Files is the number of documents read; Skipped lists the invalid
	// ones.
	Files   int
	Skipped []string
}

// Run serializes every record of the job's input. Invalid documents are
// skipped with a warning; any other error aborts the run.
func (c *Context) Run(ctx context.Context, job Job) (*Records, error) {
	files, err := c.discover(job)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	rec := &Records{Singleton: job.Singleton}

	if job.Singleton {
		// Documents are read one at a time so that nothing past the first
		// record is parsed.
		for _, file := range files {
			doc, err := c.load(file, rec)
			if err != nil {
				return nil, err
			}
			if doc == nil {
				continue
			}
			n, err := c.serializeDocument(w, file, doc, job.Root, true)
			if err != nil {
				return nil, err
			}
			rec.Count += n
			if rec.Count > 0 {
				break
			}
		}
	} else {
		docs, err := c.loadAll(ctx, files, rec)
		if err != nil {
			return nil, err
		}
		for i, doc := range docs {
			if doc == nil {
				continue
			}
			n, err := c.serializeDocument(w, files[i], doc, job.Root, false)
			if err != nil {
				return nil, err
			}
			rec.Count += n
		}
	}

	if err := w.Err(); err != nil {
		return nil, err
	}
	rec.Data = buf.Bytes()
	c.logger.Debug("job serialized",
		zap.String("input", job.Input),
		zap.Int("records", rec.Count),
		zap.Int("files", rec.Files),
		zap.Int("bytes", len(rec.Data)))
	return rec, nil
}

// WritePrimary writes the record count, unless singleton, and the records.
func (c *Context) WritePrimary(w *wire.Writer, rec *Records) error {
	if !rec.Singleton {
		c.WriteCount(w, rec.Count)
	}
	w.Bytes(rec.Data)
	return w.Err()
}

func (c *Context) discover(job Job) ([]string, error) {
	if !utils.IsDir(job.Input) {
		if _, err := os.Stat(job.Input); err != nil {
			return nil, fmt.Errorf("input not found: %w", err)
		}
		return []string{job.Input}, nil
	}

	if job.Singleton {
		c.logger.Warn("parsing a directory in singleton mode, only the first record is kept",
			zap.String("input", job.Input))
	}
	files, err := utils.FindInputFiles(job.Input, job.Extension+".xml")
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", job.Input, err)
	}
	c.logger.Debug("discovered documents", zap.String("input", job.Input), zap.Int("files", len(files)))
	return files, nil
}

// load reads one document. Unreadable files are errors; malformed documents
// are reported and yield nil.
func (c *Context) load(file string, rec *Records) (*document.Element, error) {
	doc, err := document.ReadXMLFile(file)
	if err == nil {
		rec.Files++
		return doc, nil
	}
	var pathErr *fs.PathError
	if stderrors.As(err, &pathErr) {
		return nil, err
	}
	c.skip(file, err, rec)
	return nil, nil
}

// loadAll parses documents concurrently. The result is index-aligned with
// files; skipped documents are nil.
func (c *Context) loadAll(ctx context.Context, files []string, rec *Records) ([]*document.Element, error) {
	docs := make([]*document.Element, len(files))
	invalid := make([]error, len(files))

	limit := c.opts.Parallel
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, file := range files {
		i, file := i, file // per-iteration copies; go directive is below 1.22
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := document.ReadXMLFile(file)
			if err != nil {
				var pathErr *fs.PathError
				if stderrors.As(err, &pathErr) {
					return err
				}
				invalid[i] = err
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, err := range invalid {
		if err != nil {
			c.skip(files[i], err, rec)
		} else {
			rec.Files++
		}
	}
	return docs, nil
}

func (c *Context) skip(file string, cause error, rec *Records) {
	warning := errors.NewInvalidDocument(file, cause)
	c.logger.Warn(warning.Message, zap.String("file", file), zap.String("code", string(warning.Code)))
	rec.Skipped = append(rec.Skipped, file)
}

// serializeDocument writes the document root when it matches the schema
// root, or else every matching child of the wrapping root element.
func (c *Context) serializeDocument(w *wire.Writer, file string, doc *document.Element, root *schema.Node, singleton bool) (int, error) {
	c.pos = Position{File: file, Line: doc.Line, Element: doc.Name}

	if matchesName(root.Name, doc.Name) {
		if err := c.SerializeElement(w, doc, root); err != nil {
			return 0, err
		}
		return 1, nil
	}

	count := 0
	for _, elem := range doc.Children {
		if !matchesName(root.Name, elem.Name) {
			continue
		}
		if err := c.SerializeElement(w, elem, root); err != nil {
			return count, err
		}
		count++
		if singleton {
			break
		}
	}
	if count == 0 {
		c.logger.Debug("document has no matching records",
			zap.String("file", file), zap.String("root", doc.Name), zap.String("want", root.Name))
	} else {
		c.logger.Debug("document serialized", zap.String("file", file), zap.Int("records", count))
	}
	return count, nil
}

func matchesName(names, name string) bool {
	for _, candidate := range strings.Split(names, "|") {
		if candidate == name {
			return true
		}
	}
	return false
}
