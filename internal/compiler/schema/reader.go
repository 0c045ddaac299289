package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/x2bin-lang/x2bin/internal/compiler/enum"
	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
	"github.com/x2bin-lang/x2bin/internal/compiler/literal"
)

// Reader builds schemas from YAML definitions. Recursive nodes registered by
// any definition read through the same Reader, including $$include'd files,
// are visible to every later definition.
type Reader struct {
	parser   literal.Parser
	enums    enum.Resolver
	logger   *zap.Logger
	registry map[string]*Node
	pending  []pendingRef
	included map[string]bool
}

type pendingRef struct {
	node     *Node
	file     string
	zeroFill bool
	required bool
}

// NewReader creates a Reader. enums may be nil when no schema uses ENUM
// defaults; logger may be nil.
func NewReader(parser literal.Parser, enums enum.Resolver, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		parser:   parser,
		enums:    enums,
		logger:   logger,
		registry: make(map[string]*Node),
		included: make(map[string]bool),
	}
}

// ReadFile reads the definition at path and returns its schema.
func (r *Reader) ReadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return r.Read(path, data)
}

// Files returns the absolute paths of every definition read so far, the
// included libraries among them, sorted.
func (r *Reader) Files() []string {
	files := make([]string, 0, len(r.included))
	for f := range r.included {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Read parses a definition. file names the source for diagnostics and is the
// base for relative $$include paths.
func (r *Reader) Read(file string, data []byte) (*Schema, error) {
	if abs, err := filepath.Abs(file); err == nil {
		r.included[abs] = true
	}
	root, err := r.read(file, data)
	if err != nil {
		r.pending = nil
		return nil, err
	}
	if err := r.link(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errors.NewNoRootNode(file)
	}

	nodes := make(map[string]*Node, len(r.registry))
	for name, n := range r.registry {
		nodes[name] = n
	}
	return &Schema{Root: root, nodes: nodes}, nil
}

// read processes the top-level entries of one definition and returns the
// first ordinary entry, or nil if there is none.
func (r *Reader) read(file string, data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewSchemaDefinition(file, 0, "invalid YAML: %v", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	top := unalias(doc.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, errors.NewSchemaDefinition(file, top.Line, "top level of a schema must be a mapping")
	}

	var root *Node
	for i := 0; i+1 < len(top.Content); i += 2 {
		k, v := top.Content[i], top.Content[i+1]

		if path, ok := IsInclude(k.Value); ok {
			if err := r.include(file, k, path, v); err != nil {
				return nil, err
			}
			continue
		}

		mods := ParseModifiers(k.Value)
		if mods.Auxiliary {
			if _, err := r.readNode(file, k, v); err != nil {
				return nil, err
			}
			continue
		}
		if root != nil {
			r.logger.Warn("ignoring extra top-level schema key",
				zap.String("file", file), zap.Int("line", k.Line), zap.String("key", k.Value))
			continue
		}

		n, err := r.readNode(file, k, v)
		if err != nil {
			return nil, err
		}
		root = n
	}
	return root, nil
}

func (r *Reader) include(file string, k *yaml.Node, path string, v *yaml.Node) error {
	var paths []string
	if path != "" {
		paths = append(paths, path)
	} else {
		v = unalias(v)
		switch v.Kind {
		case yaml.ScalarNode:
			paths = append(paths, v.Value)
		case yaml.SequenceNode:
			for _, item := range v.Content {
				if item.Kind != yaml.ScalarNode {
					return errors.NewSchemaDefinition(file, item.Line, "$$include entries must be file paths")
				}
				paths = append(paths, item.Value)
			}
		default:
			return errors.NewSchemaDefinition(file, k.Line, "$$include expects a file path or a list of paths")
		}
	}

	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			return errors.NewSchemaDefinition(file, k.Line, "$$include with an empty path")
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(file), p)
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve include %s: %w", p, err)
		}
		if r.included[abs] {
			r.logger.Debug("schema already included", zap.String("file", abs))
			continue
		}
		r.included[abs] = true

		data, err := os.ReadFile(p)
		if err != nil {
			return errors.NewSchemaDefinition(file, k.Line, "cannot include %s: %v", p, err).WithCause(err)
		}
		r.logger.Debug("including schema library", zap.String("file", p))
		// The library's own root is parsed for its registrations and dropped.
		if _, err := r.read(p, data); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) readNode(file string, k, v *yaml.Node) (*Node, error) {
	if k.Kind != yaml.ScalarNode {
		return nil, errors.NewSchemaDefinition(file, k.Line, "schema keys must be scalars")
	}
	mods := ParseModifiers(k.Value)
	if mods.Special == keyDefault {
		return nil, errors.NewSchemaDefinition(file, k.Line, "$default is only valid inside a mapping")
	}
	if mods.Special == "" && mods.Name == "" {
		return nil, errors.NewSchemaDefinition(file, k.Line, "key %q has no field name", k.Value)
	}

	v = unalias(v)
	switch v.Kind {
	case yaml.ScalarNode:
		return r.scalarNode(file, k.Line, mods, v)
	case yaml.SequenceNode:
		return r.sequenceNode(file, k.Line, mods, v)
	case yaml.MappingNode:
		return r.mappingNode(file, k.Line, mods, v)
	default:
		return nil, errors.NewSchemaDefinition(file, k.Line, "unsupported value for %s", k.Value)
	}
}

// scalarNode handles `key: TYPE` and `key: $Name`.
func (r *Reader) scalarNode(file string, line int, mods Modifiers, v *yaml.Node) (*Node, error) {
	text := strings.TrimSpace(v.Value)
	if text == "" || v.Tag == "!!null" {
		return nil, errors.NewSchemaDefinition(file, line, "field %s has no type", displayKey(mods))
	}
	if strings.HasPrefix(text, "$") {
		return r.reference(file, line, mods, text[1:])
	}

	typ, ok := literal.ParseType(text)
	if !ok {
		return nil, errors.NewUnknownType(text).WithLocation(errors.Location{File: file, Line: line})
	}
	if typ == literal.Enum {
		return nil, errors.NewSchemaDefinition(file, line, "ENUM fields are declared as [ENUM, TypeName, default?]")
	}
	return r.leaf(file, line, mods, typ, nil), nil
}

// sequenceNode handles `key: [ENUM, Type, member?]` and `key: [TYPE, default]`.
func (r *Reader) sequenceNode(file string, line int, mods Modifiers, v *yaml.Node) (*Node, error) {
	if len(v.Content) == 0 {
		return nil, errors.NewSchemaDefinition(file, line, "field %s has an empty type list", displayKey(mods))
	}
	first := unalias(v.Content[0])
	if first.Kind != yaml.ScalarNode {
		return nil, errors.NewSchemaDefinition(file, first.Line, "a type list starts with a type name")
	}

	head := strings.TrimSpace(first.Value)
	if strings.EqualFold(head, "ENUM") {
		return r.enumNode(file, line, mods, v)
	}

	typ, ok := literal.ParseType(head)
	if !ok {
		return nil, errors.NewUnknownType(head).WithLocation(errors.Location{File: file, Line: line})
	}
	switch len(v.Content) {
	case 1:
		return r.leaf(file, line, mods, typ, nil), nil
	case 2:
		def, err := r.parseDefault(file, line, v.Content[1], typ)
		if err != nil {
			return nil, err
		}
		return r.leaf(file, line, mods, typ, def), nil
	default:
		return nil, errors.NewSchemaDefinition(file, line, "expected [%s, default], got %d entries", head, len(v.Content))
	}
}

func (r *Reader) enumNode(file string, line int, mods Modifiers, v *yaml.Node) (*Node, error) {
	if len(v.Content) < 2 || len(v.Content) > 3 {
		return nil, errors.NewSchemaDefinition(file, line, "expected [ENUM, TypeName, default?]")
	}
	for _, item := range v.Content[1:] {
		if unalias(item).Kind != yaml.ScalarNode {
			return nil, errors.NewSchemaDefinition(file, item.Line, "ENUM type and default are scalars")
		}
	}
	typeName := strings.TrimSpace(unalias(v.Content[1]).Value)
	if typeName == "" {
		return nil, errors.NewSchemaDefinition(file, line, "ENUM without a type name")
	}

	def := []literal.Literal{literal.NewInt(literal.Int, 0)}
	if len(v.Content) == 3 {
		member := unalias(v.Content[2]).Value
		if r.enums == nil {
			return nil, errors.NewNoEnumResolver(typeName).WithLocation(errors.Location{File: file, Line: line})
		}
		val, err := r.enums.Resolve(typeName, member)
		if err != nil {
			return nil, errors.Annotate(err, errors.Location{File: file, Line: line})
		}
		def = []literal.Literal{literal.NewInt(literal.Int, val)}
	}

	n := r.leaf(file, line, mods, literal.Enum, def)
	n.EnumType = typeName
	return n, nil
}

// mappingNode handles composite nodes and the mapping form of captures and
// attributes, whose only meaningful entry is $default.
func (r *Reader) mappingNode(file string, line int, mods Modifiers, v *yaml.Node) (*Node, error) {
	var (
		def     []literal.Literal
		entries [][2]*yaml.Node
	)
	for i := 0; i+1 < len(v.Content); i += 2 {
		k, val := v.Content[i], v.Content[i+1]
		if strings.TrimSpace(k.Value) == keyDefault {
			d, err := r.parseDefault(file, k.Line, val, literal.None)
			if err != nil {
				return nil, err
			}
			def = d
			continue
		}
		entries = append(entries, [2]*yaml.Node{k, val})
	}

	if mods.Attribute || (mods.Special != "" && mods.Special != keyAny) {
		if len(entries) > 0 {
			r.logger.Warn("children of a value field are ignored",
				zap.String("file", file), zap.Int("line", line), zap.String("field", displayKey(mods)))
		}
		n := r.leaf(file, line, mods, literal.None, def)
		if def == nil && mods.ZeroFill && !mods.Required {
			n.Default = []literal.Literal{literal.Count(0)}
		}
		return n, nil
	}

	n := &Node{
		Name:     mods.Name,
		Kind:     KindElement,
		Array:    mods.Array,
		Presence: mods.Presence,
		Line:     line,
		Default:  def,
	}
	if mods.Special == keyAny {
		n.Kind = KindElementWildcard
		n.Array = false
	}
	if n.Default == nil && mods.ZeroFill {
		n.Default = []literal.Literal{literal.Count(0)}
	}
	if mods.Required {
		n.Default = nil
	}
	if mods.Recursive {
		if _, exists := r.registry[mods.Name]; exists {
			r.logger.Debug("recursive node redefined", zap.String("name", mods.Name),
				zap.String("file", file), zap.Int("line", line))
		}
		r.registry[mods.Name] = n
	}

	children := make([]*Node, 0, len(entries))
	for _, e := range entries {
		child, err := r.readNode(file, e[0], e[1])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	n.children = children
	return n, nil
}

// leaf builds a single-value node. A nil def selects the type's default.
func (r *Reader) leaf(file string, line int, mods Modifiers, typ literal.Type, def []literal.Literal) *Node {
	n := &Node{
		Type:     typ,
		Array:    mods.Array,
		Presence: mods.Presence,
		Line:     line,
		leaf:     true,
	}
	switch mods.Special {
	case keyName:
		n.Kind = KindNameCapture
	case keyValue:
		n.Kind = KindTextCapture
	case keyAny:
		n.Kind = KindElementWildcard
		n.Array = false
	case keyAttrs:
		n.Kind = KindAttributeWildcard
		n.Array = false
	default:
		n.Name = mods.Name
		n.Kind = KindElementLeaf
		if mods.Attribute {
			n.Kind = KindAttribute
		}
	}

	if mods.Recursive {
		r.logger.Warn("recursive declaration of a value field is not registered",
			zap.String("file", file), zap.Int("line", line), zap.String("field", mods.Name))
	}

	if def == nil {
		def = literal.Default(typ)
	}
	if mods.Required {
		def = nil
	}
	n.Default = def
	return n
}

// reference builds a node copying the recursive node name once linked.
func (r *Reader) reference(file string, line int, mods Modifiers, name string) (*Node, error) {
	if mods.Attribute || (mods.Special != "" && mods.Special != keyAny) {
		return nil, errors.NewSchemaDefinition(file, line, "%s cannot reference recursive node $%s", displayKey(mods), name)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewSchemaDefinition(file, line, "empty recursive node reference")
	}

	n := &Node{
		Name:     mods.Name,
		Kind:     KindElement,
		Array:    mods.Array,
		Presence: mods.Presence,
		Line:     line,
		ref:      name,
	}
	if mods.Special == keyAny {
		n.Kind = KindElementWildcard
		n.Array = false
	}
	r.pending = append(r.pending, pendingRef{
		node:     n,
		file:     file,
		zeroFill: mods.ZeroFill,
		required: mods.Required,
	})
	return n, nil
}

// link resolves references now that every recursive node is registered.
func (r *Reader) link() error {
	pending := r.pending
	r.pending = nil
	for _, p := range pending {
		n := p.node
		target, ok := r.registry[n.ref]
		if !ok {
			return errors.NewUnresolvedReference(p.file, n.Line, n.ref)
		}
		n.children = target.children
		n.Array = (n.Array || target.Array) && n.Kind != KindElementWildcard
		n.Presence = n.Presence || target.Presence
		n.Default = target.Default
		if n.Default == nil && p.zeroFill {
			n.Default = []literal.Literal{literal.Count(0)}
		}
		if p.required {
			n.Default = nil
		}
	}
	return nil
}

// parseDefault reads a default value. A scalar is parsed against typ; a
// sequence holds one inferred literal per item.
func (r *Reader) parseDefault(file string, line int, v *yaml.Node, typ literal.Type) ([]literal.Literal, error) {
	v = unalias(v)
	loc := errors.Location{File: file, Line: v.Line}
	switch v.Kind {
	case yaml.ScalarNode:
		if typ.Arity() > 0 {
			lits, err := literal.ParseTuple(v.Value, typ)
			return lits, errors.Annotate(err, loc)
		}
		if typ == literal.Enum {
			return nil, errors.NewSchemaDefinition(file, line, "ENUM defaults are given as [ENUM, TypeName, member]")
		}
		lit, err := r.parser.Parse(v.Value, typ)
		if err != nil {
			return nil, errors.Annotate(err, loc)
		}
		return []literal.Literal{lit}, nil
	case yaml.SequenceNode:
		out := make([]literal.Literal, 0, len(v.Content))
		for _, item := range v.Content {
			item = unalias(item)
			if item.Kind != yaml.ScalarNode {
				return nil, errors.NewSchemaDefinition(file, item.Line, "default values must be scalars")
			}
			lit, err := r.parser.Parse(item.Value, literal.None)
			if err != nil {
				return nil, errors.Annotate(err, loc)
			}
			out = append(out, lit)
		}
		return out, nil
	default:
		return nil, errors.NewSchemaDefinition(file, line, "a mapping is not a valid default value")
	}
}

func unalias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func displayKey(m Modifiers) string {
	if m.Special != "" {
		return m.Special
	}
	return m.Name
}
