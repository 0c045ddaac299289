package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x2bin-lang/x2bin/internal/compiler/enum"
	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
	"github.com/x2bin-lang/x2bin/internal/compiler/literal"
)

// shape is a comparable projection of a node tree.
type shape struct {
	Name     string
	Kind     Kind
	Type     string
	Array    bool
	Presence bool
	Required bool
	Children []shape
}

func shapeOf(n *Node, depth int) shape {
	s := shape{
		Name:     n.Name,
		Kind:     n.Kind,
		Array:    n.Array,
		Presence: n.Presence,
		Required: n.Required(),
	}
	if n.IsLeaf() {
		s.Type = n.Type.String()
	}
	if depth > 0 {
		for _, c := range n.Children() {
			s.Children = append(s.Children, shapeOf(c, depth-1))
		}
	}
	return s
}

func read(t *testing.T, src string) *Schema {
	t.Helper()
	s, err := NewReader(literal.Parser{}, nil, nil).Read("test.yml", []byte(src))
	require.NoError(t, err)
	return s
}

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		key  string
		want Modifiers
	}{
		{"Item", Modifiers{Name: "Item"}},
		{"~id", Modifiers{Name: "id", Attribute: true}},
		{"Tags*", Modifiers{Name: "Tags", Array: true}},
		{"Icon?", Modifiers{Name: "Icon", Presence: true}},
		{"Stats+", Modifiers{Name: "Stats", ZeroFill: true}},
		{"Key!", Modifiers{Name: "Key", Required: true}},
		{"Slots*?", Modifiers{Name: "Slots", Array: true, Presence: true}},
		{"$Tree", Modifiers{Name: "Tree", Recursive: true}},
		{"$Tree*", Modifiers{Name: "Tree", Recursive: true, Array: true}},
		{"$$Library", Modifiers{Name: "Library", Recursive: true, Auxiliary: true}},
		{"$name", Modifiers{Special: "$name"}},
		{"$value", Modifiers{Special: "$value"}},
		{"$any", Modifiers{Special: "$any"}},
		{"$attrs", Modifiers{Special: "$attrs"}},
		{"$default", Modifiers{Special: "$default"}},
		{"Sword|Blade", Modifiers{Name: "Sword|Blade"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseModifiers(tt.key))
		})
	}
}

func TestIsInclude(t *testing.T) {
	p, ok := IsInclude("$$include")
	assert.True(t, ok)
	assert.Equal(t, "", p)

	p, ok = IsInclude("$$include common.yml")
	assert.True(t, ok)
	assert.Equal(t, "common.yml", p)

	_, ok = IsInclude("$$includes")
	assert.False(t, ok)
}

func TestReadTree(t *testing.T) {
	s := read(t, `
Item:
  $name: STRING
  ~id!: INT
  ~icon?: STRING
  Damage: [FLOAT, 1.5]
  Tags*: STRING
  Pos: [TUPLE3, "1 2 3"]
  Stats:
    $default: 0
    Hp: INT
  Extra:
    Note: STRING
  $value: STRING_TRIM
  $attrs: INT
  $any:
    $name: STRING
`)
	want := shape{Name: "Item", Kind: KindElement, Required: true, Children: []shape{
		{Kind: KindNameCapture, Type: "STRING"},
		{Name: "id", Kind: KindAttribute, Type: "INT", Required: true},
		{Name: "icon", Kind: KindAttribute, Type: "STRING", Presence: true},
		{Name: "Damage", Kind: KindElementLeaf, Type: "FLOAT"},
		{Name: "Tags", Kind: KindElementLeaf, Type: "STRING", Array: true},
		{Name: "Pos", Kind: KindElementLeaf, Type: "TUPLE3"},
		{Name: "Stats", Kind: KindElement, Children: []shape{
			{Name: "Hp", Kind: KindElementLeaf, Type: "INT"},
		}},
		{Name: "Extra", Kind: KindElement, Required: true, Children: []shape{
			{Name: "Note", Kind: KindElementLeaf, Type: "STRING"},
		}},
		{Kind: KindTextCapture, Type: "STRING_TRIM"},
		{Kind: KindAttributeWildcard, Type: "INT"},
		{Kind: KindElementWildcard, Required: true, Children: []shape{
			{Kind: KindNameCapture, Type: "STRING"},
		}},
	}}
	if diff := cmp.Diff(want, shapeOf(s.Root, 3)); diff != "" {
		t.Errorf("schema tree mismatch (-want +got):\n%s", diff)
	}

	children := s.Root.Children()
	assert.Equal(t, []literal.Literal{literal.NewFloat(literal.Float, 1.5)}, children[3].Default)
	assert.Equal(t, []literal.Literal{
		literal.NewInt(literal.Int, 1), literal.NewInt(literal.Int, 2), literal.NewInt(literal.Int, 3),
	}, children[5].Default)
	assert.Equal(t, []literal.Literal{literal.NewInt(literal.Int, 0)}, children[6].Default)
	assert.Equal(t, 4, children[1].Line)
}

func TestZeroFillAndListDefaults(t *testing.T) {
	s := read(t, `
Root:
  Opt+:
    A: INT
  Vec:
    $default: [1, 2.5, x]
    A: INT
`)
	children := s.Root.Children()
	assert.Equal(t, []literal.Literal{literal.Count(0)}, children[0].Default)
	assert.Equal(t, []literal.Literal{
		literal.NewInt(literal.Int, 1),
		literal.NewFloat(literal.Float, 2.5),
		literal.NewString(literal.String, "x"),
	}, children[1].Default)
}

func TestValueFieldMappings(t *testing.T) {
	s := read(t, `
Root:
  ~level:
    $default: 3
  $value:
    $default: none
`)
	children := s.Root.Children()
	require.Len(t, children, 2)

	assert.True(t, children[0].IsLeaf())
	assert.Equal(t, KindAttribute, children[0].Kind)
	assert.Equal(t, literal.None, children[0].Type, "mapping form infers the type from the text")
	assert.Equal(t, []literal.Literal{literal.NewInt(literal.Int, 3)}, children[0].Default)

	assert.Equal(t, KindTextCapture, children[1].Kind)
	assert.Equal(t, []literal.Literal{literal.NewString(literal.String, "none")}, children[1].Default)
}

func TestRecursiveReferences(t *testing.T) {
	s := read(t, `
$$Stat:
  ~name: STRING
  ~value: INT
Tree:
  $Node:
    ~id: INT
    Child*: $Node
  Stats*?: $Stat
  Bonus!: $Stat
`)
	root := s.Root
	require.Len(t, root.Children(), 3)

	node, ok := s.Lookup("Node")
	require.True(t, ok)
	child := node.Children()[1]
	assert.Equal(t, "Child", child.Name)
	assert.True(t, child.Array)
	assert.Equal(t, "Node", child.Reference())
	assert.Same(t, node.Children()[0], child.Children()[0], "references share the registered subtree")
	assert.Same(t, child, child.Children()[1], "self references close the loop")

	stats := root.Children()[1]
	assert.Equal(t, "Stats", stats.Name)
	assert.True(t, stats.Array)
	assert.True(t, stats.Presence)
	require.Len(t, stats.Children(), 2)

	bonus := root.Children()[2]
	assert.True(t, bonus.Required())

	assert.Equal(t, []string{"Node", "Stat"}, s.Names())
}

func TestForwardReference(t *testing.T) {
	s := read(t, `
Root:
  Weapon: $Weapon
  $Weapon:
    ~dmg: INT
`)
	assert.Len(t, s.Root.Children()[0].Children(), 1)
}

func TestReferenceKeepsTargetModifiers(t *testing.T) {
	s := read(t, `
Root:
  $Entry*+:
    ~v: INT
  Other: $Entry
`)
	other := s.Root.Children()[1]
	assert.True(t, other.Array, "array-ness of the registered node carries over")
	assert.Equal(t, []literal.Literal{literal.Count(0)}, other.Default)
}

func TestAnyReference(t *testing.T) {
	s := read(t, `
Root:
  $$Part:
    $name: STRING
  $any: $Part
`)
	anyNode := s.Root.Children()[1]
	assert.Equal(t, KindElementWildcard, anyNode.Kind)
	require.Len(t, anyNode.Children(), 1)
}

func TestRootSelection(t *testing.T) {
	s := read(t, `
$$Lib:
  A: INT
First:
  B: INT
Second:
  C: INT
$$Late:
  D: INT
`)
	assert.Equal(t, "First", s.Root.Name)
	_, ok := s.Lookup("Late")
	assert.True(t, ok, "auxiliary roots after the active root are still registered")

	_, err := NewReader(literal.Parser{}, nil, nil).Read("lib.yml", []byte("$$Only:\n  A: INT\n"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrNoRootNode, errors.CodeOf(err))

	_, err = NewReader(literal.Parser{}, nil, nil).Read("empty.yml", nil)
	assert.Equal(t, errors.ErrNoRootNode, errors.CodeOf(err))
}

func TestInclude(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib", "common.yml")
	require.NoError(t, os.MkdirAll(filepath.Dir(lib), 0o755))
	require.NoError(t, os.WriteFile(lib, []byte(`
$$include: ../main.yml
$$Vec:
  ~x: INT
  ~y: INT
Unused:
  $Color:
    ~rgb: COLOR
`), 0o644))

	main := filepath.Join(dir, "main.yml")
	require.NoError(t, os.WriteFile(main, []byte(`
$$include lib/common.yml: ~
Sprite:
  Pos: $Vec
  Tint: $Color
`), 0o644))

	s, err := NewReader(literal.Parser{}, nil, nil).ReadFile(lib)
	require.NoError(t, err)
	assert.Equal(t, "Unused", s.Root.Name, "the included file's root is not adopted")

	r := NewReader(literal.Parser{}, nil, nil)
	s, err = r.ReadFile(main)
	require.NoError(t, err)
	assert.Equal(t, "Sprite", s.Root.Name)
	assert.Len(t, s.Root.Children()[0].Children(), 2)
	assert.Len(t, s.Root.Children()[1].Children(), 1)
	assert.Equal(t, []string{lib, main}, r.Files())
}

func TestFilesAfterFailedInclude(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.yml")
	require.NoError(t, os.WriteFile(lib, []byte("$$Vec:\n  ~x: BOGUS\n"), 0o644))
	main := filepath.Join(dir, "main.yml")
	require.NoError(t, os.WriteFile(main, []byte("$$include: lib.yml\nSprite:\n  Pos: $Vec\n"), 0o644))

	r := NewReader(literal.Parser{}, nil, nil)
	_, err := r.ReadFile(main)
	require.Error(t, err)
	assert.Equal(t, []string{lib, main}, r.Files(), "a broken library is still reported")
}

func TestEnumFields(t *testing.T) {
	catalog := enum.NewCatalog()
	catalog.Add("Kind", "Weapon", 1)
	catalog.Add("Kind", "Armor", 7)

	s, err := NewReader(literal.Parser{}, catalog, nil).Read("enum.yml", []byte(`
Item:
  ~kind: [ENUM, Kind, Armor]
  Alt: [enum, Kind]
  Must!: [ENUM, Kind]
`))
	require.NoError(t, err)
	children := s.Root.Children()

	assert.Equal(t, literal.Enum, children[0].Type)
	assert.Equal(t, "Kind", children[0].EnumType)
	assert.Equal(t, "kind", children[0].Name, "the field keeps its own name")
	assert.Equal(t, []literal.Literal{literal.NewInt(literal.Int, 7)}, children[0].Default)
	assert.Equal(t, []literal.Literal{literal.NewInt(literal.Int, 0)}, children[1].Default)
	assert.True(t, children[2].Required())

	_, err = NewReader(literal.Parser{}, catalog, nil).Read("enum.yml", []byte("Item:\n  k: [ENUM, Kind, Shield]\n"))
	assert.Equal(t, errors.ErrUnknownEnumMember, errors.CodeOf(err))

	_, err = NewReader(literal.Parser{}, nil, nil).Read("enum.yml", []byte("Item:\n  k: [ENUM, Kind, Armor]\n"))
	assert.Equal(t, errors.ErrNoEnumResolver, errors.CodeOf(err))
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.ErrorCode
		line int
	}{
		{"unknown type", "Root:\n  A: INTEGER\n", errors.ErrUnknownType, 2},
		{"unresolved reference", "Root:\n  A: $Missing\n", errors.ErrUnresolvedReference, 2},
		{"tuple arity", "Root:\n  P: [TUPLE3, \"1 2\"]\n", errors.ErrArityMismatch, 2},
		{"bad default", "Root:\n  P: [INT, abc]\n", errors.ErrTypeParse, 2},
		{"no type", "Root:\n  A:\n", errors.ErrSchemaDefinition, 2},
		{"bare enum", "Root:\n  A: ENUM\n", errors.ErrSchemaDefinition, 2},
		{"mapping default", "Root:\n  A: [INT, {x: 1}]\n", errors.ErrSchemaDefinition, 0},
		{"not a mapping", "- a\n- b\n", errors.ErrSchemaDefinition, 1},
		{"invalid yaml", "Root: [\n", errors.ErrSchemaDefinition, 0},
		{"default as field", "$default: INT\n", errors.ErrSchemaDefinition, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(literal.Parser{}, nil, nil).Read("bad.yml", []byte(tt.src))
			require.Error(t, err)
			ce, ok := errors.As(err)
			require.True(t, ok, err.Error())
			assert.Equal(t, tt.code, ce.Code)
			assert.Equal(t, "bad.yml", ce.Location.File)
			if tt.line > 0 {
				assert.Equal(t, tt.line, ce.Location.Line)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	s := read(t, `
Tree:
  $Node:
    ~id!: INT
    Child*: $Node
`)
	out := s.Root.Describe()
	assert.Contains(t, out, "Tree [required]")
	assert.Contains(t, out, "id: INT [attr required]")
	assert.Contains(t, out, "Child [array required] ($Node)")
	assert.Contains(t, out, "-> $Node")
	assert.Less(t, strings.Count(out, "\n"), 12, "recursion is printed once")
}
