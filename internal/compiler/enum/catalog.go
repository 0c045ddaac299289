// Package enum resolves enum member names to their integer values.
package enum

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
)

// Resolver maps a member name of a named enum type to its value.
type Resolver interface {
	Resolve(typeName, member string) (int64, error)
}

// Catalog is a Resolver backed by a YAML type catalog. Each top-level key
// names an enum type; its value is either a mapping of member to value or a
// list of members numbered from zero.
//
//	ItemKind:
//	  Weapon: 0
//	  Armor: 4
//	Element: [Fire, Water, Earth]
type Catalog struct {
	types map[string]map[string]int64
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]map[string]int64)}
}

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read enum catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid enum catalog: %w", err)
	}

	c := NewCatalog()
	for typeName, node := range raw {
		switch node.Kind {
		case yaml.MappingNode:
			var members map[string]int64
			if err := node.Decode(&members); err != nil {
				return nil, fmt.Errorf("enum %s: %w", typeName, err)
			}
			c.types[typeName] = members
		case yaml.SequenceNode:
			var names []string
			if err := node.Decode(&names); err != nil {
				return nil, fmt.Errorf("enum %s: %w", typeName, err)
			}
			members := make(map[string]int64, len(names))
			for i, name := range names {
				members[name] = int64(i)
			}
			c.types[typeName] = members
		default:
			return nil, fmt.Errorf("enum %s: expected a mapping or a list of members (line %d)", typeName, node.Line)
		}
	}
	return c, nil
}

// Add registers a member value.
func (c *Catalog) Add(typeName, member string, value int64) {
	members, ok := c.types[typeName]
	if !ok {
		members = make(map[string]int64)
		c.types[typeName] = members
	}
	members[member] = value
}

// Resolve implements Resolver. Surrounding whitespace in member is ignored.
func (c *Catalog) Resolve(typeName, member string) (int64, error) {
	if v, ok := c.types[typeName][strings.TrimSpace(member)]; ok {
		return v, nil
	}
	return 0, errors.NewUnknownEnumMember(typeName, strings.TrimSpace(member))
}

// Types returns the catalog's type names, sorted.
func (c *Catalog) Types() []string {
	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
