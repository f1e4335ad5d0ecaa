// Package catalog holds the closed set of characters a founder can be
// assigned. It is loaded once at startup and read-only afterwards.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrCatalogLoad      = errors.New("CATALOG_LOAD_FAILED")
	ErrUnknownCharacter = errors.New("UNKNOWN_CHARACTER")
)

// Character is one assignable identity.
type Character struct {
	Name     string `json:"name"`
	ImageRef string `json:"image_ref"`
}

// Catalog keeps characters in file order plus a name index.
type Catalog struct {
	characters []Character
	byName     map[string]string
}

// Load reads a JSON array of [name, image_ref] pairs from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCatalogLoad, path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from the same encoding Load reads.
func Parse(data []byte) (*Catalog, error) {
	var pairs [][]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCatalogLoad, err)
	}

	c := &Catalog{
		characters: make([]Character, 0, len(pairs)),
		byName:     make(map[string]string, len(pairs)),
	}
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: entry %d has %d fields, want 2", ErrCatalogLoad, i, len(pair))
		}
		name, ref := pair[0], pair[1]
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: entry %d has an empty name", ErrCatalogLoad, i)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate character %q", ErrCatalogLoad, name)
		}
		c.byName[name] = ref
		c.characters = append(c.characters, Character{Name: name, ImageRef: ref})
	}

	return c, nil
}

// ImageRefFor returns the image reference of the named character.
func (c *Catalog) ImageRefFor(name string) (string, error) {
	ref, ok := c.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCharacter, name)
	}
	return ref, nil
}

// Names returns character names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.characters))
	for i, ch := range c.characters {
		names[i] = ch.Name
	}
	return names
}

func (c *Catalog) Characters() []Character {
	out := make([]Character, len(c.characters))
	copy(out, c.characters)
	return out
}

func (c *Catalog) Len() int {
	return len(c.characters)
}
