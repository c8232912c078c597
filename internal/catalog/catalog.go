package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// AnyValue is the filter option meaning "no restriction"
const AnyValue = "Wszystkie"

// ErrNoItems is returned when a catalog file defines no artworks
var ErrNoItems = errors.New("catalog has no artworks")

// Item represents one artwork in the catalog
type Item struct {
	ID       int    `toml:"id"`
	Title    string `toml:"title"`
	Author   string `toml:"author"`
	Year     string `toml:"year"`
	Century  string `toml:"century"`
	Style    string `toml:"style"`
	Filename string `toml:"filename"`
	ImageURL string `toml:"image_url"` // Empty when the artwork has no remote image
}

// HasImageURL reports whether the item carries an explicit image URL
func (i *Item) HasImageURL() bool {
	return i.ImageURL != ""
}

// Catalog is an ordered, read-only list of artworks
type Catalog struct {
	Name  string
	Path  string
	Items []Item
}

// File is the on-disk layout of a catalog.toml
type File struct {
	Catalog  Section `toml:"catalog"`
	Artworks []Item  `toml:"artwork"`
}

type Section struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Load loads a catalog from a TOML file
func Load(path string) (*Catalog, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("catalog not found: %s", path)
	}

	var file File
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	c, err := New(file.Catalog.Name, file.Artworks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path

	return c, nil
}

// New builds a catalog from items already in memory, keeping their order
func New(name string, items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	owned := make([]Item, len(items))
	copy(owned, items)

	return &Catalog{Name: name, Items: owned}, nil
}

// Len returns the number of artworks
func (c *Catalog) Len() int {
	return len(c.Items)
}

// Styles returns AnyValue followed by every distinct style in catalog order
func (c *Catalog) Styles() []string {
	return c.distinct(func(i *Item) string { return i.Style })
}

// Centuries returns AnyValue followed by every distinct century in catalog order
func (c *Catalog) Centuries() []string {
	return c.distinct(func(i *Item) string { return i.Century })
}

func (c *Catalog) distinct(field func(*Item) string) []string {
	seen := make(map[string]bool)
	values := []string{AnyValue}
	for i := range c.Items {
		v := field(&c.Items[i])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}
