package validator

import (
	"fmt"
	"os"

	"github.com/arcanaland/atelier/internal/artwork"
	"github.com/arcanaland/atelier/internal/catalog"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether no errors were found
func (r ValidationResults) Valid() bool {
	return len(r.Errors) == 0
}

type Validator struct {
	CatalogPath string
	ImagesDir   string
	Results     ValidationResults
}

func NewValidator(catalogPath, imagesDir string) *Validator {
	return &Validator{
		CatalogPath: catalogPath,
		ImagesDir:   imagesDir,
		Results:     ValidationResults{},
	}
}

// Validate checks the catalog file. An error is returned only when the
// file cannot be read at all; content problems go into the results.
func (v *Validator) Validate() (ValidationResults, error) {
	c, err := catalog.Load(v.CatalogPath)
	if err != nil {
		return v.Results, err
	}

	v.validateItems(c.Items)
	v.validateImages(c.Items)
	v.validateStyles(c.Items)

	return v.Results, nil
}

func (v *Validator) errorf(format string, args ...any) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

// validateItems checks required fields and id uniqueness
func (v *Validator) validateItems(items []catalog.Item) {
	seen := make(map[int]int)
	for i, item := range items {
		pos := i + 1

		if item.ID <= 0 {
			v.errorf("artwork #%d: id is required", pos)
		} else if first, dup := seen[item.ID]; dup {
			v.errorf("artwork #%d: duplicate id %d (first used by artwork #%d)", pos, item.ID, first)
		} else {
			seen[item.ID] = pos
		}

		required := []struct {
			name, value string
		}{
			{"title", item.Title},
			{"author", item.Author},
			{"century", item.Century},
			{"style", item.Style},
		}
		for _, f := range required {
			if f.value == "" {
				v.errorf("artwork #%d: %s is required", pos, f.name)
			}
		}

		if item.Filename == "" && !item.HasImageURL() {
			v.errorf("artwork #%d: either filename or image_url is required", pos)
		}
	}
}

// validateImages checks that local images exist, in either Unicode form
func (v *Validator) validateImages(items []catalog.Item) {
	if v.ImagesDir == "" {
		return
	}
	if _, err := os.Stat(v.ImagesDir); os.IsNotExist(err) {
		v.warnf("images directory not found: %s", v.ImagesDir)
		return
	}

	r := artwork.NewResolver(v.ImagesDir)
	for i := range items {
		item := &items[i]
		if item.HasImageURL() || item.Filename == "" {
			continue
		}

		local := r.LocalPath(item.Filename)
		normalized := r.NormalizedPath(item.Filename)
		switch {
		case exists(local):
		case normalized != local && exists(normalized):
			v.warnf("artwork %d (%s): image found only in decomposed form: %s", item.ID, item.Title, normalized)
		default:
			v.warnf("artwork %d (%s): image not found, a placeholder will be shown: %s", item.ID, item.Title, local)
		}
	}
}

// validateStyles flags styles that fall back to the neutral colour
func (v *Validator) validateStyles(items []catalog.Item) {
	reported := make(map[string]bool)
	for _, item := range items {
		if item.Style == "" || reported[item.Style] || artwork.HasStyleColor(item.Style) {
			continue
		}
		reported[item.Style] = true
		v.warnf("style %q has no colour, the neutral one will be used", item.Style)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
