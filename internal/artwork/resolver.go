package artwork

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/arcanaland/atelier/internal/catalog"
	"golang.org/x/text/unicode/norm"
)

// DefaultPlaceholderBase is prefixed to the escaped title to build the
// placeholder reference
const DefaultPlaceholderBase = "https://placehold.co/600x800/2a2a2a/FFF?text="

// Stage identifies a step of the image fallback chain
type Stage int

const (
	StageURL              Stage = iota // Explicit image URL from the catalog
	StageLocal                         // images_dir/<filename>.png as written
	StageLocalNormalized               // Same path with the filename in NFD form
	StagePlaceholder                   // Generated placeholder, always renderable
)

func (s Stage) String() string {
	switch s {
	case StageURL:
		return "url"
	case StageLocal:
		return "local"
	case StageLocalNormalized:
		return "local-nfd"
	case StagePlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Asset is a reference to something that can be displayed for an artwork
type Asset struct {
	Stage Stage
	Ref   string // URL, file path, or placeholder reference
	Label string // Artwork title, shown on placeholders
}

// IsPlaceholder reports whether the chain has reached its last stage
func (a Asset) IsPlaceholder() bool {
	return a.Stage == StagePlaceholder
}

// Resolver builds the ordered fallback chain for an artwork
type Resolver struct {
	ImagesDir       string
	Ext             string
	PlaceholderBase string
}

// NewResolver returns a resolver for PNG files under imagesDir
func NewResolver(imagesDir string) Resolver {
	return Resolver{
		ImagesDir:       imagesDir,
		Ext:             ".png",
		PlaceholderBase: DefaultPlaceholderBase,
	}
}

// CleanFilename strips quote characters wrapping a catalog filename
func CleanFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, `"`)
	name = strings.TrimSuffix(name, `"`)
	return name
}

// LocalPath returns the image path for a filename as given
func (r Resolver) LocalPath(filename string) string {
	return filepath.Join(r.ImagesDir, CleanFilename(filename)+r.Ext)
}

// NormalizedPath returns the image path with the filename in fully
// decomposed Unicode form
func (r Resolver) NormalizedPath(filename string) string {
	return filepath.Join(r.ImagesDir, norm.NFD.String(CleanFilename(filename))+r.Ext)
}

// Candidates returns every asset to try for item, in order, ending with the
// placeholder. An explicit URL is followed directly by the placeholder. The
// normalized retry is skipped when it would repeat the first path.
func (r Resolver) Candidates(item *catalog.Item) []Asset {
	var chain []Asset

	switch {
	case item.HasImageURL():
		chain = append(chain, Asset{Stage: StageURL, Ref: item.ImageURL, Label: item.Title})
	case CleanFilename(item.Filename) != "":
		local := r.LocalPath(item.Filename)
		chain = append(chain, Asset{Stage: StageLocal, Ref: local, Label: item.Title})
		if nfd := r.NormalizedPath(item.Filename); nfd != local {
			chain = append(chain, Asset{Stage: StageLocalNormalized, Ref: nfd, Label: item.Title})
		}
	}

	return append(chain, r.Placeholder(item))
}

// Resolve returns the asset to use after priorFailures failed attempts
func (r Resolver) Resolve(item *catalog.Item, priorFailures int) Asset {
	chain := r.Candidates(item)
	if priorFailures < 0 {
		priorFailures = 0
	}
	if priorFailures >= len(chain) {
		return chain[len(chain)-1]
	}
	return chain[priorFailures]
}

// Placeholder returns the terminal asset for item
func (r Resolver) Placeholder(item *catalog.Item) Asset {
	base := r.PlaceholderBase
	if base == "" {
		base = DefaultPlaceholderBase
	}
	return Asset{
		Stage: StagePlaceholder,
		Ref:   base + strings.ReplaceAll(url.QueryEscape(item.Title), "+", "%20"),
		Label: item.Title,
	}
}

// Chain tracks how far down the fallback chain the current card has gone.
// Selecting a different card starts over from the first stage.
type Chain struct {
	resolver Resolver
	key      string
	failures int
}

func NewChain(r Resolver) *Chain {
	return &Chain{resolver: r}
}

// Current returns the asset to try for the card identified by key
func (c *Chain) Current(key string, item *catalog.Item) Asset {
	c.selectCard(key)
	return c.resolver.Resolve(item, c.failures)
}

// Fail records that the current asset could not be loaded and returns the
// next one. Failing the placeholder keeps returning the placeholder.
func (c *Chain) Fail(key string, item *catalog.Item) Asset {
	c.selectCard(key)
	if !c.resolver.Resolve(item, c.failures).IsPlaceholder() {
		c.failures++
	}
	return c.resolver.Resolve(item, c.failures)
}

func (c *Chain) selectCard(key string) {
	if key != c.key {
		c.key = key
		c.failures = 0
	}
}
