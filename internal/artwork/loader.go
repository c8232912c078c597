package artwork

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/arcanaland/atelier/internal/catalog"
)

// ErrPlaceholder is returned by loaders asked to load a placeholder; those
// are rendered, not loaded.
var ErrPlaceholder = errors.New("placeholder has no image")

// Loader loads and decodes the image behind an asset
type Loader interface {
	Load(ctx context.Context, asset Asset) (image.Image, error)
}

// FileLoader decodes images from the local filesystem
type FileLoader struct{}

func (FileLoader) Load(ctx context.Context, asset Asset) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(asset.Ref)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// HTTPLoader downloads and decodes remote images
type HTTPLoader struct {
	Client  *http.Client
	Timeout time.Duration
}

func (l HTTPLoader) Load(ctx context.Context, asset Asset) (image.Image, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.Ref, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image: %s", resp.Status)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// StageLoader sends URL assets to Remote and local paths to Local
type StageLoader struct {
	Remote Loader
	Local  Loader
}

func (l StageLoader) Load(ctx context.Context, asset Asset) (image.Image, error) {
	switch asset.Stage {
	case StageURL:
		return l.Remote.Load(ctx, asset)
	case StageLocal, StageLocalNormalized:
		return l.Local.Load(ctx, asset)
	default:
		return nil, ErrPlaceholder
	}
}

// Fetcher walks the fallback chain for the current card until an image
// loads or the placeholder is reached
type Fetcher struct {
	chain  *Chain
	loader Loader
	logger *slog.Logger

	// Result of the last walk, returned again while the card is unchanged
	lastKey   string
	lastAsset Asset
	lastImage image.Image
}

func NewFetcher(r Resolver, loader Loader, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{chain: NewChain(r), loader: loader, logger: logger}
}

// Fetch returns the first asset that loads, with its image. When only the
// placeholder is left the image is nil. Repeated calls for the same key
// return the previous result without loading again.
func (f *Fetcher) Fetch(ctx context.Context, key string, item *catalog.Item) (Asset, image.Image) {
	if key != "" && key == f.lastKey {
		return f.lastAsset, f.lastImage
	}

	asset, img := f.walk(ctx, key, item)
	if ctx.Err() == nil {
		f.lastKey, f.lastAsset, f.lastImage = key, asset, img
	}
	return asset, img
}

func (f *Fetcher) walk(ctx context.Context, key string, item *catalog.Item) (Asset, image.Image) {
	asset := f.chain.Current(key, item)
	for !asset.IsPlaceholder() {
		img, err := f.loader.Load(ctx, asset)
		if err == nil {
			return asset, img
		}
		f.logger.Debug("image unavailable, falling back",
			"card", key,
			"stage", asset.Stage.String(),
			"ref", asset.Ref,
			"error", err,
		)
		asset = f.chain.Fail(key, item)
	}
	return asset, nil
}
