package cmd

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	colorize "github.com/fatih/color"
	"golang.org/x/term"

	"github.com/arcanaland/atelier/internal/artwork"
	"github.com/arcanaland/atelier/internal/card"
	"github.com/arcanaland/atelier/internal/catalog"
	"github.com/arcanaland/atelier/internal/config"
	"github.com/arcanaland/atelier/internal/deck"
	"github.com/arcanaland/atelier/internal/mastery"
	"github.com/arcanaland/atelier/internal/storage"
)

// loadCards loads the configured catalog and expands it into cards
func loadCards() (*catalog.Catalog, []card.Card, error) {
	c, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading catalog: %w", err)
	}
	return c, card.Generate(c.Items), nil
}

// openProgress opens the progress database. When it cannot be opened the
// session still runs on an in-memory store and progress is not kept.
func openProgress() (*mastery.Store, func() error) {
	db, err := storage.Open(cfg.StorePath)
	if err != nil {
		logger.Warn("progress store unavailable, progress will not be saved",
			"path", cfg.StorePath,
			"error", err,
		)
		return mastery.NewStore(storage.NewMemory(), logger), func() error { return nil }
	}
	return mastery.NewStore(db, logger), db.Close
}

func newFetcher() *artwork.Fetcher {
	loader := artwork.StageLoader{
		Remote: artwork.HTTPLoader{Timeout: cfg.FetchTimeout.Duration},
		Local:  artwork.FileLoader{},
	}
	return artwork.NewFetcher(artwork.NewResolver(cfg.ImagesDir), loader, logger)
}

func newRenderer() artwork.Renderer {
	return artwork.Renderer{
		Width:    cfg.ArtWidth,
		Height:   cfg.ArtHeight,
		CacheDir: config.GetCacheDir(),
	}
}

// findCard looks up a card by its id
func findCard(cards []card.Card, id string) (card.Card, bool) {
	for _, c := range cards {
		if c.ID == id {
			return c, true
		}
	}
	return card.Card{}, false
}

// filterLine describes the active view mode and filters
func filterLine(mode deck.ViewMode, f deck.Filter) string {
	parts := []string{
		colorize.CyanString("Widok: ") + colorize.HiWhiteString("%s", viewLabel(mode)),
		colorize.CyanString("Styl: ") + colorize.HiWhiteString("%s", f.Style),
		colorize.CyanString("Wiek: ") + colorize.HiWhiteString("%s", f.Century),
	}
	if f.Query != "" {
		parts = append(parts, colorize.CyanString("Szukaj: ")+colorize.HiWhiteString("%s", f.Query))
	}
	return strings.Join(parts, "  ")
}

func viewLabel(mode deck.ViewMode) string {
	switch mode {
	case deck.Known:
		return "Znam"
	case deck.All:
		return "Wszystkie"
	default:
		return "Do nauki"
	}
}

// terminalWidth returns the width of stdout, or 80 when it is not a terminal
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// sideBySide lays ANSI art out on the left with info lines to its right.
// Lines end with eol so the output also works in raw terminal mode.
func sideBySide(art string, info []string, eol string) string {
	artLines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	maxArtWidth := 0
	for _, line := range artLines {
		if w := visibleWidth(line); w > maxArtWidth {
			maxArtWidth = w
		}
	}

	spacing := 4
	infoStartCol := maxArtWidth + spacing

	var b strings.Builder
	maxLines := max(len(artLines), len(info))
	for i := 0; i < maxLines; i++ {
		b.WriteString("  ")
		if i < len(artLines) {
			b.WriteString(artLines[i])
			b.WriteString(strings.Repeat(" ", infoStartCol-visibleWidth(artLines[i])))
		} else {
			b.WriteString(strings.Repeat(" ", infoStartCol))
		}
		if i < len(info) {
			b.WriteString(info[i])
		}
		b.WriteString(eol)
	}
	return b.String()
}

// infoWidth returns the columns left for text next to art of the configured width
func infoWidth() int {
	w := terminalWidth() - cfg.ArtWidth - 8
	if w < 20 {
		w = 20
	}
	return w
}

func visibleWidth(s string) int {
	return utf8.RuneCountInString(stripAnsi(s))
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}
