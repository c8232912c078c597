package card

import (
	"fmt"

	"github.com/arcanaland/atelier/internal/catalog"
)

// Kind is the attribute of an artwork a card asks about
type Kind int

const (
	KindTitle Kind = iota
	KindAuthor
	KindCentury
	KindStyle
)

// Kinds lists every kind in generation order
var Kinds = []Kind{KindTitle, KindAuthor, KindCentury, KindStyle}

// String returns the kind segment used in card IDs
func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindAuthor:
		return "author"
	case KindCentury:
		return "century"
	case KindStyle:
		return "style"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Label returns the heading shown next to the answer
func (k Kind) Label() string {
	switch k {
	case KindTitle:
		return "Tytuł"
	case KindAuthor:
		return "Autor"
	case KindCentury:
		return "Wiek"
	case KindStyle:
		return "Styl"
	default:
		return k.String()
	}
}

// Prompt returns the question asked on the front of the card
func (k Kind) Prompt() string {
	switch k {
	case KindTitle:
		return "Jaki jest tytuł tego dzieła?"
	case KindAuthor:
		return "Kto jest autorem tego dzieła?"
	case KindCentury:
		return "Z którego wieku pochodzi to dzieło?"
	case KindStyle:
		return "Jaki to styl?"
	default:
		return ""
	}
}

// Card represents one quiz question about one artwork
type Card struct {
	ID     string        // Canonical ID, "<item id>-<kind>" (e.g., 3-author)
	Item   *catalog.Item // Shared with the catalog, never modified
	Kind   Kind
	Prompt string
}

// Answer returns the attribute of the artwork the card asks for
func (c Card) Answer() string {
	switch c.Kind {
	case KindTitle:
		return c.Item.Title
	case KindAuthor:
		return c.Item.Author
	case KindCentury:
		return c.Item.Century
	case KindStyle:
		return c.Item.Style
	default:
		return ""
	}
}

// ID builds the canonical card ID for an artwork and kind
func ID(itemID int, kind Kind) string {
	return fmt.Sprintf("%d-%s", itemID, kind)
}

// Generate expands every artwork into one card per kind, in catalog order
func Generate(items []catalog.Item) []Card {
	cards := make([]Card, 0, len(items)*len(Kinds))
	for i := range items {
		item := &items[i]
		for _, kind := range Kinds {
			cards = append(cards, Card{
				ID:     ID(item.ID, kind),
				Item:   item,
				Kind:   kind,
				Prompt: kind.Prompt(),
			})
		}
	}
	return cards
}
