package deck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arcanaland/atelier/internal/card"
	"github.com/arcanaland/atelier/internal/catalog"
	"github.com/arcanaland/atelier/internal/mastery"
)

// AnyValue disables a style or century restriction
const AnyValue = catalog.AnyValue

// ErrUnknownViewMode is returned when parsing an unrecognised view mode
var ErrUnknownViewMode = errors.New("unknown view mode")

// ViewMode selects which side of the known/unknown split is shown
type ViewMode int

const (
	Learning ViewMode = iota // Cards not yet known
	Known                    // Cards marked as known
	All
)

func (m ViewMode) String() string {
	switch m {
	case Learning:
		return "learning"
	case Known:
		return "known"
	case All:
		return "all"
	default:
		return fmt.Sprintf("viewmode(%d)", int(m))
	}
}

// ParseViewMode parses the String form of a view mode
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "learning", "":
		return Learning, nil
	case "known":
		return Known, nil
	case "all":
		return All, nil
	}
	return Learning, fmt.Errorf("%w: %q", ErrUnknownViewMode, s)
}

// Filter restricts cards by artwork attributes
type Filter struct {
	Style   string
	Century string
	Query   string // Case-insensitive match on title, author or style; empty matches all
}

// DefaultFilter returns a filter that keeps every card
func DefaultFilter() Filter {
	return Filter{Style: AnyValue, Century: AnyValue}
}

func restricts(v string) bool {
	return v != "" && v != AnyValue
}

// Apply returns the cards that pass the view mode and every attribute
// restriction, in their original relative order.
func Apply(cards []card.Card, mode ViewMode, known mastery.Set, f Filter) []card.Card {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	result := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		switch mode {
		case Learning:
			if known.Has(c.ID) {
				continue
			}
		case Known:
			if !known.Has(c.ID) {
				continue
			}
		}

		if restricts(f.Style) && c.Item.Style != f.Style {
			continue
		}
		if restricts(f.Century) && c.Item.Century != f.Century {
			continue
		}
		if query != "" && !matchesQuery(c.Item, query) {
			continue
		}

		result = append(result, c)
	}
	return result
}

func matchesQuery(item *catalog.Item, query string) bool {
	return strings.Contains(strings.ToLower(item.Title), query) ||
		strings.Contains(strings.ToLower(item.Author), query) ||
		strings.Contains(strings.ToLower(item.Style), query)
}

// EmptyReason explains why a filtered deck has no cards
type EmptyReason int

const (
	NotEmpty EmptyReason = iota
	AllKnown             // Learning: every card in the current filters is known
	NoneKnown            // Known: nothing has been marked as known yet
	NoMatch              // All: the attribute filters match nothing
)

func (r EmptyReason) String() string {
	switch r {
	case NotEmpty:
		return ""
	case AllKnown:
		return "every card in the current filters is known"
	case NoneKnown:
		return "no known cards yet"
	case NoMatch:
		return "no cards match the selected filters"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Message returns the guidance shown to the user
func (r EmptyReason) Message() string {
	switch r {
	case AllKnown:
		return "Gratulacje! Znasz już wszystkie dzieła z obecnych filtrów."
	case NoneKnown:
		return "Jeszcze nie oznaczyłeś żadnych kart jako 'Znam'."
	case NoMatch:
		return "Brak wyników dla wybranych filtrów."
	default:
		return ""
	}
}

// CanResetProgress reports whether resetting progress is offered as a way out
func (r EmptyReason) CanResetProgress() bool {
	return r == AllKnown
}

// Explain returns why Apply produced no cards for the given inputs. Filters
// that match nothing regardless of mastery take precedence over the view mode.
func Explain(cards []card.Card, mode ViewMode, known mastery.Set, f Filter) EmptyReason {
	if len(Apply(cards, mode, known, f)) > 0 {
		return NotEmpty
	}
	if mode == All || len(Apply(cards, All, known, f)) == 0 {
		return NoMatch
	}
	if mode == Learning {
		return AllKnown
	}
	return NoneKnown
}
