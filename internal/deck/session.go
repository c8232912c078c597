package deck

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/arcanaland/atelier/internal/card"
	"github.com/arcanaland/atelier/internal/mastery"
)

// Face is the side of the current card being shown
type Face int

const (
	FaceQuestion Face = iota
	FaceAnswer
)

func (f Face) String() string {
	if f == FaceAnswer {
		return "answer"
	}
	return "question"
}

// Scheduler runs fn once after delay on the goroutine that owns the
// session. The returned func cancels the call if it has not run yet.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func())
}

// Options configures a Session
type Options struct {
	// AdvanceDelay defers the move to the next card after a classification.
	// Zero, or a nil Scheduler, advances immediately.
	AdvanceDelay     time.Duration
	Scheduler        Scheduler
	Rand             *rand.Rand
	ShuffleOnRebuild bool
	Logger           *slog.Logger
}

// Session owns the active deck, the cursor into it and the face shown.
//
// A Session is not safe for concurrent use; every method, including
// callbacks handed to the Scheduler, must run on the same goroutine.
type Session struct {
	universe []card.Card
	store    *mastery.Store
	opts     Options
	logger   *slog.Logger

	known  mastery.Set
	mode   ViewMode
	filter Filter

	deck   []card.Card
	cursor int
	face   Face
	reason EmptyReason

	// generation changes every time the deck is rebuilt or reordered; a
	// deferred advance bound to an older generation is dropped.
	generation uint64
	pending    uint64
	nextToken  uint64
	cancel     func()
}

// NewSession loads the known set from store and builds the initial deck in
// Learning mode with no attribute restrictions.
func NewSession(cards []card.Card, store *mastery.Store, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		universe: cards,
		store:    store,
		opts:     opts,
		logger:   logger,
		known:    store.Load(),
		mode:     Learning,
		filter:   DefaultFilter(),
	}
	s.rebuild(opts.ShuffleOnRebuild)
	return s
}

// Rebuild re-filters the card universe with the current view mode, filter
// and known set, optionally shuffling the result.
func (s *Session) Rebuild(shuffle bool) {
	s.rebuild(shuffle)
}

func (s *Session) rebuild(shuffle bool) {
	s.cancelPending()
	s.generation++

	filtered := Apply(s.universe, s.mode, s.known, s.filter)
	if shuffle {
		filtered = Shuffle(filtered, s.opts.Rand)
	}
	s.deck = filtered
	s.cursor = 0
	s.face = FaceQuestion
	s.reason = NotEmpty
	if len(s.deck) == 0 {
		s.reason = Explain(s.universe, s.mode, s.known, s.filter)
	}

	s.logger.Debug("deck rebuilt",
		"mode", s.mode.String(),
		"style", s.filter.Style,
		"century", s.filter.Century,
		"cards", len(s.deck),
		"generation", s.generation,
	)
}

// Empty reports whether the active deck has no cards
func (s *Session) Empty() bool {
	return len(s.deck) == 0
}

// Reason explains an empty deck; NotEmpty otherwise
func (s *Session) Reason() EmptyReason {
	return s.reason
}

// Current returns the card under the cursor
func (s *Session) Current() (card.Card, bool) {
	if s.Empty() {
		return card.Card{}, false
	}
	return s.deck[s.cursor], true
}

func (s *Session) Face() Face {
	return s.face
}

// Position returns the 1-based position of the cursor and the deck length.
// An empty deck reports (0, 0).
func (s *Session) Position() (int, int) {
	if s.Empty() {
		return 0, 0
	}
	return s.cursor + 1, len(s.deck)
}

func (s *Session) Len() int {
	return len(s.deck)
}

// Cards returns a copy of the active deck in its current order
func (s *Session) Cards() []card.Card {
	out := make([]card.Card, len(s.deck))
	copy(out, s.deck)
	return out
}

func (s *Session) Mode() ViewMode {
	return s.mode
}

func (s *Session) Filter() Filter {
	return s.filter
}

// KnownCount returns the size of the known set, stale IDs included
func (s *Session) KnownCount() int {
	return s.known.Len()
}

func (s *Session) IsKnown(cardID string) bool {
	return s.known.Has(cardID)
}

// Generation identifies the current deck build
func (s *Session) Generation() uint64 {
	return s.generation
}

// Pending reports whether a deferred advance is waiting to run
func (s *Session) Pending() bool {
	return s.pending != 0
}

// Advance moves to the next card. At the last card it does nothing and
// returns false.
func (s *Session) Advance() bool {
	s.cancelPending()
	return s.step(1)
}

// Retreat moves to the previous card. At the first card it does nothing and
// returns false.
func (s *Session) Retreat() bool {
	s.cancelPending()
	return s.step(-1)
}

func (s *Session) step(delta int) bool {
	next := s.cursor + delta
	if s.Empty() || next < 0 || next >= len(s.deck) {
		return false
	}
	s.cursor = next
	s.face = FaceQuestion
	return true
}

// Flip turns the current card over
func (s *Session) Flip() {
	if s.Empty() {
		return
	}
	if s.face == FaceQuestion {
		s.face = FaceAnswer
	} else {
		s.face = FaceQuestion
	}
}

// ClassifyKnown marks cardID as known, persists it and moves on
func (s *Session) ClassifyKnown(cardID string) {
	s.classify(cardID, true)
}

// ClassifyUnknown marks cardID as not known, persists it and moves on
func (s *Session) ClassifyUnknown(cardID string) {
	s.classify(cardID, false)
}

func (s *Session) classify(cardID string, known bool) {
	s.cancelPending()
	generation := s.generation

	before := s.known.Len()
	if known {
		s.known = s.store.MarkKnown(s.known, cardID)
	} else {
		s.known = s.store.MarkUnknown(s.known, cardID)
	}
	s.logger.Debug("card classified", "card", cardID, "known", known)

	// A size change alters the filtered deck, so the deck is rebuilt and the
	// advance below becomes stale.
	if s.known.Len() != before {
		s.rebuild(s.opts.ShuffleOnRebuild)
	}

	s.scheduleAdvance(generation)
}

func (s *Session) scheduleAdvance(generation uint64) {
	s.nextToken++
	token := s.nextToken
	apply := func() {
		if s.pending != token {
			return
		}
		s.pending = 0
		s.cancel = nil
		if s.generation != generation {
			s.logger.Debug("stale advance dropped", "generation", generation, "current", s.generation)
			return
		}
		s.step(1)
	}

	s.pending = token
	if s.opts.AdvanceDelay <= 0 || s.opts.Scheduler == nil {
		apply()
		return
	}
	s.cancel = s.opts.Scheduler.Schedule(s.opts.AdvanceDelay, apply)
}

func (s *Session) cancelPending() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.pending = 0
}

// Shuffle reorders the active deck uniformly at random and returns to the
// first card.
func (s *Session) Shuffle() {
	s.cancelPending()
	s.generation++
	s.deck = Shuffle(s.deck, s.opts.Rand)
	s.cursor = 0
	s.face = FaceQuestion
}

// ResetProgress forgets every known card and switches to Learning. Callers
// must confirm with the user first; the reset cannot be undone. The session
// is reset either way; the error reports a reset that was not saved.
func (s *Session) ResetProgress() error {
	s.known = s.store.Reset()
	s.mode = Learning
	s.rebuild(s.opts.ShuffleOnRebuild)
	if err := s.store.LastError(); err != nil {
		return err
	}
	s.logger.Info("progress reset")
	return nil
}

// SetViewMode switches the view mode, rebuilding the deck on change
func (s *Session) SetViewMode(mode ViewMode) {
	if mode == s.mode {
		return
	}
	s.mode = mode
	s.rebuild(s.opts.ShuffleOnRebuild)
}

// SetFilter replaces the attribute filter, rebuilding the deck on change
func (s *Session) SetFilter(f Filter) {
	if f == s.filter {
		return
	}
	s.filter = f
	s.rebuild(s.opts.ShuffleOnRebuild)
}

func (s *Session) SetStyle(style string) {
	f := s.filter
	f.Style = style
	s.SetFilter(f)
}

func (s *Session) SetCentury(century string) {
	f := s.filter
	f.Century = century
	s.SetFilter(f)
}

func (s *Session) SetQuery(query string) {
	f := s.filter
	f.Query = query
	s.SetFilter(f)
}
