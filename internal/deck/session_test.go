package deck

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"github.com/arcanaland/atelier/internal/card"
	"github.com/arcanaland/atelier/internal/mastery"
	"github.com/arcanaland/atelier/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// manualScheduler records scheduled calls so tests decide when they fire.
type manualScheduler struct {
	calls []*scheduledCall
}

type scheduledCall struct {
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func (m *manualScheduler) Schedule(delay time.Duration, fn func()) func() {
	c := &scheduledCall{delay: delay, fn: fn}
	m.calls = append(m.calls, c)
	return func() { c.cancelled = true }
}

// fire runs every call that was not cancelled.
func (m *manualScheduler) fire() {
	for _, c := range m.calls {
		if !c.cancelled && !c.fired {
			c.fired = true
			c.fn()
		}
	}
}

// fireAll runs every call, including cancelled ones, as happens when a
// timer has already fired and queued its callback before being cancelled.
func (m *manualScheduler) fireAll() {
	for _, c := range m.calls {
		if !c.fired {
			c.fired = true
			c.fn()
		}
	}
}

func newStore() *mastery.Store {
	return mastery.NewStore(storage.NewMemory(), discard)
}

func newSession(t *testing.T, cards []card.Card, opts Options) *Session {
	t.Helper()
	opts.Logger = discard
	return NewSession(cards, newStore(), opts)
}

func current(t *testing.T, s *Session) card.Card {
	t.Helper()
	c, ok := s.Current()
	require.True(t, ok, "session is empty")
	return c
}

func TestAdvanceClampsAtLastCard(t *testing.T) {
	cards := card.Generate(testCatalog())[:5]
	s := newSession(t, cards, Options{})

	for i := 0; i < 10; i++ {
		s.Advance()
	}
	pos, total := s.Position()
	assert.Equal(t, 5, pos)
	assert.Equal(t, 5, total)
	assert.Equal(t, cards[4].ID, current(t, s).ID)
	assert.False(t, s.Advance())
}

func TestRetreat(t *testing.T) {
	cards := card.Generate(testCatalog())[:5]
	s := newSession(t, cards, Options{})

	assert.False(t, s.Retreat())
	pos, _ := s.Position()
	assert.Equal(t, 1, pos)

	s.Advance()
	s.Advance()
	assert.True(t, s.Retreat())
	assert.Equal(t, cards[1].ID, current(t, s).ID)
}

func TestFlip(t *testing.T) {
	s := newSession(t, card.Generate(testCatalog()), Options{})

	assert.Equal(t, FaceQuestion, s.Face())
	s.Flip()
	assert.Equal(t, FaceAnswer, s.Face())
	pos, _ := s.Position()
	assert.Equal(t, 1, pos)
	s.Flip()
	assert.Equal(t, FaceQuestion, s.Face())

	s.Flip()
	s.Advance()
	assert.Equal(t, FaceQuestion, s.Face())
}

func TestEmptyKnownView(t *testing.T) {
	s := newSession(t, card.Generate(testCatalog()), Options{})
	s.SetViewMode(Known)

	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, NoneKnown, s.Reason())
	assert.Equal(t, "no known cards yet", s.Reason().String())
	_, ok := s.Current()
	assert.False(t, ok)
	pos, total := s.Position()
	assert.Equal(t, 0, pos)
	assert.Equal(t, 0, total)

	// Navigation on an empty deck is a no-op
	assert.False(t, s.Advance())
	assert.False(t, s.Retreat())
	s.Flip()
	s.Shuffle()
	assert.True(t, s.Empty())

	s.SetViewMode(All)
	assert.False(t, s.Empty())
	assert.Equal(t, NotEmpty, s.Reason())
}

func TestClassifyKnownInLearningRemovesCard(t *testing.T) {
	cards := card.Generate(testCatalog())
	s := newSession(t, cards, Options{})

	first := current(t, s)
	s.ClassifyKnown(first.ID)

	assert.True(t, s.IsKnown(first.ID))
	assert.Equal(t, len(cards)-1, s.Len())
	assert.NotContains(t, ids(s.Cards()), first.ID)
	// The rebuild supersedes the advance: the new deck starts at its first card
	pos, _ := s.Position()
	assert.Equal(t, 1, pos)
	assert.Equal(t, cards[1].ID, current(t, s).ID)
	assert.False(t, s.Pending())
}

func TestClassifyWithoutMembershipChangeAdvances(t *testing.T) {
	cards := card.Generate(testCatalog())
	s := newSession(t, cards, Options{})

	s.ClassifyUnknown(current(t, s).ID)
	assert.Equal(t, cards[1].ID, current(t, s).ID)

	s.SetViewMode(All)
	s.ClassifyKnown(cards[0].ID)
	require.Equal(t, cards[0].ID, current(t, s).ID, "size change rebuilds the deck")

	s.ClassifyKnown(cards[0].ID)
	assert.Equal(t, cards[1].ID, current(t, s).ID, "already known, plain advance")
}

func TestClassifyOnLastCardStays(t *testing.T) {
	cards := card.Generate(testCatalog())[:3]
	s := newSession(t, cards, Options{})
	s.Advance()
	s.Advance()

	last := current(t, s)
	s.ClassifyUnknown(last.ID)
	assert.Equal(t, last.ID, current(t, s).ID)

	s.SetViewMode(All)
	s.Advance()
	s.Advance()
	s.ClassifyKnown(cards[0].ID)
	s.ClassifyKnown(cards[0].ID)
	_, ok := s.Current()
	assert.True(t, ok)
}

func TestClassifyPersists(t *testing.T) {
	kv := storage.NewMemory()
	store := mastery.NewStore(kv, discard)
	cards := card.Generate(testCatalog())

	s := NewSession(cards, store, Options{Logger: discard})
	s.ClassifyKnown("2-author")
	s.ClassifyKnown("4-style")
	s.ClassifyUnknown("2-author")

	reloaded := NewSession(cards, mastery.NewStore(kv, discard), Options{Logger: discard})
	assert.Equal(t, 1, reloaded.KnownCount())
	assert.True(t, reloaded.IsKnown("4-style"))
	assert.NotContains(t, ids(reloaded.Cards()), "4-style")
}

func TestClassifySaveFailureIsNotFatal(t *testing.T) {
	store := mastery.NewStore(storage.NewMemory(storage.WithMaxValueSize(2)), discard)
	s := NewSession(card.Generate(testCatalog()), store, Options{Logger: discard})

	s.ClassifyKnown("1-title")
	assert.True(t, s.IsKnown("1-title"))
	assert.NotContains(t, ids(s.Cards()), "1-title")
}

func TestDeferredAdvance(t *testing.T) {
	cards := card.Generate(testCatalog())
	sched := &manualScheduler{}
	s := newSession(t, cards, Options{AdvanceDelay: 150 * time.Millisecond, Scheduler: sched})

	s.ClassifyUnknown(current(t, s).ID)
	require.Len(t, sched.calls, 1)
	assert.Equal(t, 150*time.Millisecond, sched.calls[0].delay)
	assert.True(t, s.Pending())
	assert.Equal(t, cards[0].ID, current(t, s).ID, "cursor moves only when the timer fires")

	sched.fire()
	assert.False(t, s.Pending())
	assert.Equal(t, cards[1].ID, current(t, s).ID)
}

func TestDeferredAdvanceDroppedAfterRebuild(t *testing.T) {
	cards := card.Generate(testCatalog())
	sched := &manualScheduler{}
	s := newSession(t, cards, Options{AdvanceDelay: 150 * time.Millisecond, Scheduler: sched})

	// Move to the last card of what will become a much shorter deck
	for i := 0; i < 10; i++ {
		s.Advance()
	}
	s.ClassifyUnknown(current(t, s).ID)
	require.True(t, s.Pending())

	s.SetStyle("Rokoko")
	require.Equal(t, 4, s.Len())
	assert.False(t, s.Pending())

	// Even a callback that slipped past cancellation must not move the cursor
	sched.fireAll()
	pos, total := s.Position()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 4, total)
}

func TestDeferredAdvanceDroppedWhenClassificationRebuilds(t *testing.T) {
	cards := card.Generate(testCatalog())
	sched := &manualScheduler{}
	s := newSession(t, cards, Options{AdvanceDelay: 150 * time.Millisecond, Scheduler: sched})

	s.ClassifyKnown(current(t, s).ID)
	sched.fireAll()

	assert.Equal(t, cards[1].ID, current(t, s).ID)
}

func TestSecondClassificationCancelsFirst(t *testing.T) {
	cards := card.Generate(testCatalog())
	sched := &manualScheduler{}
	s := newSession(t, cards, Options{AdvanceDelay: 150 * time.Millisecond, Scheduler: sched})

	s.ClassifyUnknown(cards[0].ID)
	s.ClassifyUnknown(cards[0].ID)
	require.Len(t, sched.calls, 2)
	assert.True(t, sched.calls[0].cancelled)

	sched.fireAll()
	assert.Equal(t, cards[1].ID, current(t, s).ID, "exactly one advance")
}

func TestNavigationCancelsPendingAdvance(t *testing.T) {
	cards := card.Generate(testCatalog())
	sched := &manualScheduler{}
	s := newSession(t, cards, Options{AdvanceDelay: 150 * time.Millisecond, Scheduler: sched})

	s.ClassifyUnknown(cards[0].ID)
	s.Advance()
	sched.fireAll()
	assert.Equal(t, cards[1].ID, current(t, s).ID)
}

func TestResetProgress(t *testing.T) {
	cards := card.Generate(testCatalog())
	s := newSession(t, cards, Options{})
	s.ClassifyKnown("1-title")
	s.ClassifyKnown("2-title")
	s.SetViewMode(Known)
	require.Equal(t, 2, s.Len())

	require.NoError(t, s.ResetProgress())
	assert.Equal(t, Learning, s.Mode())
	assert.Equal(t, 0, s.KnownCount())
	assert.Equal(t, len(cards), s.Len())
	pos, _ := s.Position()
	assert.Equal(t, 1, pos)
}

func TestResetProgressSaveFailure(t *testing.T) {
	store := mastery.NewStore(storage.NewMemory(storage.WithMaxValueSize(1)), discard)
	cards := card.Generate(testCatalog())
	s := NewSession(cards, store, Options{Logger: discard})
	s.ClassifyKnown("1-title")

	err := s.ResetProgress()
	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)
	assert.Equal(t, 0, s.KnownCount(), "the session still starts over")
	assert.Equal(t, len(cards), s.Len())
}

func TestSettersRebuildOnlyOnChange(t *testing.T) {
	s := newSession(t, card.Generate(testCatalog()), Options{})
	gen := s.Generation()

	s.SetViewMode(Learning)
	s.SetFilter(DefaultFilter())
	s.SetStyle(AnyValue)
	assert.Equal(t, gen, s.Generation())

	s.Advance()
	s.SetCentury("XVII")
	assert.Greater(t, s.Generation(), gen)
	assert.Equal(t, 8, s.Len())
	pos, _ := s.Position()
	assert.Equal(t, 1, pos)

	s.SetQuery("bernini")
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, "bernini", s.Filter().Query)
}

func TestSessionShuffle(t *testing.T) {
	cards := card.Generate(testCatalog())
	s := newSession(t, cards, Options{Rand: rand.New(rand.NewPCG(7, 11))})
	s.Advance()
	s.Flip()
	gen := s.Generation()

	s.Shuffle()
	assert.Greater(t, s.Generation(), gen)
	assert.Equal(t, FaceQuestion, s.Face())
	pos, total := s.Position()
	assert.Equal(t, 1, pos)
	assert.Equal(t, len(cards), total)

	got := ids(s.Cards())
	want := ids(cards)
	sort.Strings(got)
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestShuffleOnRebuild(t *testing.T) {
	cards := card.Generate(testCatalog())
	s := newSession(t, cards, Options{ShuffleOnRebuild: true, Rand: rand.New(rand.NewPCG(1, 2))})
	assert.ElementsMatch(t, ids(cards), ids(s.Cards()))
}

func TestShuffleIsUniform(t *testing.T) {
	const (
		k      = 5
		trials = 50000
	)
	cards := card.Generate(testCatalog())[:k]
	rng := rand.New(rand.NewPCG(42, 1024))

	var counts [k][k]int // counts[card][position]
	index := make(map[string]int, k)
	for i, c := range cards {
		index[c.ID] = i
	}
	for n := 0; n < trials; n++ {
		for pos, c := range Shuffle(cards, rng) {
			counts[index[c.ID]][pos]++
		}
	}

	// Sum of per-card goodness-of-fit statistics, roughly chi-square with
	// k*(k-1) = 20 degrees of freedom. 45.31 is the p = 0.001 critical value.
	expected := float64(trials) / k
	chi2 := 0.0
	for i := 0; i < k; i++ {
		for pos := 0; pos < k; pos++ {
			d := float64(counts[i][pos]) - expected
			chi2 += d * d / expected
		}
	}
	assert.Less(t, chi2, 45.31, "counts: %v", counts)
}

func TestShuffleLeavesInputAlone(t *testing.T) {
	cards := card.Generate(testCatalog())
	before := ids(cards)
	out := Shuffle(cards, rand.New(rand.NewPCG(3, 4)))
	assert.Equal(t, before, ids(cards))
	assert.ElementsMatch(t, before, ids(out))
	assert.Empty(t, Shuffle(nil, nil))
}
