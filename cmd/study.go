package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/atelier/internal/artwork"
	"github.com/arcanaland/atelier/internal/card"
	"github.com/arcanaland/atelier/internal/deck"
	"github.com/arcanaland/atelier/internal/gesture"
)

const (
	enterScreen = "\x1b[?1049h\x1b[?25l\x1b[?1000h\x1b[?1002h\x1b[?1006h"
	leaveScreen = "\x1b[?1006l\x1b[?1002l\x1b[?1000l\x1b[?25h\x1b[?1049l"
	clearScreen = "\x1b[H\x1b[2J"

	keyRight = "\x1b[C"
	keyLeft  = "\x1b[D"
	keyEsc   = "\x1b"
	keyCtrlC = "\x03"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Study cards interactively",
	Long: `Study opens an interactive flashcard session in the terminal.

Keys:
  ←/→ h/l      previous / next card
  space enter  flip the card
  k u          mark as known / still learning
  drag →/←     mark as known / still learning (mouse)
  1 2 3        view: learning, known, all
  f c          cycle style / century filter
  /            search title, author or style
  a            clear all filters
  s            shuffle
  R            reset progress
  q            quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return fmt.Errorf("study needs an interactive terminal")
		}

		cat, cards, err := loadCards()
		if err != nil {
			return err
		}
		store, closeStore := openProgress()
		defer closeStore()

		sched := newLoopScheduler()
		defer sched.stop()

		session := deck.NewSession(cards, store, deck.Options{
			AdvanceDelay:     cfg.AdvanceDelay.Duration,
			Scheduler:        sched,
			ShuffleOnRebuild: cfg.ShuffleOnRebuild,
			Logger:           logger,
		})

		fetcher := newFetcher()
		renderer := newRenderer()
		ui := newStudyUI(session, cat.Styles(), cat.Centuries(), cfg.SwipeThreshold)
		ui.art = func(c card.Card) (artwork.Asset, string) {
			asset, img := fetcher.Fetch(context.Background(), c.ID, c.Item)
			return asset, renderer.Render(asset, img, c.Item.Style)
		}

		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("error entering raw mode: %w", err)
		}
		defer term.Restore(fd, oldState)

		fmt.Print(enterScreen)
		defer fmt.Print(leaveScreen)

		input := make(chan []byte)
		go readInput(os.Stdin, input)

		logger.Debug("study session started", "cards", len(cards), "deck", session.Len())
		ui.draw(os.Stdout)
		for {
			select {
			case chunk, ok := <-input:
				if !ok || ui.handleInput(chunk) {
					logger.Debug("study session ended", "known", session.KnownCount())
					return nil
				}
			case fn := <-sched.fire:
				fn()
			}
			ui.draw(os.Stdout)
		}
	},
}

func init() {
	RootCmd.AddCommand(studyCmd)
}

func readInput(r io.Reader, out chan<- []byte) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			out <- chunk
		}
		if err != nil {
			close(out)
			return
		}
	}
}

// loopScheduler delivers deferred callbacks to the event loop so that the
// session is only touched from one goroutine.
type loopScheduler struct {
	fire chan func()
	done chan struct{}
}

func newLoopScheduler() *loopScheduler {
	return &loopScheduler{fire: make(chan func()), done: make(chan struct{})}
}

func (l *loopScheduler) Schedule(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, func() {
		select {
		case l.fire <- fn:
		case <-l.done:
		}
	})
	return func() { t.Stop() }
}

func (l *loopScheduler) stop() {
	close(l.done)
}

// inputEvent is either a key or a mouse report
type inputEvent struct {
	key   string
	mouse *gesture.MouseEvent
}

// splitInput breaks bytes read from a raw terminal into events. A mouse
// report or escape sequence cut off at the end of buf is returned as rest,
// to be completed by the next read.
func splitInput(buf []byte) (events []inputEvent, rest []byte) {
	for len(buf) > 0 {
		if incomplete(buf) {
			return events, buf
		}
		if ev, n, ok := gesture.ParseSGRMouse(buf); ok {
			events = append(events, inputEvent{mouse: &ev})
			buf = buf[n:]
			continue
		}
		if bytes.HasPrefix(buf, []byte("\x1b[")) && len(buf) >= 3 {
			events = append(events, inputEvent{key: string(buf[:3])})
			buf = buf[3:]
			continue
		}
		r, size := utf8.DecodeRune(buf)
		events = append(events, inputEvent{key: string(r)})
		buf = buf[size:]
	}
	return events, nil
}

// incomplete reports whether buf holds only the start of a CSI sequence
func incomplete(buf []byte) bool {
	if bytes.Equal(buf, []byte("\x1b[")) {
		return true
	}
	if !bytes.HasPrefix(buf, []byte("\x1b[<")) {
		return false
	}
	end := bytes.IndexAny(buf, "Mm")
	if end >= 0 {
		return false
	}
	// Only digits and separators can follow; anything else is not a report
	for _, b := range buf[3:] {
		if b != ';' && (b < '0' || b > '9') {
			return false
		}
	}
	return true
}

type studyUI struct {
	session   *deck.Session
	styles    []string
	centuries []string
	drag      gesture.Drag
	art       func(card.Card) (artwork.Asset, string)
	carry     []byte // unfinished sequence from the previous read

	searching    bool
	query        []rune
	confirmReset bool
	status       string
}

func newStudyUI(s *deck.Session, styles, centuries []string, threshold int) *studyUI {
	return &studyUI{
		session:   s,
		styles:    styles,
		centuries: centuries,
		drag:      gesture.Drag{Threshold: threshold},
	}
}

// handleInput applies every event in chunk and reports whether to quit
func (u *studyUI) handleInput(chunk []byte) bool {
	buf := append(u.carry, chunk...)
	events, rest := splitInput(buf)
	u.carry = append([]byte(nil), rest...)
	for _, ev := range events {
		if ev.mouse != nil {
			u.handleMouse(*ev.mouse)
			continue
		}
		if u.handleKey(ev.key) {
			return true
		}
	}
	return false
}

func (u *studyUI) handleMouse(ev gesture.MouseEvent) {
	action, done := u.drag.Handle(ev)
	if !done {
		return
	}
	switch action {
	case gesture.Known:
		u.classify(true)
	case gesture.Unknown:
		u.classify(false)
	}
}

func (u *studyUI) handleKey(key string) bool {
	u.status = ""

	if u.searching {
		u.editQuery(key)
		return false
	}

	if u.confirmReset {
		u.confirmReset = false
		if isYes(key) {
			if err := u.session.ResetProgress(); err != nil {
				u.status = "Nie udało się zapisać resetu postępu."
			} else {
				u.status = "Postęp zresetowany."
			}
		}
		return false
	}

	s := u.session
	switch key {
	case "q", keyCtrlC:
		return true
	case keyRight, "l", "n":
		s.Advance()
	case keyLeft, "h", "p":
		s.Retreat()
	case " ", "\r", "\n":
		s.Flip()
	case "k":
		u.classify(true)
	case "u":
		u.classify(false)
	case "s":
		s.Shuffle()
	case "1":
		s.SetViewMode(deck.Learning)
	case "2":
		s.SetViewMode(deck.Known)
	case "3":
		s.SetViewMode(deck.All)
	case "f":
		s.SetStyle(cycle(u.styles, s.Filter().Style))
	case "c":
		s.SetCentury(cycle(u.centuries, s.Filter().Century))
	case "a":
		s.SetFilter(deck.DefaultFilter())
	case "/":
		u.searching = true
		u.query = []rune(s.Filter().Query)
	case "R":
		u.confirmReset = true
	}
	return false
}

func (u *studyUI) editQuery(key string) {
	switch key {
	case "\r", "\n":
		u.searching = false
		u.session.SetQuery(string(u.query))
	case keyEsc, keyCtrlC:
		u.searching = false
	case "\x7f", "\b":
		if len(u.query) > 0 {
			u.query = u.query[:len(u.query)-1]
		}
	default:
		if r, _ := utf8.DecodeRuneInString(key); utf8.RuneCountInString(key) == 1 && r >= ' ' {
			u.query = append(u.query, r)
		}
	}
}

func (u *studyUI) classify(known bool) {
	c, ok := u.session.Current()
	if !ok {
		return
	}
	if known {
		u.session.ClassifyKnown(c.ID)
		u.status = "Oznaczono jako: Znam"
	} else {
		u.session.ClassifyUnknown(c.ID)
		u.status = "Oznaczono jako: Do nauki"
	}
}

// cycle returns the option after current, wrapping around
func cycle(options []string, current string) string {
	if len(options) == 0 {
		return deck.AnyValue
	}
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func (u *studyUI) draw(w io.Writer) {
	const eol = "\r\n"
	s := u.session

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(eol)
	b.WriteString("  " + filterLine(s.Mode(), s.Filter()) + eol)

	pos, total := s.Position()
	b.WriteString("  " + colorize.HiBlackString("Karta %d/%d · znane: %d", pos, total, s.KnownCount()) + eol + eol)

	if c, ok := s.Current(); ok {
		asset, art := artwork.Asset{}, ""
		if u.art != nil {
			asset, art = u.art(c)
		}
		info := cardInfo(c, asset, s.IsKnown(c.ID), s.Face() == deck.FaceAnswer)
		b.WriteString(sideBySide(art, info, eol))
	} else {
		b.WriteString("  " + colorize.HiWhiteString("%s", s.Reason().Message()) + eol)
		if s.Reason().CanResetProgress() {
			b.WriteString("  " + colorize.HiBlackString("R: zacznij od nowa") + eol)
		} else if s.Reason() == deck.NoMatch {
			b.WriteString("  " + colorize.HiBlackString("a: pokaż wszystkie") + eol)
		}
	}

	b.WriteString(eol)
	switch {
	case u.searching:
		b.WriteString("  " + colorize.CyanString("Szukaj: ") + string(u.query) + "█" + eol)
	case u.confirmReset:
		b.WriteString("  " + colorize.YellowString("Na pewno zresetować postęp? [t/N]") + eol)
	case u.status != "":
		b.WriteString("  " + colorize.GreenString("%s", u.status) + eol)
	}
	b.WriteString("  " + colorize.HiBlackString("←/→ nawigacja · spacja odwróć · k znam · u do nauki · s tasuj · q wyjście") + eol)

	fmt.Fprint(w, b.String())
}
