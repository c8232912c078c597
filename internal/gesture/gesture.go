// Package gesture turns horizontal drags into known/unknown classifications.
package gesture

import (
	"bytes"
	"strconv"
)

// Action is the classification a drag maps to.
type Action int

const (
	None Action = iota
	Known
	Unknown
)

func (a Action) String() string {
	switch a {
	case Known:
		return "known"
	case Unknown:
		return "unknown"
	default:
		return "none"
	}
}

// Classify maps a signed horizontal drag distance to an action. Drags to the
// right past threshold mean Known, to the left past threshold Unknown.
func Classify(offset, threshold int) Action {
	switch {
	case offset > threshold:
		return Known
	case offset < -threshold:
		return Unknown
	default:
		return None
	}
}

// MouseEvent is a decoded SGR (1006) terminal mouse report.
type MouseEvent struct {
	Button  int
	X, Y    int
	Release bool
}

// Motion reports whether the event is a drag movement rather than a press.
func (e MouseEvent) Motion() bool {
	return e.Button&32 != 0
}

// ParseSGRMouse decodes one "ESC [ < b ; x ; y M|m" sequence at the start of
// buf. It returns the event and the number of bytes consumed; ok is false if
// buf does not start with a complete report.
func ParseSGRMouse(buf []byte) (ev MouseEvent, n int, ok bool) {
	const prefix = "\x1b[<"
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return MouseEvent{}, 0, false
	}
	end := bytes.IndexAny(buf, "Mm")
	if end < 0 {
		return MouseEvent{}, 0, false
	}

	fields := bytes.Split(buf[len(prefix):end], []byte(";"))
	if len(fields) != 3 {
		return MouseEvent{}, 0, false
	}
	var vals [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(string(f))
		if err != nil {
			return MouseEvent{}, 0, false
		}
		vals[i] = v
	}

	return MouseEvent{
		Button:  vals[0],
		X:       vals[1],
		Y:       vals[2],
		Release: buf[end] == 'm',
	}, end + 1, true
}

// Drag follows a left-button press until its release.
type Drag struct {
	Threshold int

	active bool
	startX int
}

// Handle feeds one mouse event. On release of an active drag it returns the
// classified action and done is true.
func (d *Drag) Handle(ev MouseEvent) (action Action, done bool) {
	if ev.Button&64 != 0 {
		// Wheel
		return None, false
	}
	if ev.Button&3 != 0 && !ev.Release {
		// Only the left button drags.
		return None, false
	}

	switch {
	case ev.Release:
		if !d.active {
			return None, false
		}
		d.active = false
		return Classify(ev.X-d.startX, d.Threshold), true
	case ev.Motion():
		return None, false
	default:
		d.active = true
		d.startX = ev.X
		return None, false
	}
}

// Active reports whether a press is waiting for its release.
func (d *Drag) Active() bool {
	return d.active
}
