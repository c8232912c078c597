package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		offset    int
		threshold int
		want      Action
	}{
		{0, 8, None},
		{8, 8, None},
		{9, 8, Known},
		{-8, 8, None},
		{-9, 8, Unknown},
		{120, 100, Known},
		{-101, 100, Unknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.offset, tt.threshold), "offset %d threshold %d", tt.offset, tt.threshold)
	}
}

func TestParseSGRMouse(t *testing.T) {
	ev, n, ok := ParseSGRMouse([]byte("\x1b[<0;12;5Mrest"))
	require.True(t, ok)
	assert.Equal(t, 11, n)
	assert.Equal(t, MouseEvent{Button: 0, X: 12, Y: 5}, ev)

	ev, _, ok = ParseSGRMouse([]byte("\x1b[<32;30;5M"))
	require.True(t, ok)
	assert.True(t, ev.Motion())

	ev, _, ok = ParseSGRMouse([]byte("\x1b[<0;40;5m"))
	require.True(t, ok)
	assert.True(t, ev.Release)

	for _, bad := range []string{"", "q", "\x1b[A", "\x1b[<0;1", "\x1b[<0;x;1M", "\x1b[<0;1M"} {
		_, _, ok := ParseSGRMouse([]byte(bad))
		assert.False(t, ok, "%q", bad)
	}
}

func TestDrag(t *testing.T) {
	d := &Drag{Threshold: 8}

	_, done := d.Handle(MouseEvent{Button: 0, X: 10})
	assert.False(t, done)
	assert.True(t, d.Active())
	_, done = d.Handle(MouseEvent{Button: 32, X: 15})
	assert.False(t, done)

	action, done := d.Handle(MouseEvent{Button: 0, X: 25, Release: true})
	assert.True(t, done)
	assert.Equal(t, Known, action)
	assert.False(t, d.Active())

	d.Handle(MouseEvent{Button: 0, X: 40})
	action, _ = d.Handle(MouseEvent{Button: 0, X: 20, Release: true})
	assert.Equal(t, Unknown, action)

	d.Handle(MouseEvent{Button: 0, X: 40})
	action, done = d.Handle(MouseEvent{Button: 0, X: 44, Release: true})
	assert.True(t, done)
	assert.Equal(t, None, action)

	// Release without a press, and right-button presses, are ignored
	_, done = d.Handle(MouseEvent{Button: 0, X: 1, Release: true})
	assert.False(t, done)
	d.Handle(MouseEvent{Button: 2, X: 1})
	assert.False(t, d.Active())
}

func TestDragIgnoresWheel(t *testing.T) {
	d := &Drag{Threshold: 8}

	d.Handle(MouseEvent{Button: 0, X: 10})
	d.Handle(MouseEvent{Button: 64, X: 40})
	d.Handle(MouseEvent{Button: 65, X: 40})
	action, done := d.Handle(MouseEvent{Button: 0, X: 30, Release: true})
	assert.True(t, done)
	assert.Equal(t, Known, action, "the drag still starts at the press column")

	d.Handle(MouseEvent{Button: 64, X: 40})
	assert.False(t, d.Active())
}
