//go:build linux

package touch

import (
	"testing"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/pleimann/navpad/internal/gesture"
)

func abs(code uint16, v int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_ABS, Code: code, Value: v}
}

func key(code uint16, v int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: v}
}

func syn(code uint16) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_SYN, Code: code}
}

func TestFrameStateSequence(t *testing.T) {
	tr, out := newTestTracker()
	var f frameState

	frames := []evdev.InputEvent{
		abs(evdev.ABS_X, 120), abs(evdev.ABS_Y, 10), key(evdev.BTN_TOUCH, 1), syn(evdev.SYN_REPORT),
		abs(evdev.ABS_MT_POSITION_X, 125), syn(evdev.SYN_REPORT),
		key(evdev.BTN_TOUCH, 0), syn(evdev.SYN_REPORT),
	}
	for _, ev := range frames {
		f.apply(ev, tr)
	}

	want := []struct {
		phase gesture.Phase
		x     float32
	}{
		{gesture.PhaseDown, 20},
		{gesture.PhaseMove, 25},
		{gesture.PhaseUp, 25},
	}
	if len(*out) != len(want) {
		t.Fatalf("emitted %d events, want %d: %+v", len(*out), len(want), *out)
	}
	for i, w := range want {
		got := (*out)[i]
		if got.button != "home" || got.ev.Phase != w.phase || got.ev.X != w.x {
			t.Errorf("event[%d] = %+v, want home %v x=%v", i, got, w.phase, w.x)
		}
	}
}

func TestFrameStateDroppedCancels(t *testing.T) {
	tr, out := newTestTracker()
	var f frameState

	for _, ev := range []evdev.InputEvent{
		abs(evdev.ABS_X, 10), abs(evdev.ABS_Y, 10), key(evdev.BTN_TOUCH, 1), syn(evdev.SYN_REPORT),
		syn(evdev.SYN_DROPPED), syn(evdev.SYN_REPORT),
	} {
		f.apply(ev, tr)
	}

	if len(*out) != 2 || (*out)[1].ev.Phase != gesture.PhaseCancel {
		t.Errorf("emitted = %+v, want down then cancel", *out)
	}
	if tr.Active() {
		t.Error("tracker still active after dropped frame")
	}
}
