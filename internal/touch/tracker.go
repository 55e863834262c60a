package touch

import (
	"sort"
	"time"

	"github.com/pleimann/navpad/internal/config"
	"github.com/pleimann/navpad/internal/gesture"
)

// EmitFunc receives pointer events in button-local coordinates
type EmitFunc func(button string, ev gesture.PointerEvent)

type area struct {
	name string
	rect config.Rect
}

// Tracker turns absolute touch samples into per-button pointer events. The
// button under the first contact captures the whole gesture: later samples
// go to it even outside its rectangle, so its dispatcher can apply slop.
type Tracker struct {
	areas []area
	emit  EmitFunc

	captured *area
	x, y     float32
}

// NewTracker creates a tracker hit-testing against rects, keyed by slot name
func NewTracker(rects map[string]config.Rect, emit EmitFunc) *Tracker {
	areas := make([]area, 0, len(rects))
	for name, r := range rects {
		areas = append(areas, area{name: name, rect: r})
	}
	// Deterministic hit order when rectangles overlap
	sort.Slice(areas, func(i, j int) bool { return areas[i].name < areas[j].name })

	return &Tracker{areas: areas, emit: emit}
}

// HitTest returns the button under an absolute point
func (t *Tracker) HitTest(x, y float32) (string, bool) {
	if a := t.hit(x, y); a != nil {
		return a.name, true
	}
	return "", false
}

func (t *Tracker) hit(x, y float32) *area {
	for i := range t.areas {
		if t.areas[i].rect.Contains(x, y) {
			return &t.areas[i]
		}
	}
	return nil
}

// Down starts a contact. Contacts outside every button are ignored until
// they lift.
func (t *Tracker) Down(x, y float32, ts time.Duration) {
	if t.captured != nil {
		t.Cancel(ts)
	}
	t.captured = t.hit(x, y)
	t.send(gesture.PhaseDown, x, y, ts)
}

func (t *Tracker) Move(x, y float32, ts time.Duration) {
	t.send(gesture.PhaseMove, x, y, ts)
}

func (t *Tracker) Up(ts time.Duration) {
	t.send(gesture.PhaseUp, t.x, t.y, ts)
	t.captured = nil
}

// Cancel aborts the current contact, e.g. after the kernel dropped events
func (t *Tracker) Cancel(ts time.Duration) {
	t.send(gesture.PhaseCancel, t.x, t.y, ts)
	t.captured = nil
}

// Active reports whether a contact is captured by a button
func (t *Tracker) Active() bool {
	return t.captured != nil
}

func (t *Tracker) send(phase gesture.Phase, x, y float32, ts time.Duration) {
	t.x, t.y = x, y
	if t.captured == nil {
		return
	}
	r := t.captured.rect
	t.emit(t.captured.name, gesture.PointerEvent{
		Phase: phase,
		X:     x - r.X,
		Y:     y - r.Y,
		Time:  ts,
	})
}
