package replay

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pleimann/navpad/internal/action"
	"github.com/pleimann/navpad/internal/config"
	"github.com/pleimann/navpad/internal/gesture"
	"github.com/pleimann/navpad/internal/navbar"
)

// Epoch is the virtual start time of every replay
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Record kinds
const (
	KindGesture  = "gesture"
	KindVibrate  = "vibrate"
	KindClick    = "click"
	KindAnnounce = "announce"
)

// Record is one observable side effect produced during a replay
type Record struct {
	AtMs   int64
	Kind   string
	Button string
	Detail string
	Effect string
}

func (r Record) String() string {
	s := fmt.Sprintf("%6dms %-8s", r.AtMs, r.Kind)
	if r.Button != "" {
		s += " " + r.Button
	}
	if r.Detail != "" {
		s += " " + r.Detail
	}
	if r.Effect != "" {
		s += " -> " + r.Effect
	}
	return s
}

// Recorder collects side effects against a virtual clock. It serves as
// launcher, feedback and accessibility sink for a replayed bar.
type Recorder struct {
	clock   gesture.Scheduler
	mapper  *action.Mapper
	button  string
	records *[]Record
}

// NewRecorder creates a recorder reading time from clock. mapper, if not
// nil, resolves each launched action so records show its effect.
func NewRecorder(clock gesture.Scheduler, mapper *action.Mapper) *Recorder {
	return &Recorder{clock: clock, mapper: mapper, records: new([]Record)}
}

// Records returns everything recorded so far
func (r *Recorder) Records() []Record {
	return append([]Record(nil), *r.records...)
}

func (r *Recorder) add(rec Record) {
	rec.AtMs = r.clock.Now().Sub(Epoch).Milliseconds()
	*r.records = append(*r.records, rec)
}

// Launch is a no-op; launches are recorded through Gesture, which knows
// the button
func (r *Recorder) Launch(string) {}

func (r *Recorder) Vibrate(kind gesture.HapticKind) {
	r.add(Record{Kind: KindVibrate, Detail: kind.String()})
}

func (r *Recorder) PlayClickSound() {
	r.add(Record{Kind: KindClick})
}

func (r *Recorder) Announce(ev gesture.AccessibilityEvent) {
	r.add(Record{Kind: KindAnnounce, Button: r.button, Detail: ev.String()})
}

// ForButton returns a recorder sharing the same log whose announcements
// carry the button name
func (r *Recorder) ForButton(name string) gesture.Announcer {
	scoped := *r
	scoped.button = name
	return &scoped
}

// Gesture records a resolved gesture
func (r *Recorder) Gesture(g gesture.Gesture) {
	rec := Record{Kind: KindGesture, Button: g.Button, Detail: g.Kind.String() + " " + g.Action}
	if r.mapper != nil {
		effect, err := r.mapper.Map(g.Action)
		if err != nil {
			rec.Effect = "error: " + err.Error()
		} else {
			rec.Effect = effect.String()
		}
	}
	r.add(rec)
}

// Run replays trace against a bar built from cfg on a virtual clock and
// returns every side effect in order
func Run(cfg *config.Config, trace *Trace, mapper *action.Mapper, log logrus.FieldLogger) ([]Record, error) {
	sched := gesture.NewManualScheduler(Epoch)
	rec := NewRecorder(sched, mapper)
	svc := gesture.Services{
		Launcher:  rec,
		Feedback:  rec,
		Announcer: rec,
	}
	bar := navbar.New(cfg, sched, svc, rec.Gesture, log)

	for i, step := range trace.Events {
		sched.AdvanceTo(Epoch.Add(time.Duration(step.AtMs) * time.Millisecond))

		if step.Orientation != "" {
			bar.SetOrientation(step.Orientation == "landscape")
		}
		if step.State != nil {
			bar.ApplyState(*step.State)
		}
		if step.Phase == "" {
			continue
		}

		phase, err := gesture.ParsePhase(step.Phase)
		if err != nil {
			return rec.Records(), fmt.Errorf("events[%d]: %w", i, err)
		}
		ev := gesture.PointerEvent{
			Phase: phase,
			X:     step.X,
			Y:     step.Y,
			Time:  time.Duration(step.AtMs) * time.Millisecond,
		}

		if step.Button != "" {
			err = bar.HandleNamed(step.Button, ev)
		} else {
			err = bar.Handle(*step.Slot, ev)
		}
		if err != nil {
			return rec.Records(), fmt.Errorf("events[%d]: %w", i, err)
		}
	}

	sched.Advance(time.Duration(trace.TailMs) * time.Millisecond)
	return rec.Records(), nil
}
