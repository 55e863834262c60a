//go:build linux

package touch

import (
	"context"
	"fmt"
	"time"

	evdev "github.com/gvalkov/golang-evdev"
	"github.com/sirupsen/logrus"
)

// Source reads a touch panel through the Linux input subsystem
type Source struct {
	path string
	log  logrus.FieldLogger
}

// NewSource creates a touch source for an evdev node such as
// /dev/input/event3
func NewSource(path string, log logrus.FieldLogger) *Source {
	return &Source{path: path, log: log.WithField("component", "touch")}
}

// Run reads frames until ctx is canceled, feeding them to tracker
func (s *Source) Run(ctx context.Context, tracker *Tracker) error {
	dev, err := evdev.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open touch device %s: %w", s.path, err)
	}
	s.log.WithFields(logrus.Fields{"path": s.path, "name": dev.Name}).Info("touch device opened")

	// Closing the file unblocks Read
	stop := context.AfterFunc(ctx, func() { dev.File.Close() })
	defer stop()
	defer dev.File.Close()

	var frame frameState
	for {
		events, err := dev.Read()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("touch read error: %w", err)
		}
		for _, ev := range events {
			frame.apply(ev, tracker)
		}
	}
}

// frameState accumulates one evdev frame up to its SYN_REPORT
type frameState struct {
	x, y     float32
	moved    bool
	touching bool
	changed  bool
	dropped  bool
}

func (f *frameState) apply(ev evdev.InputEvent, t *Tracker) {
	switch ev.Type {
	case evdev.EV_ABS:
		switch ev.Code {
		case evdev.ABS_X, evdev.ABS_MT_POSITION_X:
			f.x = float32(ev.Value)
			f.moved = true
		case evdev.ABS_Y, evdev.ABS_MT_POSITION_Y:
			f.y = float32(ev.Value)
			f.moved = true
		}
	case evdev.EV_KEY:
		if ev.Code == evdev.BTN_TOUCH {
			f.touching = ev.Value != 0
			f.changed = true
		}
	case evdev.EV_SYN:
		switch ev.Code {
		case evdev.SYN_DROPPED:
			f.dropped = true
		case evdev.SYN_REPORT:
			f.flush(timestamp(ev), t)
		}
	}
}

func (f *frameState) flush(ts time.Duration, t *Tracker) {
	switch {
	case f.dropped:
		// The kernel lost events; whatever was in flight is unreliable
		t.Cancel(ts)
	case f.changed && f.touching:
		t.Down(f.x, f.y, ts)
	case f.changed:
		t.Up(ts)
	case f.moved && f.touching:
		t.Move(f.x, f.y, ts)
	}
	f.moved, f.changed, f.dropped = false, false, false
}

func timestamp(ev evdev.InputEvent) time.Duration {
	return time.Duration(ev.Time.Sec)*time.Second + time.Duration(ev.Time.Usec)*time.Microsecond
}
