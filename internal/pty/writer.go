package pty

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pleimann/navpad/internal/action"
)

// ErrKeyQueueFull is returned when the TUI is not keeping up with key
// actions and a sequence has to be dropped
var ErrKeyQueueFull = errors.New("key queue full")

const keyQueueSize = 32

// KeySink receives single key presses. Manager is the production sink.
type KeySink interface {
	WriteKey(key action.KeyPress) error
}

// Writer delivers key sequences to a sink from its own goroutine, with an
// optional delay between keystrokes. It implements action.KeyWriter, so
// WriteKeys never blocks the caller.
type Writer struct {
	sink     KeySink
	keyDelay time.Duration
	queue    chan []action.KeyPress
	log      logrus.FieldLogger
}

// NewWriter creates a writer; nothing is delivered until Run is started
func NewWriter(sink KeySink, keyDelay time.Duration, log logrus.FieldLogger) *Writer {
	return &Writer{
		sink:     sink,
		keyDelay: keyDelay,
		queue:    make(chan []action.KeyPress, keyQueueSize),
		log:      log.WithField("component", "keys"),
	}
}

// WriteKeys queues a key sequence. It fails with ErrKeyQueueFull instead
// of waiting when the queue is full.
func (w *Writer) WriteKeys(keys []action.KeyPress) error {
	seq := append([]action.KeyPress(nil), keys...)
	select {
	case w.queue <- seq:
		return nil
	default:
		return ErrKeyQueueFull
	}
}

// Run delivers queued sequences until ctx is canceled
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case seq := <-w.queue:
			w.deliver(ctx, seq)
		}
	}
}

func (w *Writer) deliver(ctx context.Context, seq []action.KeyPress) {
	for i, key := range seq {
		if err := w.sink.WriteKey(key); err != nil {
			w.log.WithError(err).WithFields(logrus.Fields{
				"key":     key.String(),
				"dropped": len(seq) - i - 1,
			}).Warn("failed to write key")
			return
		}

		// Some TUIs drop keys that arrive in the same read
		if w.keyDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.keyDelay):
			}
		}
	}
}
