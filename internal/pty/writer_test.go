package pty

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/pleimann/navpad/internal/action"
	"github.com/pleimann/navpad/internal/config"
	"github.com/pleimann/navpad/internal/gesture"
)

type recordingSink struct {
	mu       sync.Mutex
	keys     []string
	failNext int
	got      chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{got: make(chan struct{}, 64)}
}

func (s *recordingSink) WriteKey(key action.KeyPress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext > 0 {
		s.failNext--
		return ErrPTYNotStarted
	}
	s.keys = append(s.keys, key.String())
	s.got <- struct{}{}
	return nil
}

func (s *recordingSink) written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

func (s *recordingSink) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-s.got:
		case <-time.After(5 * time.Second):
			t.Fatalf("only %d of %d keys written", i, n)
		}
	}
}

func keys(names ...string) []action.KeyPress {
	out := make([]action.KeyPress, len(names))
	for i, n := range names {
		out[i] = action.KeyPress{Key: n}
	}
	return out
}

func TestWriterDeliversInOrder(t *testing.T) {
	sink := newRecordingSink()
	w := NewWriter(sink, time.Millisecond, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := w.WriteKeys(keys("a", "b")); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteKeys(keys("c")); err != nil {
		t.Fatal(err)
	}
	sink.wait(t, 3)

	if got := sink.written(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("written = %v, want [a b c]", got)
	}
}

func TestWriterQueueFull(t *testing.T) {
	w := NewWriter(newRecordingSink(), 0, quietLogger())

	for i := 0; i < keyQueueSize; i++ {
		if err := w.WriteKeys(keys("x")); err != nil {
			t.Fatalf("WriteKeys() #%d error = %v", i, err)
		}
	}
	if err := w.WriteKeys(keys("x")); !errors.Is(err, ErrKeyQueueFull) {
		t.Errorf("WriteKeys() error = %v, want ErrKeyQueueFull", err)
	}
}

func TestWriterSinkErrorDropsRest(t *testing.T) {
	sink := newRecordingSink()
	sink.failNext = 1
	w := NewWriter(sink, 0, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := w.WriteKeys(keys("a", "b")); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteKeys(keys("c")); err != nil {
		t.Fatal(err)
	}
	sink.wait(t, 1)

	if got := sink.written(); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("written = %v, want only [c] after the failed sequence", got)
	}
}

// A multi-key action with a key delay must not hold up the event loop the
// launcher is called from.
func TestLaunchDoesNotStallLoop(t *testing.T) {
	cfg := &config.Config{
		Keymap: map[string][]string{
			action.ActionHome: {"a", "b", "c", "d", "e", "f"},
		},
	}
	sink := newRecordingSink()
	w := NewWriter(sink, 50*time.Millisecond, quietLogger())
	exec := action.NewExecutor(w, action.NewMapper(cfg), nil, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := gesture.NewLoop(0)
	go loop.Run(ctx)
	go w.Run(ctx)

	fired := make(chan time.Duration, 1)
	start := time.Now()
	loop.Post(func() {
		loop.Schedule(20*time.Millisecond, func() { fired <- time.Since(start) })
		exec.Launch(action.ActionHome)
	})

	select {
	case d := <-fired:
		// Six keys at 50ms each would hold a synchronous launch for 300ms
		if d > 150*time.Millisecond {
			t.Errorf("20ms timer fired after %v", d)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timer never fired")
	}

	sink.wait(t, 6)
	if got := sink.written(); !reflect.DeepEqual(got, []string{"a", "b", "c", "d", "e", "f"}) {
		t.Errorf("written = %v", got)
	}
}
