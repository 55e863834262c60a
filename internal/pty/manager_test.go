package pty

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pleimann/navpad/internal/action"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewRingBuffer(t *testing.T) {
	rb := NewRingBuffer(10)
	if rb.size != 10 {
		t.Errorf("size = %d, want 10", rb.size)
	}
	if len(rb.data) != 10 {
		t.Errorf("len(data) = %d, want 10", len(rb.data))
	}
}

func TestRingBuffer(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		writes []string
		want   string
	}{
		{"empty", 5, nil, ""},
		{"partial", 5, []string{"abc"}, "abc"},
		{"exact fit", 5, []string{"12345"}, "12345"},
		{"overwrite", 5, []string{"hello world"}, "world"},
		{"multiple writes", 10, []string{"hello", " ", "world"}, "ello world"},
		{"keeps NUL bytes", 4, []string{"a\x00b"}, "a\x00b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := NewRingBuffer(tt.size)
			for _, w := range tt.writes {
				rb.Write([]byte(w))
			}
			if got := rb.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager("", nil, "", quietLogger()); err == nil {
		t.Error("NewManager() with empty command should return error")
	}

	m, err := NewManager("echo", []string{"test"}, "", quietLogger())
	if err != nil {
		t.Errorf("NewManager() error = %v", err)
	}
	if m == nil {
		t.Error("NewManager() returned nil")
	}
}

func TestManagerBeforeStart(t *testing.T) {
	m, _ := NewManager("echo", []string{"test"}, "", quietLogger())

	if m.IsRunning() {
		t.Error("IsRunning() = true before Start(), want false")
	}
	if out := m.GetRecentOutput(); out != "" {
		t.Errorf("GetRecentOutput() = %q, want empty", out)
	}
	if m.Done() != nil {
		t.Error("Done() should be nil before Start()")
	}
	if err := m.WriteKey(action.KeyPress{Key: "a"}); !errors.Is(err, ErrPTYNotStarted) {
		t.Errorf("WriteKey() error = %v, want ErrPTYNotStarted", err)
	}

	// Stop without Start is a no-op
	m.Stop()
}

func TestManagerEcho(t *testing.T) {
	m, err := NewManager("cat", nil, "", quietLogger())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := m.Start(ctx); err != nil {
		t.Skipf("PTY unavailable: %v", err)
	}
	defer m.Stop()

	if !m.IsRunning() {
		t.Fatal("IsRunning() = false after Start()")
	}

	w := NewWriter(m, 0, quietLogger())
	go w.Run(ctx)
	if err := w.WriteKeys([]action.KeyPress{{Key: "h"}, {Key: "i"}}); err != nil {
		t.Fatalf("WriteKeys() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(m.GetRecentOutput(), "hi") {
		if time.Now().After(deadline) {
			t.Fatalf("GetRecentOutput() = %q, want it to contain the echoed keys", m.GetRecentOutput())
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-m.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("TUI did not exit after context cancel")
	}
	if m.IsRunning() {
		t.Error("IsRunning() = true after exit")
	}
}
