package action

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pleimann/navpad/internal/config"
	"github.com/sirupsen/logrus"
)

type mockKeyWriter struct {
	keys []KeyPress
	err  error
}

func (m *mockKeyWriter) WriteKeys(keys []KeyPress) error {
	if m.err != nil {
		return m.err
	}
	m.keys = append(m.keys, keys...)
	return nil
}

type mockRunner struct {
	commands []string
}

func (m *mockRunner) Run(command string) error {
	m.commands = append(m.commands, command)
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestExecutor(w KeyWriter, r CommandRunner, cfg *config.Config) *Executor {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return NewExecutor(w, NewMapper(cfg), r, testLogger())
}

func TestExecutorExecute(t *testing.T) {
	mock := &mockKeyWriter{}
	executor := newTestExecutor(mock, nil, nil)

	if err := executor.Execute([]string{"ctrl+c", "enter", "a"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(mock.keys) != 3 {
		t.Fatalf("wrote %d keys, want 3", len(mock.keys))
	}
	if !mock.keys[0].Ctrl || mock.keys[0].Key != "c" {
		t.Errorf("key[0] = %+v, want ctrl+c", mock.keys[0])
	}
	if mock.keys[1].Key != "enter" {
		t.Errorf("key[1] = %+v, want enter", mock.keys[1])
	}
	if mock.keys[2].Key != "a" {
		t.Errorf("key[2] = %+v, want a", mock.keys[2])
	}
}

func TestExecutorExecuteInvalidKey(t *testing.T) {
	mock := &mockKeyWriter{}
	executor := newTestExecutor(mock, nil, nil)
	if err := executor.Execute([]string{"a", "invalid_key_name"}); err == nil {
		t.Error("Execute() expected error for invalid key, got nil")
	}
	if len(mock.keys) != 0 {
		t.Errorf("wrote %v before the invalid key, want nothing", mock.keys)
	}
}

func TestExecutorExecuteWriterError(t *testing.T) {
	busy := errors.New("queue full")
	executor := newTestExecutor(&mockKeyWriter{err: busy}, nil, nil)
	if err := executor.Execute([]string{"esc"}); !errors.Is(err, busy) {
		t.Errorf("Execute() error = %v, want wrapped %v", err, busy)
	}
}

func TestExecutorExecuteWithoutWriter(t *testing.T) {
	executor := newTestExecutor(nil, nil, nil)
	if err := executor.Execute([]string{"esc"}); !errors.Is(err, ErrNoKeySink) {
		t.Errorf("Execute() error = %v, want ErrNoKeySink", err)
	}
}

func TestExecutorRun(t *testing.T) {
	cfg := &config.Config{
		Commands: map[string]string{ActionScreenshot: "scrot"},
	}

	tests := []struct {
		name         string
		action       string
		wantKeys     []string
		wantCommands []string
		wantErr      bool
	}{
		{name: "system key action", action: ActionBack, wantKeys: []string{"esc"}},
		{name: "arrow", action: ActionArrowUp, wantKeys: []string{"up"}},
		{name: "configured command", action: ActionScreenshot, wantCommands: []string{"scrot"}},
		{name: "command line", action: "tmux next-window", wantCommands: []string{"tmux next-window"}},
		{name: "empty", action: ""},
		{name: "blank", action: ActionBlank},
		{name: "unbound", action: ActionTorch},
		{name: "unknown", action: "**warp**", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &mockKeyWriter{}
			r := &mockRunner{}
			executor := newTestExecutor(w, r, cfg)

			err := executor.Run(tt.action)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run(%q) error = %v, wantErr %v", tt.action, err, tt.wantErr)
			}

			var keys []string
			for _, k := range w.keys {
				keys = append(keys, k.String())
			}
			if len(keys) != len(tt.wantKeys) {
				t.Fatalf("keys = %v, want %v", keys, tt.wantKeys)
			}
			for i := range keys {
				if keys[i] != tt.wantKeys[i] {
					t.Errorf("keys[%d] = %q, want %q", i, keys[i], tt.wantKeys[i])
				}
			}
			if len(r.commands) != len(tt.wantCommands) {
				t.Fatalf("commands = %v, want %v", r.commands, tt.wantCommands)
			}
			for i := range r.commands {
				if r.commands[i] != tt.wantCommands[i] {
					t.Errorf("commands[%d] = %q, want %q", i, r.commands[i], tt.wantCommands[i])
				}
			}
		})
	}
}

func TestExecutorLaunchSwallowsErrors(t *testing.T) {
	w := &mockKeyWriter{err: errors.New("pty closed")}
	executor := newTestExecutor(w, nil, nil)

	// Must not panic; the failure is only logged
	executor.Launch(ActionHome)
	executor.Launch("**warp**")
}

func TestShellRunner(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")

	r := &ShellRunner{Dir: dir, Log: testLogger()}
	if err := r.Run("touch 'ran'"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(marker); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("command did not run")
}

func TestShellRunnerErrors(t *testing.T) {
	r := &ShellRunner{}

	tests := []string{
		"",
		"echo 'unterminated",
		"/nonexistent/binary --flag",
	}
	for _, cmd := range tests {
		if err := r.Run(cmd); err == nil {
			t.Errorf("Run(%q) expected error", cmd)
		}
	}
}
