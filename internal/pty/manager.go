package pty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"github.com/sirupsen/logrus"

	"github.com/pleimann/navpad/internal/action"
)

// ErrPTYNotStarted is returned when writing before Start or after Stop
var ErrPTYNotStarted = errors.New("PTY not started")

// Initial terminal size of the hosted TUI
var defaultSize = &pty.Winsize{Rows: 24, Cols: 80}

// Manager manages a PTY and the TUI process running in it
type Manager struct {
	command    string
	args       []string
	workingDir string
	log        logrus.FieldLogger

	mu   sync.Mutex
	ptmx *os.File
	cmd  *exec.Cmd
	done chan struct{}

	outputMu     sync.RWMutex
	outputBuffer *RingBuffer
}

// RingBuffer keeps the most recent bytes written to it
type RingBuffer struct {
	data  []byte
	size  int
	write int
	full  bool
}

// NewRingBuffer creates a new ring buffer with the given size
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write writes data to the ring buffer
func (rb *RingBuffer) Write(p []byte) {
	for _, b := range p {
		rb.data[rb.write] = b
		rb.write = (rb.write + 1) % rb.size
		if rb.write == 0 {
			rb.full = true
		}
	}
}

// String returns the buffer contents from oldest to newest
func (rb *RingBuffer) String() string {
	if !rb.full {
		return string(rb.data[:rb.write])
	}
	result := make([]byte, 0, rb.size)
	result = append(result, rb.data[rb.write:]...)
	result = append(result, rb.data[:rb.write]...)
	return string(result)
}

// NewManager creates a new PTY manager
func NewManager(command string, args []string, workingDir string, log logrus.FieldLogger) (*Manager, error) {
	if command == "" {
		return nil, fmt.Errorf("command is required")
	}

	return &Manager{
		command:      command,
		args:         args,
		workingDir:   workingDir,
		log:          log.WithField("component", "pty"),
		outputBuffer: NewRingBuffer(4096),
	}, nil
}

// Start starts the TUI process in a PTY
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := exec.CommandContext(ctx, m.command, m.args...)
	if m.workingDir != "" {
		cmd.Dir = m.workingDir
	}
	cmd.Env = os.Environ()

	ptmx, err := pty.StartWithSize(cmd, defaultSize)
	if err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}

	m.ptmx = ptmx
	m.cmd = cmd
	m.done = make(chan struct{})

	m.log.WithFields(logrus.Fields{
		"command": m.command,
		"pid":     cmd.Process.Pid,
	}).Info("TUI started")

	go m.readOutput(ptmx)

	go func(done chan struct{}) {
		err := cmd.Wait()
		entry := m.log.WithField("command", m.command)
		if err != nil && ctx.Err() == nil {
			entry = entry.WithError(err)
		}
		entry.Info("TUI exited")
		close(done)
	}(m.done)

	return nil
}

// Done is closed when the TUI process exits. It is nil before Start.
func (m *Manager) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// Stop stops the TUI process and closes the PTY
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd != nil && m.cmd.Process != nil && !m.exited() {
		if err := m.cmd.Process.Signal(os.Interrupt); err != nil {
			m.log.WithError(err).Debug("failed to interrupt TUI")
		}
		<-m.done
	}

	if m.ptmx != nil {
		m.ptmx.Close()
		m.ptmx = nil
	}

	if tail := m.GetRecentOutput(); tail != "" {
		m.log.WithField("bytes", len(tail)).Debug("last TUI output:\n" + tail)
	}
}

func (m *Manager) exited() bool {
	if m.done == nil {
		return true
	}
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

// readOutput drains the PTY into the ring buffer until it closes
func (m *Manager) readOutput(ptmx *os.File) {
	buf := make([]byte, 1024)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			m.outputMu.Lock()
			m.outputBuffer.Write(buf[:n])
			m.outputMu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				m.log.WithError(err).Debug("PTY read stopped")
			}
			return
		}
	}
}

// WriteKey writes a key press to the PTY
func (m *Manager) WriteKey(key action.KeyPress) error {
	data := key.ToBytes()
	if data == nil {
		return fmt.Errorf("could not convert key %s to bytes", key)
	}
	return m.write(data)
}

func (m *Manager) write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx == nil {
		return ErrPTYNotStarted
	}

	_, err := m.ptmx.Write(data)
	return err
}

// GetRecentOutput returns recent output from the TUI
func (m *Manager) GetRecentOutput() string {
	m.outputMu.RLock()
	defer m.outputMu.RUnlock()
	return m.outputBuffer.String()
}

// IsRunning returns whether the TUI process is running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd == nil || m.cmd.Process == nil {
		return false
	}
	return !m.exited()
}
