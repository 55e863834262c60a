package action

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"github.com/sirupsen/logrus"
)

// ErrNoKeySink is returned when a key action fires without a TUI to receive it
var ErrNoKeySink = errors.New("no key sink configured")

// KeyWriter accepts a key sequence for delivery. Implementations must not
// block; Launch runs on the event loop.
type KeyWriter interface {
	WriteKeys(keys []KeyPress) error
}

// CommandRunner starts command-line actions
type CommandRunner interface {
	Run(command string) error
}

// Executor launches actions: it resolves them through the mapper and then
// writes keys or starts commands. It implements gesture.Launcher.
type Executor struct {
	writer KeyWriter
	mapper *Mapper
	runner CommandRunner
	log    logrus.FieldLogger
}

// NewExecutor creates a new action executor. writer may be nil when no TUI
// is hosted; key actions then fail with ErrNoKeySink.
func NewExecutor(writer KeyWriter, mapper *Mapper, runner CommandRunner, log logrus.FieldLogger) *Executor {
	return &Executor{
		writer: writer,
		mapper: mapper,
		runner: runner,
		log:    log.WithField("component", "action"),
	}
}

// Launch runs an action and logs failures. Launch never blocks on a
// started command.
func (e *Executor) Launch(action string) {
	if err := e.Run(action); err != nil {
		e.log.WithError(err).WithField("action", action).Error("action failed")
	}
}

// Run resolves and performs an action
func (e *Executor) Run(action string) error {
	effect, err := e.mapper.Map(action)
	if err != nil {
		return err
	}

	if effect.Empty() {
		e.log.WithField("action", action).Debug("action has no effect")
		return nil
	}

	e.log.WithFields(logrus.Fields{
		"action": action,
		"effect": effect.String(),
	}).Debug("launching action")

	if effect.Command != "" {
		if e.runner == nil {
			return fmt.Errorf("no command runner for %q", effect.Command)
		}
		return e.runner.Run(effect.Command)
	}
	return e.Execute(effect.Keys)
}

// Execute parses a sequence of key strings and hands it to the writer.
// Nothing is written when any key fails to parse.
func (e *Executor) Execute(keys []string) error {
	if e.writer == nil {
		return ErrNoKeySink
	}
	parsed := make([]KeyPress, 0, len(keys))
	for _, keyStr := range keys {
		key, err := ParseKey(keyStr)
		if err != nil {
			return fmt.Errorf("invalid key %q: %w", keyStr, err)
		}
		parsed = append(parsed, key)
	}
	if err := e.writer.WriteKeys(parsed); err != nil {
		return fmt.Errorf("failed to write keys %v: %w", keys, err)
	}
	return nil
}

// ShellRunner starts command lines as detached child processes
type ShellRunner struct {
	Dir string
	Log logrus.FieldLogger
}

// Run splits the command line with shell quoting rules and starts it. The
// child is reaped in the background.
func (r *ShellRunner) Run(command string) error {
	args, err := shellquote.Split(command)
	if err != nil {
		return fmt.Errorf("failed to parse command %q: %w", command, err)
	}
	if len(args) == 0 {
		return fmt.Errorf("empty command")
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = r.Dir
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", args[0], err)
	}

	go func() {
		err := cmd.Wait()
		if r.Log == nil {
			return
		}
		entry := r.Log.WithFields(logrus.Fields{"command": args[0], "pid": cmd.Process.Pid})
		if err != nil {
			entry.WithError(err).Warn("command exited with error")
			return
		}
		entry.Debug("command exited")
	}()

	return nil
}
