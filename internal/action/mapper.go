package action

import (
	"fmt"
	"strings"

	"github.com/pleimann/navpad/internal/config"
)

// Effect is what launching an action does: write keys to the TUI, run a
// command, or nothing at all.
type Effect struct {
	Action  string
	Keys    []string
	Command string
}

// Empty reports whether the effect does nothing
func (e Effect) Empty() bool {
	return len(e.Keys) == 0 && e.Command == ""
}

func (e Effect) String() string {
	switch {
	case e.Command != "":
		return "run " + e.Command
	case len(e.Keys) > 0:
		return "keys " + strings.Join(e.Keys, " ")
	default:
		return "none"
	}
}

// DefaultKeymap binds system actions to terminal keys when the config does
// not override them
var DefaultKeymap = map[string][]string{
	ActionBack:           {"esc"},
	ActionHome:           {"home"},
	ActionRecents:        {"tab"},
	ActionMenu:           {"f10"},
	ActionSearch:         {"ctrl+f"},
	ActionIME:            {"f9"},
	ActionLastApp:        {"ctrl+^"},
	ActionKill:           {"ctrl+c"},
	ActionAssist:         {"f1"},
	ActionNotifications:  {"f11"},
	ActionSettingsPanel:  {"f12"},
	ActionArrowLeft:      {"left"},
	ActionArrowRight:     {"right"},
	ActionArrowUp:        {"up"},
	ActionArrowDown:      {"down"},
	ActionMediaPrevious:  {"pgup"},
	ActionMediaNext:      {"pgdn"},
	ActionMediaPlayPause: {"space"},
}

// Mapper resolves action identifiers to effects based on configuration.
// It is owned by the event loop and not safe for concurrent use.
type Mapper struct {
	keymap   map[string][]string
	commands map[string]string
}

// NewMapper creates a new action mapper from configuration
func NewMapper(cfg *config.Config) *Mapper {
	m := &Mapper{
		keymap:   make(map[string][]string, len(DefaultKeymap)),
		commands: make(map[string]string),
	}

	for action, keys := range DefaultKeymap {
		m.keymap[action] = keys
	}
	for action, keys := range cfg.Keymap {
		m.keymap[action] = keys
	}
	for action, cmd := range cfg.Commands {
		m.commands[action] = cmd
	}

	return m
}

// Map resolves an action identifier. Commands configured for an action win
// over its keys. Unbound known system actions map to an empty effect.
func (m *Mapper) Map(action string) (Effect, error) {
	e := Effect{Action: action}

	if IsNoop(action) {
		return e, nil
	}

	if cmd, ok := m.commands[action]; ok {
		e.Command = cmd
		return e, nil
	}
	if keys, ok := m.keymap[action]; ok {
		e.Keys = keys
		return e, nil
	}

	if IsSystem(action) {
		if !IsKnown(action) {
			return e, fmt.Errorf("%w: %s", ErrUnknownAction, action)
		}
		return e, nil
	}

	e.Command = action
	return e, nil
}

// Reload updates the mapper with new configuration
func (m *Mapper) Reload(cfg *config.Config) {
	newMapper := NewMapper(cfg)
	m.keymap = newMapper.keymap
	m.commands = newMapper.commands
}
