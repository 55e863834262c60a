package replay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pleimann/navpad/internal/config"
	"github.com/pleimann/navpad/internal/gesture"
)

// Step is one entry of a trace: a pointer event for a button, or a change
// of bar state. Pointer steps name their button either by name or by slot
// in the current on-screen order.
type Step struct {
	AtMs        int                 `yaml:"at_ms"`
	Button      string              `yaml:"button,omitempty"`
	Slot        *int                `yaml:"slot,omitempty"`
	Phase       string              `yaml:"phase,omitempty"`
	X           float32             `yaml:"x,omitempty"`
	Y           float32             `yaml:"y,omitempty"`
	State       *config.StateConfig `yaml:"state,omitempty"`
	Orientation string              `yaml:"orientation,omitempty"`
}

// Trace is a recorded or hand-written sequence of steps
type Trace struct {
	Events []Step `yaml:"events"`
	// TailMs is how long to keep the clock running after the last step so
	// pending callbacks can fire
	TailMs int `yaml:"tail_ms,omitempty"`
}

// Load reads a YAML trace file
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML trace
func Parse(data []byte) (*Trace, error) {
	var tr Trace
	if err := yaml.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("failed to parse trace: %w", err)
	}
	if err := tr.validate(); err != nil {
		return nil, fmt.Errorf("trace validation failed: %w", err)
	}
	if tr.TailMs == 0 {
		tr.TailMs = 1000
	}
	return &tr, nil
}

func (tr *Trace) validate() error {
	last := 0
	for i, s := range tr.Events {
		if s.AtMs < last {
			return fmt.Errorf("events[%d]: at_ms %d goes back in time", i, s.AtMs)
		}
		last = s.AtMs

		switch s.Orientation {
		case "", "portrait", "landscape":
		default:
			return fmt.Errorf("events[%d]: orientation must be portrait or landscape", i)
		}

		if s.Phase == "" {
			if s.State == nil && s.Orientation == "" {
				return fmt.Errorf("events[%d]: needs a phase, state or orientation", i)
			}
			continue
		}
		if _, err := gesture.ParsePhase(s.Phase); err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
		if s.Button == "" && s.Slot == nil {
			return fmt.Errorf("events[%d]: pointer step needs a button or slot", i)
		}
	}
	if tr.TailMs < 0 {
		return fmt.Errorf("tail_ms must not be negative")
	}
	return nil
}
