package gesture

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the phase of a pointer event
type Phase int

const (
	PhaseDown Phase = iota + 1
	PhaseUp
	PhaseMove
	PhaseCancel
)

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseUp:
		return "up"
	case PhaseMove:
		return "move"
	case PhaseCancel:
		return "cancel"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ParsePhase parses the lowercase phase names used in traces and logs
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "down":
		return PhaseDown, nil
	case "up":
		return PhaseUp, nil
	case "move":
		return PhaseMove, nil
	case "cancel":
		return PhaseCancel, nil
	default:
		return 0, fmt.Errorf("unknown pointer phase %q", s)
	}
}

// PointerEvent is a single pointer sample in button-local coordinates.
// Time is the source timestamp; the dispatcher measures intervals with its
// scheduler clock instead.
type PointerEvent struct {
	Phase Phase
	X     float32
	Y     float32
	Time  time.Duration
}

func (e PointerEvent) String() string {
	return fmt.Sprintf("%s(%.0f,%.0f)", e.Phase, e.X, e.Y)
}

// Kind represents the resolved gesture
type Kind int

const (
	KindSingle Kind = iota
	KindDouble
	KindLong
	KindRepeat
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single_press"
	case KindDouble:
		return "double_press"
	case KindLong:
		return "long_press"
	case KindRepeat:
		return "repeat_press"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Actions holds the action identifiers bound to a button. An empty string
// means the gesture is not configured.
type Actions struct {
	Single string
	Double string
	Long   string
}

// For returns the action bound to a gesture kind. Repeat firings reuse the
// single action.
func (a Actions) For(k Kind) string {
	switch k {
	case KindSingle, KindRepeat:
		return a.Single
	case KindDouble:
		return a.Double
	case KindLong:
		return a.Long
	default:
		return ""
	}
}

// Gesture is a resolved gesture on a named button
type Gesture struct {
	Button string
	Kind   Kind
	Action string
}

func (g Gesture) String() string {
	return fmt.Sprintf("%s(%s)", g.Kind, g.Button)
}

// Key returns a unique key for this gesture, used for log fields and
// replay output
func (g Gesture) Key() string {
	var sb strings.Builder
	sb.WriteString(g.Kind.String())
	sb.WriteString(":")
	sb.WriteString(g.Button)
	return sb.String()
}

// HapticKind selects a vibration pattern
type HapticKind int

const (
	HapticVirtualKey HapticKind = iota + 1
	HapticLongPress
)

func (h HapticKind) String() string {
	switch h {
	case HapticVirtualKey:
		return "virtual_key"
	case HapticLongPress:
		return "long_press"
	default:
		return fmt.Sprintf("unknown(%d)", int(h))
	}
}

// AccessibilityEvent is announced to the accessibility sink
type AccessibilityEvent int

const (
	EventClicked AccessibilityEvent = iota + 1
	EventLongClicked
)

func (e AccessibilityEvent) String() string {
	switch e {
	case EventClicked:
		return "clicked"
	case EventLongClicked:
		return "long_clicked"
	default:
		return fmt.Sprintf("unknown(%d)", int(e))
	}
}
