package gesture

import "time"

// Launcher performs the effect named by an action identifier. Calls are
// fire-and-forget; failures stay with the launcher.
type Launcher interface {
	Launch(action string)
}

// Feedback produces haptic and audio feedback
type Feedback interface {
	Vibrate(kind HapticKind)
	PlayClickSound()
}

// Announcer receives accessibility notifications
type Announcer interface {
	Announce(ev AccessibilityEvent)
}

// PowerHint asks the platform to boost performance for the given window
type PowerHint interface {
	Boost(d time.Duration)
}

// Services bundles the collaborators a Dispatcher talks to. Nil members are
// replaced with no-op implementations.
type Services struct {
	Launcher  Launcher
	Feedback  Feedback
	Announcer Announcer
	Power     PowerHint
}

func (s Services) withDefaults() Services {
	if s.Launcher == nil {
		s.Launcher = nopServices{}
	}
	if s.Feedback == nil {
		s.Feedback = nopServices{}
	}
	if s.Announcer == nil {
		s.Announcer = nopServices{}
	}
	if s.Power == nil {
		s.Power = nopServices{}
	}
	return s
}

type nopServices struct{}

func (nopServices) Launch(string) {}
func (nopServices) Vibrate(HapticKind) {}
func (nopServices) PlayClickSound() {}
func (nopServices) Announce(AccessibilityEvent) {}
func (nopServices) Boost(time.Duration) {}
