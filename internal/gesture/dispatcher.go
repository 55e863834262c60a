package gesture

import (
	"time"
)

const (
	DefaultDoubleTapTimeout = 200 * time.Millisecond
	DefaultLongPressTimeout = 500 * time.Millisecond
	DefaultRepeatTimeout    = 500 * time.Millisecond
	DefaultRepeatInterval   = 75 * time.Millisecond
	DefaultPowerBoost       = 750 * time.Millisecond
	DefaultTouchSlop        = 8
)

// Config is the static configuration of one button
type Config struct {
	Button  string
	Actions Actions

	// Repeat marks directional buttons whose hold fires the single action
	// repeatedly instead of resolving single/double/long gestures.
	Repeat bool

	Width     float32
	Height    float32
	TouchSlop float32

	DoubleTapTimeout time.Duration
	LongPressTimeout time.Duration
	RepeatTimeout    time.Duration
	RepeatInterval   time.Duration
	PowerBoost       time.Duration

	// CancelOnSlopExit cancels pending single-tap and long-press callbacks
	// when the pointer leaves the slop rectangle. Off by default: the
	// callbacks stay scheduled and only the pressed flag drops.
	CancelOnSlopExit bool
}

func (c *Config) applyDefaults() {
	if c.DoubleTapTimeout <= 0 {
		c.DoubleTapTimeout = DefaultDoubleTapTimeout
	}
	if c.LongPressTimeout <= 0 {
		c.LongPressTimeout = DefaultLongPressTimeout
	}
	if c.RepeatTimeout <= 0 {
		c.RepeatTimeout = DefaultRepeatTimeout
	}
	if c.RepeatInterval <= 0 {
		c.RepeatInterval = DefaultRepeatInterval
	}
	if c.TouchSlop < 0 {
		c.TouchSlop = 0
	}
}

// State is a snapshot of a dispatcher's gesture state
type State struct {
	Button           string
	Active           bool
	Pressed          bool
	DownTime         time.Time
	UpTime           time.Time
	SingleTapPending bool
	LongPressPending bool
	RepeatPending    bool
	ShouldClick      bool
}

// Dispatcher turns the pointer events of one button into gestures. It is
// not safe for concurrent use: events and scheduler callbacks must arrive
// on the same goroutine.
type Dispatcher struct {
	cfg       Config
	sched     Scheduler
	svc       Services
	onGesture func(Gesture)

	active      bool
	pressed     bool
	downTime    time.Time
	upTime      time.Time
	hasUp       bool
	shouldClick bool

	singleTap Handle
	longPress Handle
	repeat    Handle
}

// NewDispatcher creates a dispatcher for one button. onGesture, if not nil,
// is called after every launched gesture.
func NewDispatcher(cfg Config, sched Scheduler, svc Services, onGesture func(Gesture)) *Dispatcher {
	cfg.applyDefaults()
	return &Dispatcher{
		cfg:         cfg,
		sched:       sched,
		svc:         svc.withDefaults(),
		onGesture:   onGesture,
		shouldClick: true,
	}
}

// Pressed reports whether the button currently shows as pressed
func (d *Dispatcher) Pressed() bool {
	return d.pressed
}

// Active reports whether a DOWN is waiting for its UP or CANCEL
func (d *Dispatcher) Active() bool {
	return d.active
}

// State returns a snapshot of the gesture state
func (d *Dispatcher) State() State {
	return State{
		Button:           d.cfg.Button,
		Active:           d.active,
		Pressed:          d.pressed,
		DownTime:         d.downTime,
		UpTime:           d.upTime,
		SingleTapPending: d.singleTap != nil,
		LongPressPending: d.longPress != nil,
		RepeatPending:    d.repeat != nil,
		ShouldClick:      d.shouldClick,
	}
}

// Handle processes one pointer event
func (d *Dispatcher) Handle(ev PointerEvent) {
	d.svc.Power.Boost(d.cfg.PowerBoost)

	switch ev.Phase {
	case PhaseDown:
		d.handleDown()
	case PhaseMove:
		d.handleMove(ev.X, ev.Y)
	case PhaseCancel:
		d.handleCancel()
	case PhaseUp:
		d.handleUp()
	}
}

// Reset cancels every pending callback and drops the in-flight gesture
// without firing anything
func (d *Dispatcher) Reset() {
	d.cancelAll()
	d.active = false
	d.pressed = false
	d.shouldClick = true
}

func (d *Dispatcher) handleDown() {
	// A DOWN always starts a fresh gesture, even without a preceding UP
	d.cancelAll()
	d.active = true
	d.pressed = true
	d.shouldClick = true
	d.downTime = d.sched.Now()

	d.svc.Feedback.Vibrate(HapticVirtualKey)

	if d.cfg.Actions.Double != "" && d.hasUp && d.downTime.Sub(d.upTime) <= d.cfg.DoubleTapTimeout {
		d.doubleTap()
		return
	}

	if d.cfg.Repeat {
		d.repeat = d.sched.Schedule(d.cfg.RepeatTimeout, d.repeatTick)
		return
	}

	if d.cfg.Actions.Long != "" {
		d.longPress = d.sched.Schedule(d.cfg.LongPressTimeout, d.checkLongPress)
	}
	if d.cfg.Actions.Single != "" {
		d.singleTap = d.sched.Schedule(d.cfg.DoubleTapTimeout, d.commitSingleTap)
	}
}

func (d *Dispatcher) handleMove(x, y float32) {
	if !d.active {
		return
	}

	slop := d.cfg.TouchSlop
	inside := x >= -slop && x < d.cfg.Width+slop &&
		y >= -slop && y < d.cfg.Height+slop
	d.pressed = inside

	if !inside && d.cfg.CancelOnSlopExit {
		cancel(&d.singleTap)
		cancel(&d.longPress)
	}
}

func (d *Dispatcher) handleCancel() {
	if !d.active {
		return
	}
	d.Reset()
}

func (d *Dispatcher) handleUp() {
	if !d.active {
		return
	}
	d.active = false
	d.upTime = d.sched.Now()
	d.hasUp = true

	var playSound bool
	if d.cfg.Repeat {
		playSound = d.shouldClick
		d.shouldClick = true
		cancel(&d.repeat)
	} else {
		cancel(&d.longPress)
		playSound = d.pressed
	}

	wasPressed := d.pressed
	d.pressed = false

	if playSound {
		d.svc.Feedback.PlayClickSound()
	}

	// Nothing competes with a plain tap, so it resolves without the delay
	if d.cfg.Actions.Double == "" && d.cfg.Actions.Long == "" {
		cancel(&d.singleTap)
		if wasPressed || !d.cfg.CancelOnSlopExit {
			d.singlePress()
		}
	}
}

func (d *Dispatcher) commitSingleTap() {
	d.singleTap = nil
	if !d.pressed {
		d.singlePress()
	}
}

func (d *Dispatcher) checkLongPress() {
	d.longPress = nil
	if !d.pressed {
		return
	}
	cancel(&d.singleTap)
	d.fire(KindLong)
	d.svc.Feedback.Vibrate(HapticLongPress)
	d.svc.Announcer.Announce(EventLongClicked)
}

func (d *Dispatcher) repeatTick() {
	d.repeat = nil
	if d.cfg.Actions.Single != "" {
		d.fire(KindRepeat)
		// The first firing carries the click for the whole burst
		if d.shouldClick {
			d.shouldClick = false
			d.svc.Feedback.PlayClickSound()
		}
	}
	d.repeat = d.sched.Schedule(d.cfg.RepeatInterval, d.repeatTick)
}

func (d *Dispatcher) singlePress() {
	d.svc.Announcer.Announce(EventClicked)
	d.fire(KindSingle)
}

func (d *Dispatcher) doubleTap() {
	cancel(&d.singleTap)
	d.fire(KindDouble)
}

func (d *Dispatcher) fire(kind Kind) {
	action := d.cfg.Actions.For(kind)
	d.svc.Launcher.Launch(action)
	if d.onGesture != nil {
		d.onGesture(Gesture{Button: d.cfg.Button, Kind: kind, Action: action})
	}
}

func (d *Dispatcher) cancelAll() {
	cancel(&d.singleTap)
	cancel(&d.longPress)
	cancel(&d.repeat)
}

func cancel(h *Handle) {
	if *h != nil {
		(*h).Cancel()
		*h = nil
	}
}
