package navbar

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/pleimann/navpad/internal/action"
	"github.com/pleimann/navpad/internal/config"
	"github.com/pleimann/navpad/internal/gesture"
)

// Role is the kind of slot a button occupies in the bar
type Role int

const (
	RoleKey Role = iota
	RoleMenuLeft
	RoleMenuRight
	RoleIMESwitcher
)

func (r Role) String() string {
	switch r {
	case RoleKey:
		return "key"
	case RoleMenuLeft:
		return "menu_left"
	case RoleMenuRight:
		return "menu_right"
	case RoleIMESwitcher:
		return "ime_switcher"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// Hints are the navigation hints pushed by whoever owns the input method
type Hints struct {
	IMEShown bool
	BackAlt  bool
}

// DisabledFlags hide keys while the session restricts navigation
type DisabledFlags struct {
	Home   bool
	Recent bool
	Back   bool
}

// Button is one slot of the bar with its own gesture dispatcher
type Button struct {
	Name       string
	Role       Role
	Actions    gesture.Actions
	Repeat     bool
	dispatcher *gesture.Dispatcher
}

// State returns the button's gesture state
func (b *Button) State() gesture.State {
	return b.dispatcher.State()
}

// buttonScoper is implemented by announcers that can tag records with the
// button they come from
type buttonScoper interface {
	ForButton(name string) gesture.Announcer
}

// Bar is the navigation bar: the ordered button slots, which of them are
// visible, and the routing of pointer events to their dispatchers. It is
// owned by the event loop and not safe for concurrent use.
type Bar struct {
	sched     gesture.Scheduler
	svc       gesture.Services
	onGesture func(gesture.Gesture)
	log       logrus.FieldLogger

	cfg    config.BarConfig
	slots  []*Button
	byName map[string]*Button

	landscape bool
	movable   bool
	hints     Hints
	disabled  DisabledFlags
	showMenu  bool
	lockTask  bool
}

// New builds a bar from configuration
func New(cfg *config.Config, sched gesture.Scheduler, svc gesture.Services, onGesture func(gesture.Gesture), log logrus.FieldLogger) *Bar {
	b := &Bar{
		sched:     sched,
		svc:       svc,
		onGesture: onGesture,
		log:       log.WithField("component", "navbar"),
	}
	b.build(cfg)
	return b
}

func (b *Bar) build(cfg *config.Config) {
	bar := cfg.Bar
	b.cfg = bar
	b.landscape = bar.Landscape()
	b.movable = bar.Movable()
	b.hints = Hints{IMEShown: bar.State.IMEShown, BackAlt: bar.State.BackAlt}
	b.disabled = DisabledFlags{
		Home:   bar.State.DisableHome,
		Recent: bar.State.DisableRecent,
		Back:   bar.State.DisableBack,
	}
	b.showMenu = bar.State.ShowMenu
	b.lockTask = bar.State.LockTask

	var slots []*Button
	add := func(name string, role Role, actions gesture.Actions) {
		if bar.IgnoreNullActions {
			if action.IsNoop(actions.Double) {
				actions.Double = ""
			}
			if action.IsNoop(actions.Long) {
				actions.Long = ""
			}
		}
		btn := &Button{
			Name:    name,
			Role:    role,
			Actions: actions,
			Repeat:  action.IsRepeatable(actions.Single),
		}
		btn.dispatcher = gesture.NewDispatcher(b.dispatcherConfig(cfg, btn), b.sched, b.servicesFor(name), b.onGesture)
		slots = append(slots, btn)
	}

	legacy := bar.Menu.Legacy()
	if legacy {
		add(config.SlotMenuLeft, RoleMenuLeft, gesture.Actions{
			Single: LegacyClickAction(bar.Menu.LeftAction, bar.Menu.LeftShortcut),
			Long:   LegacyLongAction(bar.Menu.LeftLong(), bar.Menu.LeftLongShortcut),
		})
	}
	for _, key := range bar.Buttons {
		add(key.Name, RoleKey, gesture.Actions{
			Single: key.Press,
			Double: key.DoublePress,
			Long:   key.LongPress,
		})
	}
	if legacy {
		add(config.SlotMenuRight, RoleMenuRight, gesture.Actions{
			Single: LegacyClickAction(bar.Menu.RightAction, bar.Menu.RightShortcut),
			Long:   LegacyLongAction(bar.Menu.RightLong(), bar.Menu.RightLongShortcut),
		})
		add(config.SlotIMESwitcher, RoleIMESwitcher, gesture.Actions{Single: action.ActionIME})
	}

	b.slots = slots
	b.byName = lo.KeyBy(slots, func(btn *Button) string { return btn.Name })
}

func (b *Bar) dispatcherConfig(cfg *config.Config, btn *Button) gesture.Config {
	width, height := cfg.Bar.ButtonWidth, cfg.Bar.ButtonHeight
	if r, ok := cfg.Touch.Rects[btn.Name]; ok {
		width, height = r.Width, r.Height
	}

	return gesture.Config{
		Button:           btn.Name,
		Actions:          btn.Actions,
		Repeat:           btn.Repeat,
		Width:            width,
		Height:           height,
		TouchSlop:        cfg.Timing.TouchSlop,
		DoubleTapTimeout: cfg.Timing.DoubleTapWindow(),
		LongPressTimeout: cfg.Timing.LongPressTimeout(),
		RepeatTimeout:    cfg.Timing.RepeatTimeout(),
		RepeatInterval:   cfg.Timing.RepeatInterval(),
		PowerBoost:       cfg.Timing.PowerBoost(),
		CancelOnSlopExit: cfg.Bar.CancelOnSlopExit,
	}
}

func (b *Bar) servicesFor(name string) gesture.Services {
	svc := b.svc
	if s, ok := svc.Announcer.(buttonScoper); ok {
		svc.Announcer = s.ForButton(name)
	}
	return svc
}

// Buttons returns the slots in on-screen order. Landscape reverses the
// order when the bar is allowed to move.
func (b *Bar) Buttons() []*Button {
	if b.landscape && b.movable {
		return lo.Reverse(append([]*Button(nil), b.slots...))
	}
	return append([]*Button(nil), b.slots...)
}

// Button looks a slot up by name
func (b *Bar) Button(name string) (*Button, bool) {
	btn, ok := b.byName[name]
	return btn, ok
}

// Visible reports whether a button currently accepts new gestures
func (b *Bar) Visible(btn *Button) bool {
	menu := b.cfg.Menu
	switch btn.Role {
	case RoleMenuLeft, RoleMenuRight:
		if !menu.Legacy() {
			return false
		}
		if menu.OverrideKeys {
			return true
		}
		if menu.Visibility == "never" {
			return false
		}
		shown := menu.Visibility == "always" || b.showMenu
		if btn.Role == RoleMenuLeft {
			return shown && (menu.Setting == "left" || menu.Setting == "both")
		}
		// The right menu gives way to the IME switcher
		return shown && (menu.Setting == "right" || menu.Setting == "both") && !b.hints.IMEShown
	case RoleIMESwitcher:
		return menu.Legacy() && b.hints.IMEShown
	}

	switch btn.Actions.Single {
	case action.ActionBack:
		return !(b.disabled.Back && !b.hints.BackAlt)
	case action.ActionRecents:
		disableRecent := b.disabled.Recent
		// Recents stays usable in lock task mode as the way out, unless
		// home is gone too
		if b.lockTask && disableRecent && !b.disabled.Home {
			disableRecent = false
		}
		return !disableRecent
	default:
		return !b.disabled.Home
	}
}

// Handle routes a pointer event to the button in slot, counted in the
// current on-screen order
func (b *Bar) Handle(slot int, ev gesture.PointerEvent) error {
	buttons := b.Buttons()
	if slot < 0 || slot >= len(buttons) {
		return fmt.Errorf("slot %d out of range (bar has %d slots)", slot, len(buttons))
	}
	b.dispatch(buttons[slot], ev)
	return nil
}

// HandleNamed routes a pointer event to the named button
func (b *Bar) HandleNamed(name string, ev gesture.PointerEvent) error {
	btn, ok := b.byName[name]
	if !ok {
		return fmt.Errorf("no button named %q", name)
	}
	b.dispatch(btn, ev)
	return nil
}

func (b *Bar) dispatch(btn *Button, ev gesture.PointerEvent) {
	// Hidden buttons take no new gestures, but one already in flight still
	// gets its UP or CANCEL
	if ev.Phase == gesture.PhaseDown && !b.Visible(btn) {
		b.log.WithField("button", btn.Name).Debug("ignoring touch on hidden button")
		return
	}
	b.log.WithFields(logrus.Fields{
		"button": btn.Name,
		"event":  ev.String(),
	}).Trace("pointer event")
	btn.dispatcher.Handle(ev)
}

// SetOrientation switches between portrait and landscape
func (b *Bar) SetOrientation(landscape bool) {
	if b.landscape == landscape {
		return
	}
	b.Reset()
	b.landscape = landscape
}

func (b *Bar) SetNavigationHints(h Hints) {
	b.hints = h
}

func (b *Bar) SetDisabledFlags(f DisabledFlags) {
	b.disabled = f
}

func (b *Bar) SetMenuVisibility(show bool) {
	b.showMenu = show
}

func (b *Bar) SetLockTask(on bool) {
	b.lockTask = on
}

// ApplyState sets hints, disabled flags, menu visibility and lock task
// mode in one go
func (b *Bar) ApplyState(s config.StateConfig) {
	b.SetNavigationHints(Hints{IMEShown: s.IMEShown, BackAlt: s.BackAlt})
	b.SetDisabledFlags(DisabledFlags{Home: s.DisableHome, Recent: s.DisableRecent, Back: s.DisableBack})
	b.SetMenuVisibility(s.ShowMenu)
	b.SetLockTask(s.LockTask)
}

// Reload drops every in-flight gesture and rebuilds the bar from cfg
func (b *Bar) Reload(cfg *config.Config) {
	b.Reset()
	b.build(cfg)
	b.log.WithField("slots", len(b.slots)).Info("navigation bar rebuilt")
}

// Reset cancels pending callbacks on every button without firing anything
func (b *Bar) Reset() {
	for _, btn := range b.slots {
		btn.dispatcher.Reset()
	}
}

// ButtonSnapshot describes one slot for dumps
type ButtonSnapshot struct {
	Slot    int
	Name    string
	Role    Role
	Visible bool
	Repeat  bool
	Actions gesture.Actions
	State   gesture.State
}

// Snapshot describes the whole bar for dumps
type Snapshot struct {
	Landscape bool
	Hints     Hints
	Disabled  DisabledFlags
	ShowMenu  bool
	LockTask  bool
	Buttons   []ButtonSnapshot
}

// Snapshot captures the bar's current state
func (b *Bar) Snapshot() Snapshot {
	s := Snapshot{
		Landscape: b.landscape,
		Hints:     b.hints,
		Disabled:  b.disabled,
		ShowMenu:  b.showMenu,
		LockTask:  b.lockTask,
	}
	for i, btn := range b.Buttons() {
		s.Buttons = append(s.Buttons, ButtonSnapshot{
			Slot:    i,
			Name:    btn.Name,
			Role:    btn.Role,
			Visible: b.Visible(btn),
			Repeat:  btn.Repeat,
			Actions: btn.Actions,
			State:   btn.State(),
		})
	}
	return s
}

// LogSnapshot writes the bar state to the log, one record per slot
func (b *Bar) LogSnapshot() {
	s := b.Snapshot()
	b.log.WithFields(logrus.Fields{
		"landscape": s.Landscape,
		"ime_shown": s.Hints.IMEShown,
		"show_menu": s.ShowMenu,
		"lock_task": s.LockTask,
	}).Info("navigation bar state")
	for _, btn := range s.Buttons {
		b.log.WithFields(logrus.Fields{
			"slot":    btn.Slot,
			"button":  btn.Name,
			"visible": btn.Visible,
			"single":  btn.Actions.Single,
			"double":  btn.Actions.Double,
			"long":    btn.Actions.Long,
			"active":  btn.State.Active,
			"pressed": btn.State.Pressed,
		}).Info("slot")
	}
}
