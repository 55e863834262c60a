package action

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

// System action identifiers. Anything that does not start with the
// system prefix is a shell command line.
const (
	SystemPrefix = "**"

	ActionNull          = "**null**"
	ActionBlank         = "**blank**"
	ActionBack          = "**back**"
	ActionHome          = "**home**"
	ActionRecents       = "**recents**"
	ActionMenu          = "**menu**"
	ActionIME           = "**ime**"
	ActionVoiceSearch   = "**voice_search**"
	ActionSearch        = "**search**"
	ActionPower         = "**power**"
	ActionNotifications = "**notifications**"
	ActionSettingsPanel = "**settings_panel**"
	ActionScreenshot    = "**screenshot**"
	ActionScreenrecord  = "**screenrecord**"
	ActionLastApp       = "**lastapp**"
	ActionKill          = "**kill**"
	ActionAssist        = "**assist**"
	ActionVib           = "**ring_vib**"
	ActionVibSilent     = "**ring_vib_silent**"
	ActionSilent        = "**ring_silent**"
	ActionPowerMenu     = "**power_menu**"
	ActionTorch         = "**torch**"

	ActionMediaPrevious  = "**media_previous**"
	ActionMediaNext      = "**media_next**"
	ActionMediaPlayPause = "**media_play_pause**"

	ActionArrowLeft  = "**arrow_left**"
	ActionArrowRight = "**arrow_right**"
	ActionArrowUp    = "**arrow_up**"
	ActionArrowDown  = "**arrow_down**"
)

// ErrUnknownAction is returned for system-prefixed identifiers that name no
// known action
var ErrUnknownAction = errors.New("unknown action")

var knownActions = []string{
	ActionNull, ActionBlank, ActionBack, ActionHome, ActionRecents, ActionMenu,
	ActionIME, ActionVoiceSearch, ActionSearch, ActionPower, ActionNotifications,
	ActionSettingsPanel, ActionScreenshot, ActionScreenrecord, ActionLastApp,
	ActionKill, ActionAssist, ActionVib, ActionVibSilent, ActionSilent,
	ActionPowerMenu, ActionTorch, ActionMediaPrevious, ActionMediaNext,
	ActionMediaPlayPause, ActionArrowLeft, ActionArrowRight, ActionArrowUp,
	ActionArrowDown,
}

var arrowActions = []string{ActionArrowLeft, ActionArrowRight, ActionArrowUp, ActionArrowDown}

// IsSystem reports whether the identifier uses the system action prefix
func IsSystem(action string) bool {
	return strings.HasPrefix(action, SystemPrefix)
}

// IsKnown reports whether the identifier is a known system action
func IsKnown(action string) bool {
	return lo.Contains(knownActions, action)
}

// IsRepeatable reports whether holding a button bound to action repeats it
func IsRepeatable(action string) bool {
	return lo.Contains(arrowActions, action)
}

// IsNoop reports whether launching action does nothing
func IsNoop(action string) bool {
	return action == "" || action == ActionNull || action == ActionBlank
}

// Known returns every known system action identifier
func Known() []string {
	return append([]string(nil), knownActions...)
}
