package navbar

import "github.com/pleimann/navpad/internal/action"

// Legacy menu codes 0..19 name the same action for click and long press
var legacyActions = [...]string{
	action.ActionMenu,
	action.ActionHome,
	action.ActionBack,
	action.ActionRecents,
	action.ActionVoiceSearch,
	action.ActionSearch,
	action.ActionPower,
	action.ActionNotifications,
	action.ActionSettingsPanel,
	action.ActionScreenshot,
	action.ActionScreenrecord,
	action.ActionIME,
	action.ActionLastApp,
	action.ActionKill,
	action.ActionAssist,
	action.ActionVib,
	action.ActionVibSilent,
	action.ActionSilent,
	action.ActionPowerMenu,
	action.ActionTorch,
}

// LegacyClickAction maps a legacy menu click code to an action identifier.
// Code 20 selects the custom shortcut; out of range codes fall back to the
// menu action.
func LegacyClickAction(code int, shortcut string) string {
	switch {
	case code >= 0 && code < len(legacyActions):
		return legacyActions[code]
	case code == 20:
		return shortcut
	default:
		return action.ActionMenu
	}
}

// LegacyLongAction maps a legacy menu long-press code to an action
// identifier. Codes 20..22 are media keys, 23 the custom shortcut and 24
// (the default) does nothing.
func LegacyLongAction(code int, shortcut string) string {
	switch {
	case code >= 0 && code < len(legacyActions):
		return legacyActions[code]
	case code == 20:
		return action.ActionMediaPrevious
	case code == 21:
		return action.ActionMediaNext
	case code == 22:
		return action.ActionMediaPlayPause
	case code == 23:
		return shortcut
	default:
		return action.ActionNull
	}
}
