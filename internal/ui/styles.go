package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/navpad/internal/replay"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#6366F1") // Indigo
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorSubtle    = lipgloss.Color("#9CA3AF") // Light gray
	ColorText      = lipgloss.Color("#F9FAFB")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	VersionStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	CodeStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Background(lipgloss.Color("#1F2937")).
			Padding(0, 1)
)

// Bar table styles. Hidden slots stay in the table, struck through.
var (
	SlotHeaderStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	SlotStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 1)

	SlotRoleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Padding(0, 1)

	HiddenSlotStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Strikethrough(true).
			Padding(0, 1)

	SlotBorderStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Replay record styles, keyed by record kind
var RecordStyles = map[string]lipgloss.Style{
	replay.KindGesture:  lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
	replay.KindVibrate:  lipgloss.NewStyle().Foreground(ColorWarning),
	replay.KindClick:    lipgloss.NewStyle().Foreground(ColorSubtle),
	replay.KindAnnounce: lipgloss.NewStyle().Foreground(ColorSecondary),
}

// Device listing styles
var (
	DeviceIDStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	DeviceNameStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	DeviceManufacturerStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)
)

// Title renders a styled title
func Title(text string) string {
	return TitleStyle.Render(text)
}

// Success renders success text with a checkmark
func Success(text string) string {
	return SuccessStyle.Render("✓ " + text)
}

func Warning(text string) string {
	return WarningStyle.Render("⚠ " + text)
}

func Error(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

// Muted renders dimmed text
func Muted(text string) string {
	return MutedStyle.Render(text)
}

func Code(text string) string {
	return CodeStyle.Render(text)
}

func Bold(text string) string {
	return BoldStyle.Render(text)
}
