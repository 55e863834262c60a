package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pleimann/navpad/internal/navbar"
	"github.com/pleimann/navpad/internal/replay"
)

// RenderBar renders a bar snapshot as a table of slots
func RenderBar(s navbar.Snapshot) string {
	orientation := "portrait"
	if s.Landscape {
		orientation = "landscape"
	}

	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{s.Hints.IMEShown, "ime_shown"},
		{s.Hints.BackAlt, "back_alt"},
		{s.Disabled.Home, "disable_home"},
		{s.Disabled.Recent, "disable_recent"},
		{s.Disabled.Back, "disable_back"},
		{s.ShowMenu, "show_menu"},
		{s.LockTask, "lock_task"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	state := "none"
	if len(flags) > 0 {
		state = strings.Join(flags, ", ")
	}

	rows := make([][]string, 0, len(s.Buttons))
	for _, b := range s.Buttons {
		press := b.Actions.Single
		if b.Repeat {
			press += " (repeat)"
		}
		rows = append(rows, []string{
			fmt.Sprint(b.Slot),
			b.Name,
			b.Role.String(),
			press,
			b.Actions.Double,
			b.Actions.Long,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SlotBorderStyle).
		Headers("SLOT", "BUTTON", "ROLE", "PRESS", "DOUBLE", "LONG").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return SlotHeaderStyle
			}
			if row < 0 || row >= len(s.Buttons) {
				return SlotStyle
			}
			return slotStyle(s.Buttons[row].Visible, col)
		})

	var sb strings.Builder
	sb.WriteString(Title("Navigation bar") + "\n")
	sb.WriteString(fmt.Sprintf("%s %s\n", Muted("Orientation:"), orientation))
	sb.WriteString(fmt.Sprintf("%s %s\n", Muted("State:"), state))
	sb.WriteString(t.Render() + "\n")
	return sb.String()
}

func slotStyle(visible bool, col int) lipgloss.Style {
	switch {
	case !visible:
		return HiddenSlotStyle
	case col == 2:
		return SlotRoleStyle
	default:
		return SlotStyle
	}
}

// PrintBar displays a bar snapshot
func PrintBar(s navbar.Snapshot) {
	fmt.Println()
	fmt.Print(RenderBar(s))
	fmt.Println()
}

// RenderReplay renders replay records one per line
func RenderReplay(records []replay.Record) string {
	if len(records) == 0 {
		return Warning("Trace produced no effects") + "\n"
	}

	var sb strings.Builder
	for _, r := range records {
		kind := r.Kind
		if st, ok := RecordStyles[r.Kind]; ok {
			kind = st.Render(fmt.Sprintf("%-8s", r.Kind))
		}
		line := fmt.Sprintf("%s %s", Muted(fmt.Sprintf("%6dms", r.AtMs)), kind)
		if r.Button != "" {
			line += " " + Bold(r.Button)
		}
		if r.Detail != "" {
			line += " " + r.Detail
		}
		if r.Effect != "" {
			line += " " + Muted("->") + " " + Code(r.Effect)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// PrintReplay displays the effects of a replayed trace
func PrintReplay(records []replay.Record) {
	fmt.Println()
	fmt.Println(Title("Replay"))
	fmt.Print(RenderReplay(records))
	fmt.Println()
}
