package ui

import (
	"fmt"

	"github.com/pleimann/navpad/internal/utils"
)

// PrintVersion displays the styled version information
func PrintVersion(version string) {
	banner := TitleStyle.Render(utils.ExecutableName())
	versionTag := VersionStyle.Render("v" + version)

	fmt.Printf("%s %s\n", banner, versionTag)
	fmt.Println(Muted("Touch navigation bar for TUI applications"))
}

// PrintFatalError displays a styled fatal error message with context
func PrintFatalError(context, message string) {
	fmt.Println()
	fmt.Println(Error(context))
	fmt.Printf("  %s\n", Muted(message))
	fmt.Println()
}
