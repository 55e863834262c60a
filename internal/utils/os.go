package utils

import (
	"os"
	"path/filepath"
)

// DefaultExecutableName is used when the running binary cannot be located
const DefaultExecutableName = "navpad"

// ExecutableName returns the base name of the running binary, so help text
// matches however the user invoked it
func ExecutableName() string {
	executable, err := os.Executable()
	if err != nil || executable == "" {
		return DefaultExecutableName
	}
	return filepath.Base(executable)
}
