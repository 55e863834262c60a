package hid

import (
	"strings"
	"testing"

	"github.com/pleimann/navpad/internal/utils"
)

func TestNotFoundErrorNamesRunningBinary(t *testing.T) {
	msg := notFoundError(0x1234, 0x5678).Error()

	name := utils.ExecutableName()
	for _, want := range []string{
		"VendorID=0x1234, ProductID=0x5678",
		"Run '" + name + " list-devices'",
		"Run '" + name + " set-device'",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error missing %q in:\n%s", want, msg)
		}
	}
}
