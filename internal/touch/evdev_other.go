//go:build !linux

package touch

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Source is unavailable outside Linux
type Source struct {
	path string
}

func NewSource(path string, log logrus.FieldLogger) *Source {
	return &Source{path: path}
}

func (s *Source) Run(ctx context.Context, tracker *Tracker) error {
	return errors.New("touch input requires Linux evdev")
}
