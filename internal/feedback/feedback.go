package feedback

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pleimann/navpad/internal/config"
	"github.com/pleimann/navpad/internal/gesture"
	"github.com/pleimann/navpad/internal/hid"
)

// ReportWriter sends feedback reports to the pad
type ReportWriter interface {
	SendFeedback(report *hid.FeedbackReport) error
}

// Durations are the pulse lengths sent with each feedback kind
type Durations struct {
	VirtualKey time.Duration
	LongPress  time.Duration
	Click      time.Duration
}

// DurationsFromConfig converts the feedback section of the config
func DurationsFromConfig(cfg config.FeedbackConfig) Durations {
	return Durations{
		VirtualKey: time.Duration(cfg.VirtualKeyMs) * time.Millisecond,
		LongPress:  time.Duration(cfg.LongPressMs) * time.Millisecond,
		Click:      time.Duration(cfg.ClickMs) * time.Millisecond,
	}
}

// Pad turns haptic and click requests into HID output reports. With a nil
// writer it only logs, which is what touch-panel setups get.
type Pad struct {
	out       ReportWriter
	durations Durations
	log       logrus.FieldLogger
}

// NewPad creates a feedback sink
func NewPad(out ReportWriter, durations Durations, log logrus.FieldLogger) *Pad {
	return &Pad{
		out:       out,
		durations: durations,
		log:       log.WithField("component", "feedback"),
	}
}

// SetDurations replaces the feedback lengths. Call it from the goroutine
// that drives Vibrate and PlayClickSound.
func (p *Pad) SetDurations(d Durations) {
	p.durations = d
}

func (p *Pad) Vibrate(kind gesture.HapticKind) {
	report := &hid.FeedbackReport{Kind: hid.FeedbackVirtualKey, Duration: p.durations.VirtualKey}
	if kind == gesture.HapticLongPress {
		report = &hid.FeedbackReport{Kind: hid.FeedbackLongPress, Duration: p.durations.LongPress}
	}
	p.send(report, kind.String())
}

func (p *Pad) PlayClickSound() {
	p.send(&hid.FeedbackReport{Kind: hid.FeedbackClick, Duration: p.durations.Click}, "click")
}

func (p *Pad) send(report *hid.FeedbackReport, what string) {
	entry := p.log.WithFields(logrus.Fields{
		"feedback": what,
		"duration": report.Duration,
	})
	entry.Trace("feedback")

	if p.out == nil {
		return
	}
	if err := p.out.SendFeedback(report); err != nil {
		entry.WithError(err).Debug("failed to send feedback report")
	}
}

// Announcer reports accessibility events as structured log records
type Announcer struct {
	log logrus.FieldLogger
}

// NewAnnouncer creates an accessibility sink
func NewAnnouncer(log logrus.FieldLogger) *Announcer {
	return &Announcer{log: log.WithField("component", "accessibility")}
}

func (a *Announcer) Announce(ev gesture.AccessibilityEvent) {
	a.log.WithField("event", ev.String()).Info("announce")
}

// ForButton returns an announcer whose records carry the button name
func (a *Announcer) ForButton(name string) gesture.Announcer {
	return &Announcer{log: a.log.WithField("button", name)}
}
