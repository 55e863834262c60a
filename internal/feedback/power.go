package feedback

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PowerHint asks the kernel for a CPU boost by writing the boost length in
// microseconds to a sysfs node. Requests that land while a previous boost
// still has more than half its length to run are skipped.
type PowerHint struct {
	log logrus.FieldLogger
	now func() time.Time

	mu       sync.Mutex
	path     string
	until    time.Time
	disabled bool
}

// NewPowerHint creates a power hint writer. An empty path makes every
// Boost a no-op.
func NewPowerHint(path string, log logrus.FieldLogger) *PowerHint {
	return &PowerHint{
		path: path,
		log:  log.WithField("component", "power"),
		now:  time.Now,
	}
}

// SetPath points the hint at a new sysfs node and re-enables it
func (p *PowerHint) SetPath(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if path == p.path {
		return
	}
	p.path = path
	p.disabled = false
	p.until = time.Time{}
}

func (p *PowerHint) Boost(d time.Duration) {
	if d <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.path == "" || p.disabled {
		return
	}
	now := p.now()
	if p.until.Sub(now) > d/2 {
		return
	}

	value := strconv.FormatInt(d.Microseconds(), 10)
	if err := os.WriteFile(p.path, []byte(value), 0644); err != nil {
		p.disabled = true
		p.log.WithError(err).WithField("path", p.path).Warn("power hint unavailable, disabling")
		return
	}
	p.until = now.Add(d)
}
