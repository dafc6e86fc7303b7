package dispatch

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/keyevt/hardware/input"
)

const DefaultInterval = 10 * time.Millisecond

// Run drains src into e until a is stopped or device read fails.
// Returns nil after Stop, otherwise annotated *input.ReadError.
func Run(a *alive.Alive, src input.Source, e *Engine, interval time.Duration) error {
	if !a.Add(1) {
		return nil
	}
	defer a.Done()
	if interval <= 0 {
		interval = DefaultInterval
	}

	for a.IsRunning() {
		ev, ok, err := src.Poll()
		if err != nil {
			return errors.Annotatef(err, "dispatch source=%s", src.Name())
		}
		if ok {
			e.Handle(ev, time.Now())
			continue
		}
		if !a.IsRunning() {
			break
		}
		if _, err = src.Wait(interval); err != nil {
			return errors.Annotatef(err, "dispatch source=%s", src.Name())
		}
	}
	return nil
}
