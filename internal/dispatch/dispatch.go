// Package dispatch turns key edges into commands.
// Per watched key: debounce on level, match target edge, rate limit, execute.
// Engine is not safe for concurrent use, it belongs to the polling goroutine.
package dispatch

import (
	"fmt"
	"io"
	"time"

	"github.com/temoto/keyevt/hardware/input"
	"github.com/temoto/keyevt/internal/command"
	"github.com/temoto/keyevt/internal/keytable"
	"github.com/temoto/keyevt/log2"
)

// KeyState starts released with zero LastDispatch.
type KeyState struct {
	Pressed      bool
	LastDispatch time.Time
}

type Entry struct {
	Rule  keytable.Rule
	State KeyState
}

type Engine struct {
	entries map[uint32]*Entry
	sink    command.Sink
	log     *log2.Log
	out     io.Writer
}

func New(table *keytable.Table, sink command.Sink, log *log2.Log, out io.Writer) *Engine {
	rules := table.Rules()
	self := &Engine{
		entries: make(map[uint32]*Entry, len(rules)),
		sink:    sink,
		log:     log,
		out:     out,
	}
	for _, r := range rules {
		self.entries[r.Code] = &Entry{Rule: r}
	}
	return self
}

func (self *Engine) State(code uint32) (KeyState, bool) {
	e, ok := self.entries[code]
	if !ok {
		return KeyState{}, false
	}
	return e.State, true
}

// Handle returns true when command was dispatched.
func (self *Engine) Handle(ev input.RawEvent, now time.Time) bool {
	if !ev.IsKey() {
		return false
	}
	e, ok := self.entries[uint32(ev.Code)]
	if !ok {
		self.log.Debugf("key code=%d value=%d not watched", ev.Code, ev.Value)
		return false
	}

	pressed := ev.Pressed()
	if pressed == e.State.Pressed {
		return false
	}
	e.State.Pressed = pressed
	if pressed != e.Rule.OnPress {
		return false
	}

	if e.Rule.RateLimit != 0 && !e.State.LastDispatch.IsZero() {
		if elapsed := now.Sub(e.State.LastDispatch); elapsed <= e.Rule.RateLimit {
			self.log.Debugf("key code=%d suppressed elapsed=%v ratelimit=%v", ev.Code, elapsed, e.Rule.RateLimit)
			return false
		}
	}
	e.State.LastDispatch = now

	edge := "released"
	if pressed {
		edge = "pressed"
	}
	if self.out != nil {
		fmt.Fprintf(self.out, "%s key code %d %s, executing '%s'\n",
			now.Local().Format(time.ANSIC), ev.Code, edge, e.Rule.Command)
	}
	self.sink.Execute(e.Rule.Command)
	return true
}
