// Raw key events from a single input device.
package input

import (
	"fmt"
	"time"

	"github.com/temoto/inputevent-go"
)

// EvKey is EV_KEY from linux/input-event-codes.h, other event types are ignored.
// inputevent-go v1.0.0 exports value states but no event types.
const EvKey uint16 = 0x01

// Value of EV_KEY events.
const (
	ValueRelease = int32(inputevent.KeyStateUp)
	ValuePress   = int32(inputevent.KeyStateDown)
	ValueRepeat  = int32(inputevent.KeyStateHold)
)

type RawEvent struct {
	Time  time.Time
	Type  uint16
	Code  uint16
	Value int32
}

func (self RawEvent) IsKey() bool { return self.Type == EvKey }

// Pressed folds autorepeat into pressed: any nonzero value counts.
func (self RawEvent) Pressed() bool { return self.Value != ValueRelease }

func (self RawEvent) String() string {
	return fmt.Sprintf("RawEvent(type=%d code=%d value=%d)", self.Type, self.Code, self.Value)
}

// Source is read only from the polling goroutine.
type Source interface {
	// Poll returns immediately, ok=false means no event is queued.
	Poll() (ev RawEvent, ok bool, err error)
	// Wait blocks at most timeout until Poll may have something to return.
	Wait(timeout time.Duration) (bool, error)
	Name() string
	Close() error
}

type OpenError struct {
	Path string
	Op   string
	Err  error
}

func (self *OpenError) Error() string {
	return fmt.Sprintf("input %s device=%s: %v", self.Op, self.Path, self.Err)
}
func (self *OpenError) Unwrap() error { return self.Err }

type ReadError struct {
	Path string
	Err  error
}

func (self *ReadError) Error() string {
	return fmt.Sprintf("input read device=%s: %v", self.Path, self.Err)
}
func (self *ReadError) Unwrap() error { return self.Err }
