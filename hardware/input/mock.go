package input

import (
	"sync"
	"time"
)

const MockTag = "mock"

// MockSource replays queued events, for tests.
type MockSource struct {
	// OnEmpty is called by Poll when the queue is drained and no error is set.
	OnEmpty func()

	mu     sync.Mutex
	events []RawEvent
	err    error
	name   string
	closed bool
}

var _ Source = new(MockSource)

func NewMockSource(name string, events ...RawEvent) *MockSource {
	return &MockSource{name: name, events: events}
}

func (self *MockSource) String() string { return MockTag }
func (self *MockSource) Name() string   { return self.name }

func (self *MockSource) Push(events ...RawEvent) {
	self.mu.Lock()
	self.events = append(self.events, events...)
	self.mu.Unlock()
}

// Fail makes Poll return ReadError after queued events are consumed.
func (self *MockSource) Fail(err error) {
	self.mu.Lock()
	self.err = err
	self.mu.Unlock()
}

func (self *MockSource) Poll() (RawEvent, bool, error) {
	self.mu.Lock()
	if len(self.events) != 0 {
		ev := self.events[0]
		self.events = self.events[1:]
		self.mu.Unlock()
		return ev, true, nil
	}
	err, onEmpty := self.err, self.OnEmpty
	self.mu.Unlock()

	if err != nil {
		return RawEvent{}, false, &ReadError{Path: self.name, Err: err}
	}
	if onEmpty != nil {
		onEmpty()
	}
	return RawEvent{}, false, nil
}

func (self *MockSource) Wait(timeout time.Duration) (bool, error) {
	if self.Len() != 0 {
		return true, nil
	}
	if timeout > time.Millisecond {
		timeout = time.Millisecond
	}
	time.Sleep(timeout)
	return self.Len() != 0, nil
}

func (self *MockSource) Len() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return len(self.events)
}

func (self *MockSource) Close() error {
	self.mu.Lock()
	self.closed = true
	self.mu.Unlock()
	return nil
}

func (self *MockSource) Closed() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.closed
}

// KeyEvent is a shortcut for EV_KEY events in tests.
func KeyEvent(code uint16, value int32) RawEvent {
	return RawEvent{Type: EvKey, Code: code, Value: value}
}
