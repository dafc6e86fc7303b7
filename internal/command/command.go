// Package command runs configured shell commands without blocking the event loop.
package command

import (
	"os"
	"os/exec"
	"time"

	"github.com/temoto/alive/v2"
	"github.com/temoto/keyevt/log2"
)

const DefaultShell = "/bin/sh"

type Sink interface {
	Execute(command string)
}

type SinkFunc func(command string)

func (self SinkFunc) Execute(command string) { self(command) }

// ShellSink starts every command on its own goroutine, unbounded and unordered.
// Exit status is only logged at debug level.
type ShellSink struct {
	Shell string
	Log   *log2.Log
	// Alive counts running commands, optional.
	Alive *alive.Alive
}

var _ Sink = new(ShellSink)

func NewShellSink(log *log2.Log, a *alive.Alive) *ShellSink {
	return &ShellSink{Shell: DefaultShell, Log: log, Alive: a}
}

func (self *ShellSink) Execute(command string) {
	if self.Alive != nil && !self.Alive.Add(1) {
		self.Log.Debugf("command refused, stopping: '%s'", command)
		return
	}
	shell := self.Shell
	if shell == "" {
		shell = DefaultShell
	}
	go self.run(shell, command)
}

func (self *ShellSink) run(shell, command string) {
	if self.Alive != nil {
		defer self.Alive.Done()
	}

	cmd := exec.Command(shell, "-c", command)
	cmd.Stdin = nil
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	started := time.Now()
	err := cmd.Run()
	self.Log.Debugf("command '%s' duration=%v err=%v", command, time.Since(started), err)
}
