//go:build linux

// keyevt runs shell commands on key press or release from an evdev device.
//
//	keyevt /dev/input/event0 /etc/keyevt.conf
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	"github.com/temoto/alive/v2"
	"github.com/temoto/keyevt/hardware/input"
	"github.com/temoto/keyevt/internal/command"
	"github.com/temoto/keyevt/internal/dispatch"
	"github.com/temoto/keyevt/internal/keytable"
	"github.com/temoto/keyevt/log2"
)

var BuildVersion string = "unknown" // set by ldflags -X

const (
	exitOK = iota
	exitUsage
	exitEmpty
	exitConfig
	exitDevice
	exitRead
)

type openFunc func(path string) (input.Source, error)

func main() {
	log := log2.NewStderr(log2.LInfo)
	log.SetFlags(logFlags())
	if err := configureLog(log, os.Getenv); err != nil {
		log.Error(err)
	}
	a := alive.NewAlive()
	sink := command.NewShellSink(log, a)
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, log, a, sink, openDevice))
}

func run(args []string, stdout, stderr io.Writer, log *log2.Log, a *alive.Alive, sink command.Sink, open openFunc) int {
	fmt.Fprintf(stdout, "keyevt %s\n\n", BuildVersion)
	if len(args) != 2 {
		fmt.Fprintf(stderr, "Usage: keyevt inputdevice config\n\n")
		return exitUsage
	}
	devicePath, configPath := args[0], args[1]

	table, err := keytable.Load(configPath)
	switch {
	case err == nil:
	case errors.Cause(err) == keytable.ErrEmpty:
		fmt.Fprintf(stderr, "No key events!\n")
		return exitEmpty
	default:
		log.Error(errors.ErrorStack(err))
		return exitConfig
	}

	src, err := open(devicePath)
	if err != nil {
		log.Error(errors.ErrorStack(err))
		return exitDevice
	}
	defer src.Close()

	fmt.Fprintf(stdout, "Input device '%s' (%s)\n", devicePath, src.Name())
	for _, r := range table.Rules() {
		fmt.Fprintln(stdout, r.String())
	}

	engine := dispatch.New(table, sink, log, stdout)
	sdnotify(log, daemon.SdNotifyReady)
	if err = dispatch.Run(a, src, engine, dispatch.DefaultInterval); err != nil {
		log.Error(errors.ErrorStack(err))
		return exitRead
	}
	return exitOK
}

func openDevice(path string) (input.Source, error) {
	src, err := input.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return src, nil
}

// keyevt_log_level=error|info|debug|all, keyevt_log_debug=1 is a shortcut for debug.
// Invalid level leaves info.
func configureLog(log *log2.Log, getenv func(string) string) error {
	level, err := log2.ParseLevel(getenv("keyevt_log_level"))
	if getenv("keyevt_log_debug") == "1" && level < log2.LDebug {
		level = log2.LDebug
	}
	log.SetLevel(level)
	return errors.Annotate(err, "keyevt_log_level")
}

func logFlags() int {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return log2.LInteractiveFlags
	}
	// systemd journal adds timestamp
	return log2.LServiceFlags
}

func sdnotify(log *log2.Log, s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Errorf("sdnotify: %v", errors.ErrorStack(err))
	}
	return ok
}
