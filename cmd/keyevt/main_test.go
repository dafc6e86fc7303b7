//go:build linux

package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/alive/v2"
	"github.com/temoto/keyevt/hardware/input"
	"github.com/temoto/keyevt/internal/command"
	"github.com/temoto/keyevt/log2"
)

func TestRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		return path
	}
	config := write("keyevt.conf", "65 0 0 echo up\n64 2 1 echo hi\n")
	empty := write("empty.conf", "# only comments\n64 2 1\n")

	type Case struct {
		name       string
		args       []string
		open       func(a *alive.Alive) openFunc
		expectCode int
		expectOut  []string
		expectCmds []string
	}
	mockOpen := func(events ...input.RawEvent) func(a *alive.Alive) openFunc {
		return func(a *alive.Alive) openFunc {
			return func(string) (input.Source, error) {
				src := input.NewMockSource("Mock Keyboard", events...)
				src.OnEmpty = a.Stop
				return src, nil
			}
		}
	}
	cases := []Case{
		{name: "no-args", args: nil, open: mockOpen(), expectCode: exitUsage},
		{name: "one-arg", args: []string{"/dev/null"}, open: mockOpen(), expectCode: exitUsage},
		{name: "three-args", args: []string{"a", "b", "c"}, open: mockOpen(), expectCode: exitUsage},
		{name: "empty-config", args: []string{"dev", empty}, open: mockOpen(), expectCode: exitEmpty},
		{name: "missing-config", args: []string{"dev", filepath.Join(dir, "missing")}, open: mockOpen(), expectCode: exitConfig},
		{name: "device-open", args: []string{filepath.Join(dir, "no-such-device"), config},
			open:       func(*alive.Alive) openFunc { return openDevice },
			expectCode: exitDevice},
		{name: "device-read", args: []string{"dev", config},
			open: func(*alive.Alive) openFunc {
				return func(string) (input.Source, error) {
					src := input.NewMockSource("broken", input.KeyEvent(64, input.ValuePress))
					src.Fail(io.ErrUnexpectedEOF)
					return src, nil
				}
			},
			expectCode: exitRead, expectCmds: []string{"echo hi"}},
		{name: "ok", args: []string{"dev", config},
			open: mockOpen(
				input.KeyEvent(64, input.ValuePress),
				input.KeyEvent(65, input.ValuePress),
				input.KeyEvent(64, input.ValueRelease),
				input.KeyEvent(65, input.ValueRelease),
			),
			expectCode: exitOK,
			expectOut: []string{
				"keyevt " + BuildVersion,
				"",
				"Input device 'dev' (Mock Keyboard)",
				"keycode 64 ratelimit 2 on_press 1 exec 'echo hi'",
				"keycode 65 ratelimit 0 on_press 0 exec 'echo up'",
			},
			expectCmds: []string{"echo hi", "echo up"}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			stdout, stderr := bytes.NewBuffer(nil), bytes.NewBuffer(nil)
			a := alive.NewAlive()
			cmds := []string{}
			sink := command.SinkFunc(func(s string) { cmds = append(cmds, s) })
			code := run(c.args, stdout, stderr, log2.NewTest(t, log2.LDebug), a, sink, c.open(a))
			assert.Equal(t, c.expectCode, code, "stdout=%s stderr=%s", stdout.String(), stderr.String())
			if c.expectCode == exitUsage {
				assert.Equal(t, "Usage: keyevt inputdevice config\n\n", stderr.String())
			}
			if c.expectOut != nil {
				lines := strings.Split(stdout.String(), "\n")
				require.True(t, len(lines) >= len(c.expectOut), "stdout=%s", stdout.String())
				assert.Equal(t, c.expectOut, lines[:len(c.expectOut)])
				assert.Contains(t, stdout.String(), "key code 65 released, executing 'echo up'")
			}
			if c.expectCmds == nil {
				c.expectCmds = []string{}
			}
			assert.Equal(t, c.expectCmds, cmds)
		})
	}
}

func TestRunWideKeycode(t *testing.T) {
	t.Parallel()

	config := filepath.Join(t.TempDir(), "keyevt.yml")
	require.NoError(t, os.WriteFile(config, []byte("70000 0 1 echo wide\n"), 0600))
	stdout, stderr := bytes.NewBuffer(nil), bytes.NewBuffer(nil)
	a := alive.NewAlive()
	cmds := []string{}
	sink := command.SinkFunc(func(s string) { cmds = append(cmds, s) })
	open := func(string) (input.Source, error) {
		src := input.NewMockSource("kbd", input.KeyEvent(70000-65536, input.ValuePress))
		src.OnEmpty = a.Stop
		return src, nil
	}

	code := run([]string{"dev", config}, stdout, stderr, log2.NewTest(t, log2.LDebug), a, sink, open)
	assert.Equal(t, exitOK, code, "stderr=%s", stderr.String())
	assert.Contains(t, stdout.String(), "keycode 70000 ratelimit 0 on_press 1 exec 'echo wide'\n")
	assert.Empty(t, cmds)
}

func TestConfigureLog(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		env    map[string]string
		expect log2.Level
		err    bool
	}{
		{"default", nil, log2.LInfo, false},
		{"debug-toggle", map[string]string{"keyevt_log_debug": "1"}, log2.LDebug, false},
		{"level-error", map[string]string{"keyevt_log_level": "error"}, log2.LError, false},
		{"level-all-with-toggle", map[string]string{"keyevt_log_level": "all", "keyevt_log_debug": "1"}, log2.LAll, false},
		{"toggle-raises-error", map[string]string{"keyevt_log_level": "error", "keyevt_log_debug": "1"}, log2.LDebug, false},
		{"invalid", map[string]string{"keyevt_log_level": "loud"}, log2.LInfo, true},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			log := log2.NewWriter(bytes.NewBuffer(nil), log2.LError)
			err := configureLog(log, func(k string) string { return c.env[k] })
			if c.err {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, log.Enabled(c.expect))
			if c.expect != log2.LAll {
				assert.False(t, log.Enabled(c.expect+1))
			}
		})
	}
}
