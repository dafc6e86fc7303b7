package keytable

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

const blanks = " \t"

// Parse reads the line format:
//   <keycode> <ratelimit_seconds> <on_press_flag> <command...>
// Malformed lines are dropped silently, only read errors are returned.
func Parse(r io.Reader) (*Table, error) {
	t := NewTable()
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if rule, ok := ParseLine(strings.TrimSuffix(line, "\n")); ok {
				t.Set(rule)
			}
		}
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, errors.Annotate(err, "keytable read")
		}
	}
}

// ParseLine returns ok=false for blank, comment and command-less lines.
// Keycode and ratelimit keep the low 32 bits of the parsed number.
func ParseLine(line string) (Rule, bool) {
	s := strings.Trim(line, blanks)
	if s == "" || s[0] == '#' {
		return Rule{}, false
	}

	var word string
	word, s = firstWord(s)
	code := uint32(parseUint(word))
	word, s = firstWord(s)
	rate := uint32(parseUint(word))
	word, s = firstWord(s)
	onPress := parseUint(word) != 0

	command := strings.TrimLeft(s, blanks)
	if command == "" {
		return Rule{}, false
	}
	return Rule{
		Code:      code,
		RateLimit: secondsDuration(uint64(rate)),
		OnPress:   onPress,
		Command:   command,
	}, true
}

func firstWord(s string) (word, rest string) {
	s = strings.TrimLeft(s, blanks)
	if i := strings.IndexAny(s, blanks); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// parseUint follows strtoul(s, NULL, 10): optional sign, leading digits,
// garbage parses as 0, overflow saturates, minus wraps.
func parseUint(s string) uint64 {
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0
	}
	n, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		return math.MaxUint64
	}
	if negative {
		return -n
	}
	return n
}

// looksLikeLines reports whether first significant line starts with a number.
func looksLikeLines(b []byte) bool {
	for len(b) != 0 {
		var line []byte
		if i := bytes.IndexByte(b, '\n'); i >= 0 {
			line, b = b[:i], b[i+1:]
		} else {
			line, b = b, nil
		}
		line = bytes.Trim(line, blanks)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if line[0] == '+' || line[0] == '-' {
			line = line[1:]
		}
		return len(line) != 0 && line[0] >= '0' && line[0] <= '9'
	}
	return false
}
