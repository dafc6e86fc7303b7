// Package keytable holds the static keycode -> watch rule mapping,
// built once from the config file before the input device is opened.
package keytable

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/juju/errors"
)

// ErrEmpty is the cause of Load error when config yields no watch entries.
var ErrEmpty = errors.New("keytable: no key events")

// Code wider than 16 bit is kept but never matches a device event.
type Rule struct {
	Code      uint32
	RateLimit time.Duration
	OnPress   bool
	Command   string
}

func (self Rule) String() string {
	onPress := 0
	if self.OnPress {
		onPress = 1
	}
	return fmt.Sprintf("keycode %d ratelimit %d on_press %d exec '%s'",
		self.Code, int64(self.RateLimit/time.Second), onPress, self.Command)
}

type Table struct {
	m map[uint32]Rule
}

func NewTable() *Table {
	return &Table{m: make(map[uint32]Rule, 16)}
}

// Set overwrites existing rule with same code.
func (self *Table) Set(r Rule) { self.m[r.Code] = r }

func (self *Table) Get(code uint32) (Rule, bool) {
	r, ok := self.m[code]
	return r, ok
}

func (self *Table) Len() int { return len(self.m) }

// Rules are sorted by keycode.
func (self *Table) Rules() []Rule {
	rs := make([]Rule, 0, len(self.m))
	for _, r := range self.m {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Code < rs[j].Code })
	return rs
}

// Load reads the line format. Files named .hcl, .yaml or .yml are decoded as
// that format, unless decoding fails and content looks like the line format.
func Load(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "keytable open path=%s", path)
	}

	var t *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		var c *hclConfig
		if c, err = decodeHCL(b); err == nil {
			t, err = c.table()
		} else if looksLikeLines(b) {
			t, err = Parse(bytes.NewReader(b))
		}
	case ".yaml", ".yml":
		var c *yamlConfig
		if c, err = decodeYAML(b); err == nil {
			t, err = c.table()
		} else if looksLikeLines(b) {
			t, err = Parse(bytes.NewReader(b))
		}
	default:
		t, err = Parse(bytes.NewReader(b))
	}
	if err != nil {
		return nil, errors.Annotatef(err, "keytable path=%s", path)
	}
	if t.Len() == 0 {
		return nil, errors.Trace(ErrEmpty)
	}
	return t, nil
}

func secondsDuration(secs uint64) time.Duration {
	const max = uint64(math.MaxInt64 / int64(time.Second))
	if secs > max {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs) * time.Second
}
