package input

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/inputevent-go"
)

func TestMockSource(t *testing.T) {
	t.Parallel()

	src := NewMockSource("mock kbd", KeyEvent(64, ValuePress))
	src.Push(KeyEvent(64, ValueRelease))
	empties := 0
	src.OnEmpty = func() { empties++ }

	ev, ok, err := src.Poll()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, ev.Pressed())
	ev, ok, err = src.Poll()
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, ev.Pressed())

	_, ok, err = src.Poll()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, empties)

	src.Fail(fmt.Errorf("unplugged"))
	_, _, err = src.Poll()
	rerr, isRead := err.(*ReadError)
	require.True(t, isRead, "err=%#v", err)
	assert.Equal(t, "input read device=mock kbd: unplugged", rerr.Error())
}

func TestRawEventPressed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value  int32
		expect bool
	}{
		{ValueRelease, false},
		{ValuePress, true},
		{ValueRepeat, true},
		{-1, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.expect, KeyEvent(1, c.value).Pressed(), "value=%d", c.value)
	}
	assert.False(t, RawEvent{Type: 0x02, Code: 1, Value: 1}.IsKey())

	ie := inputevent.InputEvent{Type: EvKey, Code: 30, Value: int32(inputevent.KeyStateHold)}
	ev := RawEvent{Type: ie.Type, Code: ie.Code, Value: ie.Value}
	assert.True(t, ev.IsKey())
	assert.Equal(t, ValueRepeat, ev.Value)
	assert.True(t, ev.Pressed())
}
