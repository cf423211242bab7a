package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter_PushAndExpire(t *testing.T) {
	c := NewCenter(20 * time.Millisecond)
	defer c.Close()

	n := c.Push(LevelError, "File too large. Maximum size is 100MB.")
	assert.NotEmpty(t, n.ID)

	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, LevelError, active[0].Level)

	require.Eventually(t, func() bool {
		return len(c.Active()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestCenter_OrderAndDismiss(t *testing.T) {
	c := NewCenter(time.Minute)
	defer c.Close()

	first := c.Error("first")
	second := c.Push(LevelInfo, "second")

	active := c.Active()
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)

	c.Dismiss(first.ID)
	c.Dismiss("unknown")

	active = c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)
}

func TestCenter_Close(t *testing.T) {
	c := NewCenter(time.Minute)
	c.Error("gone")
	c.Close()

	assert.Empty(t, c.Active())

	c.Error("after close")
	assert.Empty(t, c.Active())
}

func TestNewCenter_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewCenter(0).ttl)
}
