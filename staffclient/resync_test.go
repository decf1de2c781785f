package staffclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResyncGuardBlocksReentry(t *testing.T) {
	var g ResyncGuard

	assert.True(t, g.TryBegin())
	assert.False(t, g.TryBegin(), "second begin while in flight")
	g.End()
}

func TestResyncGuardCooldown(t *testing.T) {
	g := ResyncGuard{Cooldown: 50 * time.Millisecond}

	assert.True(t, g.TryBegin())
	g.End()

	assert.False(t, g.TryBegin(), "inside cooldown window")

	time.Sleep(60 * time.Millisecond)
	assert.True(t, g.TryBegin(), "cooldown elapsed")
	g.End()
}

func TestResyncGuardDefaultCooldown(t *testing.T) {
	var g ResyncGuard
	assert.Equal(t, 2*time.Second, g.cooldown())

	g.Cooldown = time.Minute
	assert.Equal(t, time.Minute, g.cooldown())
}
