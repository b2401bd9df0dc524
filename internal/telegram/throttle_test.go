package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottleAllowsFirstAndSpacedUpdates(t *testing.T) {
	clock := time.Unix(1000, 0)
	th := NewThrottle(500 * time.Millisecond)
	th.now = func() time.Time { return clock }

	assert.True(t, th.Allow(1), "first update always passes")

	clock = clock.Add(499 * time.Millisecond)
	assert.False(t, th.Allow(1), "update inside the interval is dropped")

	clock = clock.Add(500 * time.Millisecond)
	assert.True(t, th.Allow(1), "update after the interval passes")
}

func TestThrottleTracksUsersIndependently(t *testing.T) {
	clock := time.Unix(1000, 0)
	th := NewThrottle(500 * time.Millisecond)
	th.now = func() time.Time { return clock }

	assert.True(t, th.Allow(1))
	assert.True(t, th.Allow(2), "a fast sender must not throttle other users")

	clock = clock.Add(100 * time.Millisecond)
	assert.False(t, th.Allow(1))
	assert.False(t, th.Allow(2))
}

func TestThrottleMeasuresFromLastAcceptedMessage(t *testing.T) {
	clock := time.Unix(1000, 0)
	th := NewThrottle(500 * time.Millisecond)
	th.now = func() time.Time { return clock }

	assert.True(t, th.Allow(1))

	clock = clock.Add(300 * time.Millisecond)
	assert.False(t, th.Allow(1), "0.3s after the accepted message is dropped")

	clock = clock.Add(300 * time.Millisecond)
	assert.True(t, th.Allow(1), "0.6s after the accepted message passes even though a dropped attempt sits in between")
}

func TestThrottleSteadySenderIsNotLockedOut(t *testing.T) {
	clock := time.Unix(1000, 0)
	th := NewThrottle(500 * time.Millisecond)
	th.now = func() time.Time { return clock }

	accepted := 0
	for i := 0; i < 10; i++ {
		if th.Allow(1) {
			accepted++
		}
		clock = clock.Add(300 * time.Millisecond)
	}

	// At 0.3s pace every other message clears the 0.5s cooldown.
	assert.Equal(t, 5, accepted)
}
