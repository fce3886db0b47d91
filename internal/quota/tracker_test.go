package quota

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAllowUpToLimit(t *testing.T) {
	tracker := NewTracker(Config{
		DailyLimit: 25,
		Now:        fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	})

	for i := 0; i < 25; i++ {
		require.True(t, tracker.Allow("U1"), "call %d should be allowed", i+1)
	}
	assert.False(t, tracker.Allow("U1"), "26th call should be denied")
	assert.Equal(t, 25, tracker.Usage("U1"))
}

func TestDeniedCallDoesNotConsumeQuota(t *testing.T) {
	tracker := NewTracker(Config{
		DailyLimit: 1,
		Now:        fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	})

	require.True(t, tracker.Allow("U1"))
	assert.False(t, tracker.Allow("U1"))
	assert.False(t, tracker.Allow("U1"))
	assert.Equal(t, 1, tracker.Usage("U1"))
}

func TestUsersTrackedIndependently(t *testing.T) {
	tracker := NewTracker(Config{
		DailyLimit: 1,
		Now:        fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	})

	require.True(t, tracker.Allow("U1"))
	assert.False(t, tracker.Allow("U1"))
	assert.True(t, tracker.Allow("U2"))
}

func TestQuotaResetsAtUTCMidnight(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	tracker := NewTracker(Config{
		DailyLimit: 1,
		Now:        func() time.Time { return now },
	})

	require.True(t, tracker.Allow("U1"))
	require.False(t, tracker.Allow("U1"))

	now = time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC)
	assert.True(t, tracker.Allow("U1"))
	assert.Equal(t, 1, tracker.Usage("U1"))
}

func TestRolloverUsesUTCNotLocalTime(t *testing.T) {
	// 2025-06-01 20:00 in UTC-5 is 2025-06-02 01:00 UTC, so the UTC day
	// has already rolled over even though the local day has not.
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, loc)
	tracker := NewTracker(Config{
		DailyLimit: 1,
		Now:        func() time.Time { return now },
	})

	require.True(t, tracker.Allow("U1"))

	now = time.Date(2025, 6, 2, 20, 0, 0, 0, loc)
	assert.True(t, tracker.Allow("U1"))
}

func TestConcurrentAllowNeverExceedsLimit(t *testing.T) {
	const limit = 25
	tracker := NewTracker(Config{
		DailyLimit: limit,
		Now:        fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tracker.Allow("U1") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, allowed)
	assert.Equal(t, limit, tracker.Usage("U1"))
}

func TestUsageForUnknownUserIsZero(t *testing.T) {
	tracker := NewTracker(Config{DailyLimit: 25})
	assert.Equal(t, 0, tracker.Usage("nobody"))
}

func TestManyUsers(t *testing.T) {
	tracker := NewTracker(Config{
		DailyLimit: 2,
		Now:        fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	})

	for i := 0; i < 50; i++ {
		userID := fmt.Sprintf("U%d", i)
		assert.True(t, tracker.Allow(userID))
		assert.True(t, tracker.Allow(userID))
		assert.False(t, tracker.Allow(userID))
	}
}
