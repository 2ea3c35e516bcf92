package httpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterSetDropsIdleKeys(t *testing.T) {
	set := newLimiterSet(RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})
	start := time.Now()

	ok, _ := set.allow("a", start)
	require.True(t, ok)
	ok, wait := set.allow("a", start)
	require.False(t, ok)
	require.InDelta(t, time.Minute, wait, float64(time.Millisecond))

	later := start.Add(set.idleAfter + time.Minute)
	ok, _ = set.allow("b", later)
	require.True(t, ok)
	require.NotContains(t, set.entries, "a")
	require.Contains(t, set.entries, "b")
}
