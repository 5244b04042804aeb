package chainz_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jagill/chainz"
)

// =============================================================================
// Debug Stage Counts
// =============================================================================

func TestDebugSimpleCount(t *testing.T) {
	c := chainz.FromSlice([]int{0, 1, 2, 3}).
		WithDebug().
		Map(func(x int) (int, error) { return x, nil })

	require.NoError(t, c.Sink())
	require.Equal(t, map[string]int64{"0:map": 4}, c.Counts().Counts())
}

func TestDebugTwoCounts(t *testing.T) {
	c := chainz.FromSlice([]int{0, 1, 2, 3}).
		WithDebug().
		Map(func(x int) (int, error) { return x, nil }).
		Filter(func(x int) bool { return x%2 == 1 })

	require.NoError(t, c.Sink())

	stats := c.Counts()
	require.Equal(t, []string{"0:map", "1:filter"}, stats.Stages())
	require.Equal(t, int64(4), stats.Count("0:map"))
	require.Equal(t, int64(2), stats.Count("1:filter"))
}

func TestDebugDisabledByDefault(t *testing.T) {
	c := chainz.FromSlice([]int{1}).Map(func(x int) (int, error) { return x, nil })
	require.NoError(t, c.Sink())
	require.Nil(t, c.Counts())
}

func TestDebugCountsEmittedNotSeen(t *testing.T) {
	c := chainz.FromSlice([]int{0, 1, 2, 3, 4}).
		WithDebug().
		Slice(1, 4).
		Omit(func(x int) bool { return x == 2 })

	require.NoError(t, c.Sink())
	require.Equal(t, int64(3), c.Counts().Count("0:slice"))
	require.Equal(t, int64(2), c.Counts().Count("1:omit"))
}

func TestStatsJSONRoundTrip(t *testing.T) {
	c := chainz.FromSlice([]int{0, 1, 2}).
		WithDebug().
		Map(func(x int) (int, error) { return x, nil }).
		Filter(func(x int) bool { return x > 0 })
	require.NoError(t, c.Sink())

	data, err := json.Marshal(c.Counts())
	require.NoError(t, err)

	var restored chainz.Stats
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Equal(t, c.Counts().Counts(), restored.Counts())
	require.Equal(t, []string{"0:map", "1:filter"}, restored.Stages())
}

func TestStatsJSONRoundTripManyStages(t *testing.T) {
	// Past ten stages, keys like "10:map" sort before "2:map"
	// lexicographically; restoration must order by the numeric prefix.
	c := chainz.FromSlice([]int{1, 2}).WithDebug()
	for range 11 {
		c = c.Map(func(x int) (int, error) { return x, nil })
	}
	require.NoError(t, c.Sink())

	data, err := json.Marshal(c.Counts())
	require.NoError(t, err)

	var restored chainz.Stats
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Equal(t, c.Counts().Stages(), restored.Stages())
	require.Equal(t, "10:map", restored.Stages()[10])
}

func TestStatsUnknownStage(t *testing.T) {
	c := chainz.FromSlice([]int{1}).WithDebug().Map(func(x int) (int, error) { return x, nil })
	require.NoError(t, c.Sink())
	require.Zero(t, c.Counts().Count("9:nope"))
}
