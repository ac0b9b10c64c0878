package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiryFor(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		sliding  time.Duration
		absolute time.Duration
		want     time.Duration
	}{
		{"fresh entry slides", created, 5 * time.Minute, 30 * time.Minute, 5 * time.Minute},
		{"near absolute deadline", created.Add(28 * time.Minute), 5 * time.Minute, 30 * time.Minute, 2 * time.Minute},
		{"past absolute deadline", created.Add(31 * time.Minute), 5 * time.Minute, 30 * time.Minute, -time.Minute},
		{"no absolute limit", created.Add(time.Hour), 5 * time.Minute, 0, 5 * time.Minute},
		{"no sliding limit", created.Add(10 * time.Minute), 0, 30 * time.Minute, 20 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expiryFor(created, tt.now, tt.sliding, tt.absolute))
		})
	}
}

func TestEmailingCacheKeys(t *testing.T) {
	cache := NewEmailingCache(nil, "feedback360", time.Minute, time.Hour)

	assert.Equal(t, "feedback360:emailing:t1", cache.dataKey("t1"))
	assert.Equal(t, "feedback360:emailing-gen:t1", cache.generationKey("t1"))
	assert.Equal(t, "feedback360:emailing-epoch", cache.epochKey())
}

func TestSumCountersIncludesEpoch(t *testing.T) {
	total, err := sumCounters([]interface{}{"3", "2"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	total, err = sumCounters([]interface{}{nil, "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "an uncached tenant still moves with the epoch")

	total, err = sumCounters([]interface{}{nil, nil})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = sumCounters([]interface{}{"x"})
	assert.Error(t, err)
}
