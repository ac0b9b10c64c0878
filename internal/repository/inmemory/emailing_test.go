package inmemory

import (
	"context"
	"testing"
	"time"

	emailingdomain "feedback360-go/internal/domain/emailing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestEmailingCache(sliding, absolute time.Duration) (*EmailingCache, *fakeClock) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	cache := NewEmailingCache(sliding, absolute)
	cache.now = clock.now
	return cache, clock
}

func sampleItems() []emailingdomain.Item {
	return []emailingdomain.Item{{
		SurveyID:            "survey-1",
		EvaluatorID:         "evaluator-1",
		OutstandingSubjects: []string{"Carol"},
		AssignmentIDs:       []string{"a1"},
		OutstandingCount:    1,
	}}
}

func TestEmailingCacheSlidingExpiry(t *testing.T) {
	ctx := context.Background()
	cache, clock := newTestEmailingCache(10*time.Minute, time.Hour)

	require.NoError(t, cache.Set(ctx, "t1", 0, sampleItems()))

	clock.advance(9 * time.Minute)
	_, ok, err := cache.Get(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.advance(9 * time.Minute)
	_, ok, err = cache.Get(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.advance(11 * time.Minute)
	_, ok, err = cache.Get(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmailingCacheAbsoluteExpiry(t *testing.T) {
	ctx := context.Background()
	cache, clock := newTestEmailingCache(10*time.Minute, 30*time.Minute)

	require.NoError(t, cache.Set(ctx, "t1", 0, sampleItems()))
	for i := 0; i < 3; i++ {
		clock.advance(8 * time.Minute)
		_, ok, err := cache.Get(ctx, "t1")
		require.NoError(t, err)
		require.True(t, ok)
	}

	clock.advance(8 * time.Minute)
	_, ok, err := cache.Get(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmailingCacheDropsStaleGeneration(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestEmailingCache(time.Minute, time.Hour)

	generation, err := cache.Generation(ctx, "t1")
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx, "t1"))
	require.NoError(t, cache.Set(ctx, "t1", generation, sampleItems()))

	_, ok, err := cache.Get(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmailingCacheReturnsCopies(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestEmailingCache(time.Minute, time.Hour)
	require.NoError(t, cache.Set(ctx, "t1", 0, sampleItems()))

	items, _, err := cache.Get(ctx, "t1")
	require.NoError(t, err)
	items[0].OutstandingSubjects[0] = "changed"

	again, _, err := cache.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Carol", again[0].OutstandingSubjects[0])
}

func TestEmailingCacheClear(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestEmailingCache(time.Minute, time.Hour)
	require.NoError(t, cache.Set(ctx, "t1", 0, sampleItems()))
	require.NoError(t, cache.Set(ctx, "t2", 0, sampleItems()))

	require.NoError(t, cache.Clear(ctx))

	for _, tenantID := range []string{"t1", "t2"} {
		_, ok, err := cache.Get(ctx, tenantID)
		require.NoError(t, err)
		assert.False(t, ok)
		generation, err := cache.Generation(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), generation)
	}
}

func TestEmailingCacheClearFencesUncachedTenant(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestEmailingCache(time.Minute, time.Hour)

	generation, err := cache.Generation(ctx, "cold")
	require.NoError(t, err)
	require.NoError(t, cache.Clear(ctx))
	require.NoError(t, cache.Set(ctx, "cold", generation, sampleItems()))

	_, ok, err := cache.Get(ctx, "cold")
	require.NoError(t, err)
	assert.False(t, ok)

	generation, err = cache.Generation(ctx, "cold")
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "cold", generation, sampleItems()))
	_, ok, err = cache.Get(ctx, "cold")
	require.NoError(t, err)
	assert.True(t, ok)
}
