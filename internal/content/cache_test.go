package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls   int
	content Content
	err     error
}

func (f *countingFetcher) FetchAll(ctx context.Context) (Content, error) {
	f.calls++
	return f.content, f.err
}

func TestSnapshotCache(t *testing.T) {
	c := NewSnapshotCache(time.Hour)

	_, ok := c.Get()
	assert.False(t, ok, "expected empty cache")

	c.Set(Content{About: AboutInfo{Bio: "cached"}})
	got, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, "cached", got.About.Bio)

	c.Invalidate()
	_, ok = c.Get()
	assert.False(t, ok, "expected cache to be invalidated")
}

func TestSnapshotCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewSnapshotCache(time.Minute)
	c.now = func() time.Time { return now }

	c.Set(Empty())
	_, ok := c.Get()
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get()
	assert.False(t, ok, "expected snapshot to have expired")
}

func TestCachedFetcherReusesSuccessfulBatch(t *testing.T) {
	next := &countingFetcher{content: Content{About: AboutInfo{Bio: "x"}}.Normalize()}
	f := NewCachedFetcher(next, time.Hour)

	for i := 0; i < 3; i++ {
		got, err := f.FetchAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "x", got.About.Bio)
	}
	assert.Equal(t, 1, next.calls)
}

func TestCachedFetcherDoesNotCacheFailures(t *testing.T) {
	next := &countingFetcher{content: Empty(), err: errors.New("boom")}
	f := NewCachedFetcher(next, time.Hour)

	_, err := f.FetchAll(context.Background())
	require.Error(t, err)
	_, err = f.FetchAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedFetcherDisabled(t *testing.T) {
	next := &countingFetcher{}
	assert.Same(t, Fetcher(next), NewCachedFetcher(next, 0))
}
