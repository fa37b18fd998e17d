package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStatsCountsVisitsAndSubmissions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	visits := []Visit{
		{HashedIP: "a", Path: "/", Timestamp: now.Add(-time.Hour)},
		{HashedIP: "a", Path: "/", Timestamp: now.Add(-2 * time.Hour)},
		{HashedIP: "b", Path: "/", Timestamp: now.AddDate(0, 0, -3)},
		{HashedIP: "c", Path: "/", Timestamp: now.AddDate(0, 0, -30)},
	}
	for _, v := range visits {
		require.NoError(t, s.RecordVisit(ctx, v))
	}
	require.NoError(t, s.RecordSubmission(ctx, true, now))
	require.NoError(t, s.RecordSubmission(ctx, false, now))
	require.NoError(t, s.RecordSubmission(ctx, true, now))

	stats, err := s.Stats(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalVisitors)
	assert.Equal(t, int64(3), stats.UniqueVisitors)
	assert.Equal(t, int64(2), stats.VisitorsToday)
	assert.Equal(t, int64(3), stats.VisitorsThisWeek)
	assert.Equal(t, int64(2), stats.SubmissionsOK)
	assert.Equal(t, int64(1), stats.SubmissionsFailed)
	require.Len(t, stats.RecentVisitors, 4)
	assert.Equal(t, "a", stats.RecentVisitors[0].HashedIP, "most recent first")
}

func TestCleanupRemovesExpiredVisits(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "old", Timestamp: now.AddDate(-1, -1, 0)}))
	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "new", Timestamp: now.AddDate(0, -11, 0)}))

	n, err := s.Cleanup(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stats, err := s.Stats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalVisitors)
	assert.Equal(t, "new", stats.RecentVisitors[0].HashedIP)
}

func TestStatsOnEmptyDatabase(t *testing.T) {
	s := openTestStore(t)
	stats, err := s.Stats(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVisitors)
	assert.NotNil(t, stats.RecentVisitors)
}
