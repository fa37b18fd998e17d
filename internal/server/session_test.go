package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/view"
)

func newTestSessions(t *testing.T, ttl time.Duration) (*Sessions, *time.Time) {
	t.Helper()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fetcher := &stubFetcher{content: content.Empty()}
	s := NewSessions(ttl, func() *view.Page {
		return view.NewPage(context.Background(), fetcher)
	})
	s.now = func() time.Time { return now }
	t.Cleanup(s.CloseAll)
	return s, &now
}

func TestSessionsCreateAndGet(t *testing.T) {
	s, _ := newTestSessions(t, time.Hour)

	id, page := s.Create()
	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, page, got)
	assert.Equal(t, 1, s.Len())
}

func TestSessionsRejectUnknownIDs(t *testing.T) {
	s, _ := newTestSessions(t, time.Hour)
	s.Create()

	_, ok := s.Get("not-a-uuid")
	assert.False(t, ok)

	_, ok = s.Get("0b7e4b8e-3c6f-4a55-9a0e-2f9f3f1b2c3d")
	assert.False(t, ok)
}

func TestSessionsExpirySlides(t *testing.T) {
	s, now := newTestSessions(t, time.Hour)
	id, _ := s.Create()

	*now = now.Add(50 * time.Minute)
	_, ok := s.Get(id)
	require.True(t, ok)

	*now = now.Add(50 * time.Minute)
	_, ok = s.Get(id)
	assert.True(t, ok, "access extends the session")

	*now = now.Add(61 * time.Minute)
	_, ok = s.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestSessionsSweep(t *testing.T) {
	s, now := newTestSessions(t, time.Hour)
	old, _ := s.Create()

	*now = now.Add(30 * time.Minute)
	fresh, _ := s.Create()

	*now = now.Add(31 * time.Minute)
	assert.Equal(t, 1, s.Sweep())

	_, ok := s.Get(old)
	assert.False(t, ok)
	_, ok = s.Get(fresh)
	assert.True(t, ok)
}

func TestSessionsDelete(t *testing.T) {
	s, _ := newTestSessions(t, time.Hour)
	id, _ := s.Create()

	s.Delete(id)
	s.Delete(id)

	assert.Equal(t, 0, s.Len())
}
