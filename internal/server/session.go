package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/folio/internal/view"
)

const sessionCookie = "portfolio_session"

type session struct {
	page    *view.Page
	expires time.Time
}

// Sessions maps session IDs to the page each visitor is looking at.
// Expiry slides forward on every access.
type Sessions struct {
	mu      sync.RWMutex
	entries map[string]*session
	ttl     time.Duration
	newPage func() *view.Page
	now     func() time.Time
}

func NewSessions(ttl time.Duration, newPage func() *view.Page) *Sessions {
	return &Sessions{
		entries: make(map[string]*session),
		ttl:     ttl,
		newPage: newPage,
		now:     time.Now,
	}
}

func (s *Sessions) Create() (string, *view.Page) {
	id := uuid.NewString()
	page := s.newPage()

	s.mu.Lock()
	s.entries[id] = &session{page: page, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return id, page
}

func (s *Sessions) Get(id string) (*view.Page, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.After(sess.expires) {
		delete(s.entries, id)
		go sess.page.Close()
		return nil, false
	}
	sess.expires = now.Add(s.ttl)
	return sess.page, true
}

func (s *Sessions) Delete(id string) {
	s.mu.Lock()
	sess, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if ok {
		sess.page.Close()
	}
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep closes and forgets every expired page, returning how many went.
func (s *Sessions) Sweep() int {
	now := s.now()
	var expired []*view.Page

	s.mu.Lock()
	for id, sess := range s.entries {
		if now.After(sess.expires) {
			expired = append(expired, sess.page)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, p := range expired {
		p.Close()
	}
	return len(expired)
}

// CloseAll closes every page, cancelling in-flight batches and timers.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	entries := s.entries
	s.entries = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range entries {
		sess.page.Close()
	}
}
