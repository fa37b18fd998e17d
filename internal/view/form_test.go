package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Zachkp/folio/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock records scheduled callbacks and fires them when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

type stubSender struct {
	err  error
	sent []content.ContactMessage
}

func (s *stubSender) SubmitContact(ctx context.Context, msg content.ContactMessage) error {
	s.sent = append(s.sent, msg)
	return s.err
}

var jane = Fields{Name: "Jane", Email: "jane@x.com", Message: "Hi"}

func newTestForm(clock *fakeClock) *ContactForm {
	return NewContactForm(WithAfterFunc(clock.AfterFunc))
}

func TestSubmitSuccessClearsFields(t *testing.T) {
	clock := &fakeClock{}
	f := newTestForm(clock)
	sender := &stubSender{}

	require.NoError(t, f.Submit(context.Background(), jane, sender))

	st := f.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, Fields{}, st.Fields)
	assert.False(t, st.Submitting)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, content.ContactMessage{Name: "Jane", Email: "jane@x.com", Message: "Hi"}, sender.sent[0])
}

func TestSubmitFailureKeepsFields(t *testing.T) {
	clock := &fakeClock{}
	f := newTestForm(clock)
	sender := &stubSender{err: errors.New("backend down")}

	err := f.Submit(context.Background(), jane, sender)
	require.Error(t, err)

	st := f.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, jane, st.Fields)
	assert.False(t, st.Submitting)
}

func TestStatusRevertsAfterResetDelay(t *testing.T) {
	clock := &fakeClock{}
	f := newTestForm(clock)

	require.NoError(t, f.Submit(context.Background(), jane, &stubSender{}))

	clock.Advance(DefaultStatusReset - time.Millisecond)
	assert.Equal(t, StatusSuccess, f.State().Status, "status must stay visible for the full delay")

	clock.Advance(time.Millisecond)
	assert.Equal(t, StatusNone, f.State().Status)
}

func TestResubmitCancelsStaleRevert(t *testing.T) {
	clock := &fakeClock{}
	f := newTestForm(clock)

	require.NoError(t, f.Submit(context.Background(), jane, &stubSender{}))
	clock.Advance(4 * time.Second)

	err := f.Submit(context.Background(), jane, &stubSender{err: errors.New("nope")})
	require.Error(t, err)

	// The first submission's revert would have fired here.
	clock.Advance(time.Second)
	assert.Equal(t, StatusError, f.State().Status)

	clock.Advance(4 * time.Second)
	assert.Equal(t, StatusNone, f.State().Status)
}

func TestStaleTimerThatAlreadyFiredIsIgnored(t *testing.T) {
	var fns []func()
	f := NewContactForm(WithAfterFunc(func(d time.Duration, fn func()) Timer {
		fns = append(fns, fn)
		return &fakeTimer{fired: true}
	}))

	require.NoError(t, f.Submit(context.Background(), jane, &stubSender{}))
	require.Error(t, f.Submit(context.Background(), jane, &stubSender{err: errors.New("x")}))

	fns[0]()
	assert.Equal(t, StatusError, f.State().Status)
	fns[1]()
	assert.Equal(t, StatusNone, f.State().Status)
}

type blockingSender struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingSender) SubmitContact(ctx context.Context, msg content.ContactMessage) error {
	close(b.started)
	<-b.release
	return nil
}

func TestSubmitWhileSubmittingIsRejected(t *testing.T) {
	f := newTestForm(&fakeClock{})
	sender := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background(), jane, sender) }()
	<-sender.started

	assert.True(t, f.State().Submitting)
	assert.ErrorIs(t, f.Submit(context.Background(), jane, &stubSender{}), ErrSubmitInFlight)

	close(sender.release)
	require.NoError(t, <-done)
	assert.False(t, f.State().Submitting)
}

func TestCloseStopsPendingRevert(t *testing.T) {
	clock := &fakeClock{}
	f := newTestForm(clock)
	require.NoError(t, f.Submit(context.Background(), jane, &stubSender{}))

	f.Close()
	clock.Advance(time.Minute)
	assert.Equal(t, StatusSuccess, f.State().Status)
}

func TestSubmitFinishingAfterCloseSchedulesNothing(t *testing.T) {
	clock := &fakeClock{}
	f := newTestForm(clock)
	sender := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background(), jane, sender) }()
	<-sender.started

	f.Close()
	close(sender.release)
	require.NoError(t, <-done)

	clock.mu.Lock()
	assert.Empty(t, clock.timers)
	clock.mu.Unlock()

	st := f.State()
	assert.False(t, st.Submitting)
	assert.Equal(t, StatusNone, st.Status)
	assert.Equal(t, jane, st.Fields)
}

func TestUpdateKeepsFieldsUntilSubmit(t *testing.T) {
	f := NewContactForm()
	f.Update(Fields{Name: "J"})
	assert.Equal(t, "J", f.State().Fields.Name)
	assert.Equal(t, StatusNone, f.State().Status)
}
