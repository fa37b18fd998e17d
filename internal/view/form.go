package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Zachkp/folio/internal/content"
)

// DefaultStatusReset is how long a success or error status stays visible.
const DefaultStatusReset = 5 * time.Second

// ErrSubmitInFlight is returned when a submission is attempted while another
// one for the same form has not finished.
var ErrSubmitInFlight = errors.New("view: submission already in progress")

type Status int

const (
	StatusNone Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "none"
	}
}

type Fields struct {
	Name    string
	Email   string
	Message string
}

func (f Fields) ContactMessage() content.ContactMessage {
	return content.ContactMessage{Name: f.Name, Email: f.Email, Message: f.Message}
}

// Sender delivers a contact message to the backend.
type Sender interface {
	SubmitContact(ctx context.Context, msg content.ContactMessage) error
}

// Timer is the subset of *time.Timer the form needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. It matches time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type FormState struct {
	Fields     Fields
	Submitting bool
	Status     Status
}

// ContactForm holds the transient contact form state of one page.
type ContactForm struct {
	mu         sync.Mutex
	fields     Fields
	submitting bool
	status     Status
	closed     bool

	resetAfter time.Duration
	afterFunc  AfterFunc
	pending    Timer
	// generation guards against a timer that fired before Stop could cancel it.
	generation uint64
}

type FormOption func(*ContactForm)

func WithStatusReset(d time.Duration) FormOption {
	return func(f *ContactForm) { f.resetAfter = d }
}

func WithAfterFunc(fn AfterFunc) FormOption {
	return func(f *ContactForm) { f.afterFunc = fn }
}

func NewContactForm(opts ...FormOption) *ContactForm {
	f := &ContactForm{
		resetAfter: DefaultStatusReset,
		afterFunc:  realAfterFunc,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Update replaces the field values without submitting.
func (f *ContactForm) Update(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
}

func (f *ContactForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormState{Fields: f.fields, Submitting: f.submitting, Status: f.status}
}

// Submit sends fields through sender. On success the fields are cleared and
// the status becomes success; on failure the fields are kept and the status
// becomes error. Either way the status reverts to none after the reset delay,
// replacing any revert still pending from an earlier submission.
func (f *ContactForm) Submit(ctx context.Context, fields Fields, sender Sender) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.submitting = true
	f.fields = fields
	f.mu.Unlock()

	err := sender.SubmitContact(ctx, fields.ContactMessage())

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if f.closed {
		return err
	}
	if err != nil {
		f.status = StatusError
	} else {
		f.status = StatusSuccess
		f.fields = Fields{}
	}
	f.scheduleReset()
	return err
}

// scheduleReset must be called with f.mu held.
func (f *ContactForm) scheduleReset() {
	if f.pending != nil {
		f.pending.Stop()
	}
	f.generation++
	gen := f.generation
	f.pending = f.afterFunc(f.resetAfter, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.generation != gen {
			return
		}
		f.status = StatusNone
		f.pending = nil
	})
}

// Close stops any pending status revert. A submission still in flight
// leaves the status untouched when it returns.
func (f *ContactForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}
	f.generation++
}
