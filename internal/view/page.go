// Package view holds the per-visitor view state of the portfolio: the loaded
// content, the open overlay and the contact form.
package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Zachkp/folio/internal/content"
)

// State is a copy of a page's state, safe to hand to renderers.
type State struct {
	Loading bool
	Content content.Content
	Overlay Overlay
	Form    FormState
}

// Page is one visitor's view instance. Content is loaded once by Mount and
// never mutated afterwards.
type Page struct {
	mu      sync.Mutex
	loading bool
	content content.Content
	overlay Overlay
	closed  bool

	loader content.Fetcher
	form   *ContactForm
	logger *slog.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	mountOnce sync.Once
	settled   chan struct{}
}

type PageOption func(*Page)

func WithLogger(l *slog.Logger) PageOption {
	return func(p *Page) { p.logger = l }
}

func WithForm(f *ContactForm) PageOption {
	return func(p *Page) { p.form = f }
}

// NewPage creates a page whose lifetime is bounded by parent. Cancelling
// parent or calling Close aborts an in-flight fetch batch.
func NewPage(parent context.Context, loader content.Fetcher, opts ...PageOption) *Page {
	ctx, cancel := context.WithCancel(parent)
	p := &Page{
		loading: true,
		content: content.Empty(),
		overlay: closedOverlay(),
		loader:  loader,
		logger:  slog.Default(),
		ctx:     ctx,
		cancel:  cancel,
		settled: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.form == nil {
		p.form = NewContactForm()
	}
	return p
}

// Mount starts the fetch batch. Only the first call has any effect.
func (p *Page) Mount() {
	p.mountOnce.Do(func() {
		go p.load()
	})
}

func (p *Page) load() {
	defer close(p.settled)

	c, err := p.loader.FetchAll(p.ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if p.closed || p.ctx.Err() != nil {
		p.logger.Debug("Discarding content batch for closed page")
		return
	}
	if err != nil {
		p.logger.Error("Data fetch failed", "error", err)
	}
	p.content = c.Normalize()
}

// Wait blocks until the fetch batch has settled or ctx is done.
func (p *Page) Wait(ctx context.Context) error {
	select {
	case <-p.settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Page) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *Page) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		Loading: p.loading,
		Content: p.content,
		Overlay: p.overlay,
		Form:    p.form.State(),
	}
}

func (p *Page) Form() *ContactForm {
	return p.form
}

// OpenProject shows the detail overlay for the project at index i,
// replacing whatever overlay was open.
func (p *Page) OpenProject(i int) (content.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.content.Projects) {
		return content.Project{}, ErrNoSuchItem
	}
	p.overlay = Overlay{Kind: OverlayProject, Index: i}
	return p.content.Projects[i], nil
}

// OpenBlog shows the detail overlay for the blog post at index i,
// replacing whatever overlay was open.
func (p *Page) OpenBlog(i int) (content.BlogPost, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.content.Blogs) {
		return content.BlogPost{}, ErrNoSuchItem
	}
	p.overlay = Overlay{Kind: OverlayBlog, Index: i}
	return p.content.Blogs[i], nil
}

func (p *Page) CloseOverlay() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overlay = closedOverlay()
}

// Close tears the page down: the fetch batch is cancelled and its results
// will not be committed, and any pending form status revert is stopped.
func (p *Page) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cancel()
	p.form.Close()
}
