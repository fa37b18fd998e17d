package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/sections"
	"github.com/Zachkp/folio/internal/store"
	"github.com/Zachkp/folio/internal/view"
)

// Tracker persists visit and submission records. It is optional.
type Tracker interface {
	RecordVisit(ctx context.Context, v store.Visit) error
	RecordSubmission(ctx context.Context, ok bool, at time.Time) error
	Cleanup(ctx context.Context, now time.Time) (int64, error)
	Stats(ctx context.Context, now time.Time) (*store.Stats, error)
}

// Notifier forwards successful contact messages to the site owner. It is optional.
type Notifier interface {
	Enabled() bool
	Notify(msg content.ContactMessage) error
}

type Options struct {
	Version     string
	Port        string
	OwnerName   string
	AdminToken  string
	SessionTTL  time.Duration
	StatusReset time.Duration
	// MountWait is how long a page request waits for the first fetch batch
	// before falling back to the loading screen.
	MountWait time.Duration

	Renderer render.HTMLRender
	Static   http.FileSystem
	Fetcher  content.Fetcher
	Sender   view.Sender
	Tracker  Tracker
	Notifier Notifier
	Logger   *slog.Logger

	// AfterFunc overrides the timer used for contact status reverts.
	AfterFunc view.AfterFunc
}

type Server struct {
	version     string
	ownerName   string
	adminToken  string
	hashingSalt string
	mountWait   time.Duration

	fetcher  content.Fetcher
	sender   view.Sender
	tracker  Tracker
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	sessions *Sessions
	engine   *gin.Engine
	server   *http.Server

	baseCtx context.Context
	cancel  context.CancelFunc
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.StatusReset <= 0 {
		opts.StatusReset = view.DefaultStatusReset
	}

	if err := registerValidators(); err != nil {
		opts.Logger.Error("Error registering form validators", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		version:     opts.Version,
		ownerName:   opts.OwnerName,
		adminToken:  opts.AdminToken,
		hashingSalt: generateToken(),
		mountWait:   opts.MountWait,
		fetcher:     opts.Fetcher,
		sender:      opts.Sender,
		tracker:     opts.Tracker,
		notifier:    opts.Notifier,
		logger:      opts.Logger,
		now:         time.Now,
		baseCtx:     ctx,
		cancel:      cancel,
	}

	formOpts := []view.FormOption{view.WithStatusReset(opts.StatusReset)}
	if opts.AfterFunc != nil {
		formOpts = append(formOpts, view.WithAfterFunc(opts.AfterFunc))
	}
	pageLogger := s.logger.With("component", "page")
	s.sessions = NewSessions(opts.SessionTTL, func() *view.Page {
		return view.NewPage(s.baseCtx, s.fetcher,
			view.WithLogger(pageLogger),
			view.WithForm(view.NewContactForm(formOpts...)))
	})

	s.engine = s.routes(opts.Renderer, opts.Static)
	s.server = &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// Start serves until Shutdown is called. Background maintenance (session
// sweeping and the visit retention cleanup) runs alongside.
func (s *Server) Start() error {
	go s.sweepSessions(time.Minute)
	if s.tracker != nil {
		go s.cleanupVisitors()
	}

	s.logger.Info("Started server", "listen_addr", s.server.Addr, "version", s.version)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and tears down every page.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.cancel()
	s.sessions.CloseAll()
	return err
}

func (s *Server) sweepSessions(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.baseCtx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.logger.Debug("Expired sessions removed", "count", n)
			}
		}
	}
}

func (s *Server) site() sections.Site {
	return sections.Site{OwnerName: s.ownerName, Year: s.now().Year()}
}

func FormatBuildVersion(version string) string {
	return fmt.Sprintf("Go Version: %s\nVersion: %s\nOS/Arch: %s/%s", runtime.Version(), version, runtime.GOOS, runtime.GOARCH)
}
