// Package web owns the HTML templates and static assets of the site.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static/*
var staticFiles embed.FS

// Static returns the embedded static assets rooted at the static directory.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Errorf("static assets: %w", err))
	}
	return http.FS(sub)
}

// Parse parses every *.html template found at the root of fsys.
func Parse(fsys fs.FS) (*template.Template, error) {
	tmpl, err := template.New("").ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Renderer implements gin's HTMLRender over a template set that can be
// swapped at runtime.
type Renderer struct {
	current atomic.Pointer[template.Template]
	logger  *slog.Logger
}

// NewRenderer loads the embedded templates.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("embedded templates: %w", err)
	}
	tmpl, err := Parse(sub)
	if err != nil {
		return nil, err
	}
	r := &Renderer{logger: logger}
	r.current.Store(tmpl)
	return r, nil
}

// NewDirRenderer loads templates from dir on disk.
func NewDirRenderer(dir string, logger *slog.Logger) (*Renderer, error) {
	tmpl, err := Parse(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	r := &Renderer{logger: logger}
	r.current.Store(tmpl)
	return r, nil
}

func (r *Renderer) Instance(name string, data any) render.Render {
	return render.HTML{Template: r.current.Load(), Name: name, Data: data}
}

// Reload re-parses templates from dir. A parse error keeps the previous set.
func (r *Renderer) Reload(dir string) error {
	tmpl, err := Parse(os.DirFS(dir))
	if err != nil {
		return err
	}
	r.current.Store(tmpl)
	return nil
}

// Watch reloads templates from dir whenever a file in it changes, until ctx
// is done. Bursts of events are coalesced.
func (r *Renderer) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating template watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()

		var reloadTimer *time.Timer
		debounce := 200 * time.Millisecond

		for {
			select {
			case <-ctx.Done():
				if reloadTimer != nil {
					reloadTimer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Ext(event.Name) != ".html" {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}
				if reloadTimer != nil {
					reloadTimer.Stop()
				}
				reloadTimer = time.AfterFunc(debounce, func() {
					if err := r.Reload(dir); err != nil {
						r.logger.Error("Template reload failed", "dir", dir, "error", err)
						return
					}
					r.logger.Info("Templates reloaded", "dir", dir)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn("Template watcher error", "error", err)
			}
		}
	}()
	return nil
}
