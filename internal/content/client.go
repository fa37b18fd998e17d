package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

// Slot names one of the six content categories.
type Slot string

const (
	SlotAbout        Slot = "about"
	SlotSkills       Slot = "skills"
	SlotProjects     Slot = "projects"
	SlotExperience   Slot = "experience"
	SlotBlogs        Slot = "blogs"
	SlotTestimonials Slot = "testimonials"
)

// Slots lists every content slot in request order.
var Slots = []Slot{SlotAbout, SlotSkills, SlotProjects, SlotExperience, SlotBlogs, SlotTestimonials}

// Policy decides what a fetch batch commits when some reads fail.
type Policy string

const (
	// PolicyAtomic discards the whole batch if any read fails.
	PolicyAtomic Policy = "atomic"
	// PolicyPerSlot keeps successful slots and defaults the failed ones.
	PolicyPerSlot Policy = "per-slot"
)

// ParsePolicy maps a config value to a Policy. An empty value means atomic.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAtomic:
		return PolicyAtomic, nil
	case PolicyPerSlot:
		return PolicyPerSlot, nil
	default:
		return "", fmt.Errorf("unknown fetch policy %q: must be atomic or per-slot", s)
	}
}

// StatusError is returned for any non-2xx response from the content API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// BatchError reports which slots failed during a fetch batch.
type BatchError struct {
	Failed map[Slot]error
}

func (e *BatchError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for slot := range e.Failed {
		names = append(names, string(slot))
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Failed[Slot(name)]))
	}
	return "content batch failed: " + strings.Join(parts, "; ")
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		errs = append(errs, err)
	}
	return errs
}

// Client talks to the portfolio content API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     Policy
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithPolicy(p Policy) Option {
	return func(c *Client) { c.policy = p }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		policy:     PolicyAtomic,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Policy() Policy {
	return c.policy
}

// FetchAll reads all six slots concurrently and joins them as one batch.
// Under PolicyAtomic any failure yields empty content and a *BatchError.
// Under PolicyPerSlot the successful slots are returned alongside the error.
func (c *Client) FetchAll(ctx context.Context) (Content, error) {
	var (
		mu     sync.Mutex
		out    Content
		failed = make(map[Slot]error)
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, slot := range Slots {
		slot := slot
		g.Go(func() error {
			err := c.fetchSlot(gctx, slot, &out, &mu)
			if err == nil {
				return nil
			}
			mu.Lock()
			failed[slot] = err
			mu.Unlock()
			if c.policy == PolicyAtomic {
				return err
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) == 0 {
		return out.Normalize(), nil
	}
	if c.policy == PolicyAtomic {
		return Empty(), &BatchError{Failed: failed}
	}
	return out.Normalize(), &BatchError{Failed: failed}
}

func (c *Client) fetchSlot(ctx context.Context, slot Slot, out *Content, mu *sync.Mutex) error {
	path := "/" + string(slot)
	switch slot {
	case SlotAbout:
		var v AboutInfo
		if err := c.getJSON(ctx, path, &v); err != nil {
			return err
		}
		mu.Lock()
		out.About = v
		mu.Unlock()
	case SlotSkills:
		var v []Skill
		if err := c.getJSON(ctx, path, &v); err != nil {
			return err
		}
		mu.Lock()
		out.Skills = v
		mu.Unlock()
	case SlotProjects:
		var v []Project
		if err := c.getJSON(ctx, path, &v); err != nil {
			return err
		}
		mu.Lock()
		out.Projects = v
		mu.Unlock()
	case SlotExperience:
		var v []ExperienceEntry
		if err := c.getJSON(ctx, path, &v); err != nil {
			return err
		}
		mu.Lock()
		out.Experience = v
		mu.Unlock()
	case SlotBlogs:
		var v []BlogPost
		if err := c.getJSON(ctx, path, &v); err != nil {
			return err
		}
		mu.Lock()
		out.Blogs = v
		mu.Unlock()
	case SlotTestimonials:
		var v []Testimonial
		if err := c.getJSON(ctx, path, &v); err != nil {
			return err
		}
		mu.Lock()
		out.Testimonials = v
		mu.Unlock()
	default:
		return fmt.Errorf("unknown slot %q", slot)
	}
	return nil
}

// getJSON decodes the response body into dst. An empty or null body leaves
// dst at its zero value.
func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: http.MethodGet, Path: path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// SubmitContact posts a contact message. Any non-2xx status is a failure.
func (c *Client) SubmitContact(ctx context.Context, msg ContactMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding contact message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/contact", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building contact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST /contact: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: http.MethodPost, Path: "/contact", StatusCode: resp.StatusCode}
	}
	return nil
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
