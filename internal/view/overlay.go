package view

import "errors"

// ErrNoSuchItem is returned when an overlay is opened for an index that is
// not present in the corresponding list.
var ErrNoSuchItem = errors.New("view: no such item")

type OverlayKind int

const (
	OverlayClosed OverlayKind = iota
	OverlayProject
	OverlayBlog
)

func (k OverlayKind) String() string {
	switch k {
	case OverlayProject:
		return "project"
	case OverlayBlog:
		return "blog"
	default:
		return "closed"
	}
}

// Overlay is the single modal slot of a page. At most one detail view is open
// at a time; opening another replaces it.
type Overlay struct {
	Kind  OverlayKind
	Index int
}

func (o Overlay) IsOpen() bool {
	return o.Kind != OverlayClosed
}

func closedOverlay() Overlay {
	return Overlay{Kind: OverlayClosed, Index: -1}
}
