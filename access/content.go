package access

import (
	"net/http"

	"github.com/masters-arena/arena-server/models"
)

// View is a protected view. Identity and role are required inputs: the
// gate constructs the rendering with them rather than patching them
// onto an already-built view.
type View interface {
	Render(w http.ResponseWriter, r *http.Request, identity models.Identity, role models.Role)
}

// ViewFunc adapts a function to View.
type ViewFunc func(w http.ResponseWriter, r *http.Request, identity models.Identity, role models.Role)

func (f ViewFunc) Render(w http.ResponseWriter, r *http.Request, identity models.Identity, role models.Role) {
	f(w, r, identity, role)
}

type contentKind int

const (
	contentFixed contentKind = iota
	contentComputed
)

// Content is what a gate renders once the visitor is authenticated.
// It is a tagged union with two shapes: a fixed view, or a callback
// that inspects the resolved identity/role to choose among several
// views (the admin router uses the computed shape).
type Content struct {
	kind     contentKind
	fixed    View
	computed func(identity models.Identity, role models.Role) View
}

// Fixed wraps a single pre-chosen view.
func Fixed(v View) Content {
	return Content{kind: contentFixed, fixed: v}
}

// Computed wraps a content-producing callback.
func Computed(fn func(identity models.Identity, role models.Role) View) Content {
	return Content{kind: contentComputed, computed: fn}
}

// Render dispatches on the tag.
func (c Content) Render(w http.ResponseWriter, r *http.Request, identity models.Identity, role models.Role) {
	switch c.kind {
	case contentComputed:
		c.computed(identity, role).Render(w, r, identity, role)
	default:
		c.fixed.Render(w, r, identity, role)
	}
}
