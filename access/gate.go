// Package access implements the guard placed in front of every
// protected view: it resolves the visitor's authenticated identity and
// stored role from the data service, optionally enforces a required
// role, and hands the resolved pair to the protected content. It also
// hosts the decision procedure behind the shared admin surface.
package access

import (
	"context"
	"sync"

	"github.com/masters-arena/arena-server/models"
)

// State is the per-mount lifecycle of a gate. Every mount starts
// Loading and settles in exactly one of the other two states; a stalled
// data-service call leaves the mount Loading indefinitely.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

// AuthEvent is an auth-state-change notification from the data service.
type AuthEvent string

const EventSignedOut AuthEvent = "SIGNED_OUT"

// Session is the data service's view of an authenticated visitor.
type Session struct {
	Identity models.Identity
}

// AuthSource is the auth interface of the data service.
type AuthSource interface {
	// CurrentSession returns the active session, or nil when the
	// visitor is not signed in.
	CurrentSession(ctx context.Context) (*Session, error)
	// OnAuthStateChange registers a listener for the lifetime of a
	// mount; the returned function unsubscribes it.
	OnAuthStateChange(fn func(AuthEvent)) (unsubscribe func())
}

// RoleSource resolves the stored role of an identity.
type RoleSource interface {
	RoleOf(ctx context.Context, userID int) (models.Role, error)
}

// Gate guards protected views. RequiredRole, when non-empty, must equal
// the resolved role exactly; the check is presentational, not a
// security boundary.
type Gate struct {
	Auth         AuthSource
	Roles        RoleSource
	RequiredRole models.Role
}

// Mount begins resolving the visitor. Resolution is sequential: the
// session fetch completes and updates state before the role fetch is
// issued. onRedirect fires when no session exists or a SIGNED_OUT event
// arrives at any point during the mount; it fires at most once.
func (g *Gate) Mount(ctx context.Context, onRedirect func()) *Mount {
	m := &Mount{
		gate:    g,
		ready:   make(chan struct{}),
		mounted: true,
	}
	m.redirectOnce = func() {
		m.mu.Lock()
		fired := m.redirected
		m.redirected = true
		alive := m.mounted
		m.mu.Unlock()
		if !fired && alive && onRedirect != nil {
			onRedirect()
		}
	}

	m.unsubscribe = g.Auth.OnAuthStateChange(func(ev AuthEvent) {
		if ev != EventSignedOut {
			return
		}
		m.mu.Lock()
		m.state = StateUnauthenticated
		m.mu.Unlock()
		m.redirectOnce()
	})

	go m.resolve(ctx)
	return m
}

// Mount is one gate activation. Results resolving after Unmount are
// discarded; in-flight requests are not aborted beyond ctx.
type Mount struct {
	gate *Gate

	mu         sync.Mutex
	state      State
	identity   models.Identity
	role       models.Role
	mounted    bool
	redirected bool

	ready       chan struct{}
	readyOnce   sync.Once
	unsubscribe func()

	redirectOnce func()
}

func (m *Mount) resolve(ctx context.Context) {
	sess, err := m.gate.Auth.CurrentSession(ctx)
	if err != nil || sess == nil {
		// A failed session read is indistinguishable from "not signed
		// in": redirect, never a silent render.
		m.mu.Lock()
		if m.mounted {
			m.state = StateUnauthenticated
		}
		m.mu.Unlock()
		m.redirectOnce()
		m.settle()
		return
	}

	// The session is established before the role lookup is issued.
	m.mu.Lock()
	if !m.mounted {
		m.mu.Unlock()
		m.settle()
		return
	}
	m.identity = sess.Identity
	m.mu.Unlock()

	role, err := m.gate.Roles.RoleOf(ctx, sess.Identity.UserID)
	if err != nil || !role.Valid() {
		role = models.RoleMember
	}

	m.mu.Lock()
	if m.mounted && m.state == StateLoading {
		m.state = StateAuthenticated
		m.role = role
	}
	m.mu.Unlock()
	m.settle()
}

func (m *Mount) settle() {
	m.readyOnce.Do(func() { close(m.ready) })
}

// Ready is closed once the mount has left Loading (or been unmounted
// mid-resolution). There is no timeout of our own; callers bound the
// wait with their context.
func (m *Mount) Ready() <-chan struct{} { return m.ready }

func (m *Mount) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Resolved returns the identity and role once Authenticated.
func (m *Mount) Resolved() (models.Identity, models.Role, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated {
		return models.Identity{}, "", false
	}
	return m.identity, m.role, true
}

// Denied reports whether the gate's required role rejects the resolved
// role.
func (m *Mount) Denied() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateAuthenticated &&
		m.gate.RequiredRole != "" &&
		m.role != m.gate.RequiredRole
}

// Unmount stops the mount: the auth listener is removed and any
// still-in-flight resolution result is discarded.
func (m *Mount) Unmount() {
	m.mu.Lock()
	m.mounted = false
	m.mu.Unlock()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.settle()
}
