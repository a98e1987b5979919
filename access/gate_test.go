package access

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/masters-arena/arena-server/models"
)

type fakeAuth struct {
	mu        sync.Mutex
	session   *Session
	err       error
	block     chan struct{} // when set, CurrentSession waits on it
	listeners []func(AuthEvent)
	unsubbed  int
}

func (f *fakeAuth) CurrentSession(ctx context.Context) (*Session, error) {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.err
}

func (f *fakeAuth) OnAuthStateChange(fn func(AuthEvent)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unsubbed++
	}
}

func (f *fakeAuth) fire(ev AuthEvent) {
	f.mu.Lock()
	listeners := append([]func(AuthEvent){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

type fakeRoles struct {
	role models.Role
	err  error

	mu    sync.Mutex
	calls int
}

func (f *fakeRoles) RoleOf(ctx context.Context, userID int) (models.Role, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.role, f.err
}

func waitReady(t *testing.T, m *Mount) {
	t.Helper()
	select {
	case <-m.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("mount never settled")
	}
}

func TestNoSessionRedirectsAndRendersNothing(t *testing.T) {
	auth := &fakeAuth{}
	roles := &fakeRoles{role: models.RoleAdmin}
	g := &Gate{Auth: auth, Roles: roles}

	redirected := false
	m := g.Mount(context.Background(), func() { redirected = true })
	waitReady(t, m)
	defer m.Unmount()

	if !redirected {
		t.Error("expected redirect to the public entry")
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v, want Unauthenticated", m.State())
	}
	if _, _, ok := m.Resolved(); ok {
		t.Error("unauthenticated mount must not expose identity/role")
	}
	if roles.calls != 0 {
		t.Errorf("role fetch issued %d times without a session, want 0", roles.calls)
	}
}

func TestAuthenticatedResolvesIdentityAndRole(t *testing.T) {
	auth := &fakeAuth{session: &Session{Identity: models.Identity{UserID: 42, Email: "a@b.c"}}}
	roles := &fakeRoles{role: models.RoleAdmin}
	g := &Gate{Auth: auth, Roles: roles}

	m := g.Mount(context.Background(), func() { t.Error("unexpected redirect") })
	waitReady(t, m)
	defer m.Unmount()

	id, role, ok := m.Resolved()
	if !ok {
		t.Fatalf("state = %v, want Authenticated", m.State())
	}
	if id.UserID != 42 || role != models.RoleAdmin {
		t.Errorf("resolved (%+v, %s), want (42, admin)", id, role)
	}
}

func TestMissingRoleDefaultsToMember(t *testing.T) {
	auth := &fakeAuth{session: &Session{Identity: models.Identity{UserID: 7}}}
	roles := &fakeRoles{err: errors.New("no profile row")}
	g := &Gate{Auth: auth, Roles: roles}

	m := g.Mount(context.Background(), nil)
	waitReady(t, m)
	defer m.Unmount()

	_, role, ok := m.Resolved()
	if !ok || role != models.RoleMember {
		t.Errorf("role = %q (ok=%v), want member default", role, ok)
	}
}

func TestRequiredRoleMismatchIsDenied(t *testing.T) {
	auth := &fakeAuth{session: &Session{Identity: models.Identity{UserID: 7}}}
	roles := &fakeRoles{role: models.RoleMember}
	g := &Gate{Auth: auth, Roles: roles, RequiredRole: models.RoleAdmin}

	m := g.Mount(context.Background(), func() { t.Error("denial must not redirect") })
	waitReady(t, m)
	defer m.Unmount()

	if !m.Denied() {
		t.Error("member resolving against RequiredRole=admin must be denied")
	}
}

func TestSignOutEventForcesRedirectPostAuthentication(t *testing.T) {
	auth := &fakeAuth{session: &Session{Identity: models.Identity{UserID: 7}}}
	roles := &fakeRoles{role: models.RoleAdmin}
	g := &Gate{Auth: auth, Roles: roles}

	redirects := 0
	m := g.Mount(context.Background(), func() { redirects++ })
	waitReady(t, m)
	defer m.Unmount()

	if m.State() != StateAuthenticated {
		t.Fatalf("state = %v, want Authenticated before sign-out", m.State())
	}

	auth.fire(EventSignedOut)
	if m.State() != StateUnauthenticated {
		t.Errorf("state after SIGNED_OUT = %v, want Unauthenticated", m.State())
	}
	if redirects != 1 {
		t.Errorf("redirect fired %d times, want 1", redirects)
	}

	// A second event must not redirect again.
	auth.fire(EventSignedOut)
	if redirects != 1 {
		t.Errorf("redirect fired %d times after duplicate event, want 1", redirects)
	}
}

func TestUnmountDiscardsLateResults(t *testing.T) {
	block := make(chan struct{})
	auth := &fakeAuth{
		session: &Session{Identity: models.Identity{UserID: 7}},
		block:   block,
	}
	roles := &fakeRoles{role: models.RoleAdmin}
	g := &Gate{Auth: auth, Roles: roles}

	redirected := false
	m := g.Mount(context.Background(), func() { redirected = true })
	m.Unmount()
	close(block) // session resolves after unmount
	waitReady(t, m)

	if _, _, ok := m.Resolved(); ok {
		t.Error("unmounted gate must discard the late resolution")
	}
	if redirected {
		t.Error("unmounted gate must not redirect")
	}
	if auth.unsubbed != 1 {
		t.Errorf("auth listener unsubscribed %d times, want 1", auth.unsubbed)
	}
}
