package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/masters-arena/arena-server/access"
	"github.com/masters-arena/arena-server/models"
)

type stubAuthService struct {
	sessions map[string]*access.Session
}

func (s *stubAuthService) SourceForToken(token string) access.AuthSource {
	return &stubAuthSource{session: s.sessions[token]}
}

type stubAuthSource struct {
	session *access.Session
}

func (s *stubAuthSource) CurrentSession(ctx context.Context) (*access.Session, error) {
	return s.session, nil
}

func (s *stubAuthSource) OnAuthStateChange(fn func(access.AuthEvent)) func() {
	return func() {}
}

type stubRoles struct {
	roles map[int]models.Role
}

func (s *stubRoles) RoleOf(ctx context.Context, userID int) (models.Role, error) {
	return s.roles[userID], nil
}

func newGatekeeper() *Gatekeeper {
	auth := &stubAuthService{sessions: map[string]*access.Session{
		"admin-token":  {Identity: models.Identity{UserID: 1, Email: "admin@example.com"}},
		"member-token": {Identity: models.Identity{UserID: 2, Email: "member@example.com"}},
	}}
	roles := &stubRoles{roles: map[int]models.Role{
		1: models.RoleAdmin,
		2: models.RoleMember,
	}}
	return &Gatekeeper{Auth: auth, Roles: roles, EntryURL: "/welcome"}
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Errorf("identity missing from protected request context")
		}
		role, _ := RoleFromContext(r.Context())
		w.Header().Set("X-User", identity.Email)
		w.Header().Set("X-Role", string(role))
		w.WriteHeader(http.StatusOK)
	})
}

func TestProtectRedirectsAnonymousVisitors(t *testing.T) {
	g := newGatekeeper()
	handler := g.Protect("")(protectedEcho(t))

	for _, header := range []string{"", "Bearer unknown-token", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Errorf("header %q: got status %d, want %d", header, rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != "/welcome" {
			t.Errorf("header %q: redirected to %q", header, loc)
		}
	}
}

func TestProtectPassesResolvedIdentity(t *testing.T) {
	g := newGatekeeper()
	handler := g.Protect("")(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer member-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	if got := rec.Header().Get("X-User"); got != "member@example.com" {
		t.Errorf("identity: got %q", got)
	}
	if got := rec.Header().Get("X-Role"); got != string(models.RoleMember) {
		t.Errorf("role: got %q", got)
	}
}

func TestProtectEnforcesRequiredRole(t *testing.T) {
	g := newGatekeeper()
	handler := g.Protect(models.RoleAdmin)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer member-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member behind admin gate: got status %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin behind admin gate: got status %d", rec.Code)
	}
}

func TestServeContentRendersComputedView(t *testing.T) {
	g := newGatekeeper()
	content := access.Computed(func(identity models.Identity, role models.Role) access.View {
		return access.ViewFunc(func(w http.ResponseWriter, r *http.Request, identity models.Identity, role models.Role) {
			w.Write([]byte(string(role)))
		})
	})
	handler := g.Protect("")(ServeContent(content))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != string(models.RoleAdmin) {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}
