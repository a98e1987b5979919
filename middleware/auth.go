package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/masters-arena/arena-server/access"
	"github.com/masters-arena/arena-server/models"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	roleContextKey     contextKey = "role"
)

// IdentityFromContext returns the authenticated identity placed on the
// request by Protect.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(models.Identity)
	return identity, ok
}

func RoleFromContext(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(roleContextKey).(models.Role)
	return role, ok
}

// TokenAuthSource turns a request's bearer token into the gate's view
// of the auth side of the data service.
type TokenAuthSource interface {
	SourceForToken(token string) access.AuthSource
}

// Gatekeeper mounts an access gate in front of protected routes. Each
// request gets its own mount; no auth state is shared between requests.
type Gatekeeper struct {
	Auth  TokenAuthSource
	Roles access.RoleSource
	// EntryURL receives visitors the gate turns away.
	EntryURL string
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Protect resolves the visitor through the gate before letting the
// request reach the handler. Unauthenticated visitors are redirected to
// the entry URL; a required-role mismatch gets a denial instead of the
// protected resource.
func (g *Gatekeeper) Protect(requiredRole models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gate := &access.Gate{
				Auth:         g.Auth.SourceForToken(bearerToken(r)),
				Roles:        g.Roles,
				RequiredRole: requiredRole,
			}
			mount := gate.Mount(r.Context(), nil)
			defer mount.Unmount()

			select {
			case <-mount.Ready():
			case <-r.Context().Done():
				return
			}

			identity, role, ok := mount.Resolved()
			if !ok {
				http.Redirect(w, r, g.EntryURL, http.StatusSeeOther)
				return
			}
			if mount.Denied() {
				http.Error(w, "access denied", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			ctx = context.WithValue(ctx, roleContextKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ServeContent renders protected content with the resolved identity and
// role. It belongs behind Protect.
func ServeContent(content access.Content) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			http.Error(w, "access denied", http.StatusForbidden)
			return
		}
		role, _ := RoleFromContext(r.Context())
		content.Render(w, r, identity, role)
	}
}
