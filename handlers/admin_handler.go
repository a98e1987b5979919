package handlers

import (
	"net/http"

	"github.com/masters-arena/arena-server/access"
	"github.com/masters-arena/arena-server/models"
)

// AdminHandler serves the shared admin surface. The surface is one
// route; which management view it answers with is decided per request
// from the visitor's role and lock state.
type AdminHandler struct {
	router *access.AdminRouter
}

func NewAdminHandler(router *access.AdminRouter) *AdminHandler {
	return &AdminHandler{router: router}
}

// Content returns the surface as computed content: the view cannot be
// chosen until the gate has resolved the visitor.
func (h *AdminHandler) Content() access.Content {
	return access.Computed(func(identity models.Identity, role models.Role) access.View {
		return access.ViewFunc(h.render)
	})
}

func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, identity models.Identity, role models.Role) {
	view, tournamentLock, leaderboardLock := h.router.Route(identity, role)

	response := jsonResponse{
		"view":             view.String(),
		"role":             role,
		"tournament_lock":  tournamentLock,
		"leaderboard_lock": leaderboardLock,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
