package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/masters-arena/arena-server/middleware"
	"github.com/masters-arena/arena-server/services"
	"github.com/masters-arena/arena-server/session"
)

// JoinHandler serves the passkey join flow: listing joinable targets
// and verifying a typed passkey to take a lock.
type JoinHandler struct {
	joinService    services.JoinService
	sessionService services.SessionService
}

func NewJoinHandler(joinService services.JoinService, sessionService services.SessionService) *JoinHandler {
	return &JoinHandler{joinService: joinService, sessionService: sessionService}
}

func lockKindParam(r *http.Request) (session.Kind, error) {
	kind := session.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		return "", services.ErrUnknownLockKind
	}
	return kind, nil
}

func (h *JoinHandler) ListTargets(w http.ResponseWriter, r *http.Request) {
	kind, err := lockKindParam(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	targets, err := h.joinService.List(r.Context(), kind)
	if err != nil {
		degradedListResponse(w, r, "targets", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"targets": targets}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *JoinHandler) Join(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	kind, err := lockKindParam(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	var input struct {
		TargetID string `json:"target_id"`
		Passkey  string `json:"passkey"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.TargetID == "" {
		badRequestResponse(w, r, errors.New("target_id is required"))
		return
	}

	lock, err := h.joinService.Join(r.Context(), identity.UserID, kind, input.TargetID, input.Passkey)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// Point the caller at the admin surface so it re-evaluates role and
	// locks from scratch under the new scope.
	headers := http.Header{"Location": {"/admin"}}
	if err := writeJSON(w, http.StatusSeeOther, jsonResponse{"lock": lock}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *JoinHandler) Locks(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	tournament, leaderboard, err := h.sessionService.Locks(r.Context(), identity.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"tournament":  tournament,
		"leaderboard": leaderboard,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *JoinHandler) ClearLock(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	kind, err := lockKindParam(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := h.sessionService.ClearLock(r.Context(), identity.UserID, kind); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "lock cleared"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
