package handlers

import (
	"errors"
	"net/http"

	"github.com/masters-arena/arena-server/middleware"
	"github.com/masters-arena/arena-server/realtime"
	"github.com/masters-arena/arena-server/services"
)

type AuthHandler struct {
	authService services.AuthService
	hub         *realtime.Hub
}

func NewAuthHandler(authService services.AuthService, hub *realtime.Hub) *AuthHandler {
	return &AuthHandler{authService: authService, hub: hub}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	profile, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var input services.SignInInput

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	profile, token, err := h.authService.SignIn(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"profile": profile,
		"token":   token,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.authService.SignOut(r.Context(), identity.UserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// Open views of the same visitor learn about the sign-out without
	// polling.
	h.hub.Broadcast(realtime.UserRoom(identity.UserID), realtime.Message{Type: realtime.EventSignedOut})

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "signed out"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
