package handlers

import (
	"net/http"

	"github.com/masters-arena/arena-server/middleware"
	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/services"
)

type VoteHandler struct {
	voteService services.VoteService
}

func NewVoteHandler(voteService services.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	matchID, err := matchIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		PredictedWinner models.VoteOption `json:"predicted_winner"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	vote, err := h.voteService.Cast(r.Context(), identity.UserID, matchID, input.PredictedWinner)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"vote": vote}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Tally returns the aggregated predictions and, when signed in, the
// caller's own vote.
func (h *VoteHandler) Tally(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	tally, err := h.voteService.Tally(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"tally": tally}
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		own, err := h.voteService.VoteOf(r.Context(), identity.UserID, matchID)
		if err == nil && own != nil {
			response["own_vote"] = own
		}
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
