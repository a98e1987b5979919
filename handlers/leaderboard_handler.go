package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/masters-arena/arena-server/middleware"
	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (h *LeaderboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.CreateLeaderboardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	leaderboard, err := h.leaderboardService.Create(r.Context(), identity.UserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"leaderboard": leaderboard}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	leaderboards, err := h.leaderboardService.List(r.Context())
	if err != nil {
		degradedListResponse(w, r, "leaderboards", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboards": leaderboards}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leaderboardID")

	var input struct {
		IsActive bool `json:"is_active"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.leaderboardService.SetActive(r.Context(), id, input.IsActive); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "leaderboard updated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leaderboardID")

	leaderboard, err := h.leaderboardService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stats, err := h.leaderboardService.ListStats(r.Context(), id)
	if err != nil {
		// The board itself resolved; show it with an empty table rather
		// than failing the whole page.
		slog.Error("list read failed, serving empty result", slog.String("path", r.URL.Path), slog.Any("error", err))
		stats = []models.TournamentStat{}
	}

	response := jsonResponse{
		"leaderboard": leaderboard,
		"stats":       stats,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) AddStat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leaderboardID")

	var input struct {
		Username string `json:"username"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Username == "" {
		badRequestResponse(w, r, errors.New("username is required"))
		return
	}

	stat, err := h.leaderboardService.AddStat(r.Context(), id, input.Username)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"stat": stat}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func statIDParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "statID"))
}

func (h *LeaderboardHandler) UpdateStat(w http.ResponseWriter, r *http.Request) {
	statID, err := statIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input services.UpdateStatInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.leaderboardService.UpdateStat(r.Context(), statID, input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "entry updated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) DeleteStat(w http.ResponseWriter, r *http.Request) {
	statID, err := statIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	if err := h.leaderboardService.DeleteStat(r.Context(), statID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "entry deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
