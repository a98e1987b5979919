package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/masters-arena/arena-server/brackets"
	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input services.ScheduleMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Schedule(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List returns a tournament's matches, optionally narrowed by the
// stage, round and group query parameters.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var (
		matches []models.Match
		query   = r.URL.Query()
	)
	if stage := query.Get("stage"); stage != "" {
		filter := brackets.StageFilter{Stage: models.Stage(stage)}
		if roundStr := query.Get("round"); roundStr != "" {
			round, err := strconv.Atoi(roundStr)
			if err != nil {
				badRequestResponse(w, r, err)
				return
			}
			filter.Round = &round
		}
		if groupStr := query.Get("group"); groupStr != "" {
			group, err := strconv.Atoi(groupStr)
			if err != nil {
				badRequestResponse(w, r, err)
				return
			}
			filter.GroupID = &group
		}
		matches, err = h.matchService.ListFiltered(r.Context(), tournamentID, filter)
	} else {
		matches, err = h.matchService.ListByTournament(r.Context(), tournamentID)
	}
	switch {
	case errors.Is(err, services.ErrInvalidStage):
		mapServiceErrorToHTTP(w, r, err)
		return
	case err != nil:
		degradedListResponse(w, r, "matches", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func matchIDParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "matchID"))
}

func (h *MatchHandler) Score(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input services.ScoreMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Score(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
