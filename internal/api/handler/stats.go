package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/api/middleware"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/api/response"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/stats"
)

// StatsHandler handles the player stats endpoint
type StatsHandler struct {
	statsService *stats.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// Handle dispatches /api/stats by method
func (h *StatsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.update(w, r)
	default:
		WriteError(w, NewMethodNotAllowedError())
	}
}

// get handles GET /api/stats
func (h *StatsHandler) get(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	view, err := h.statsService.Get(r.Context(), identity.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsResponseFromView(view))
}

// update handles POST /api/stats
func (h *StatsHandler) update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	view, err := h.statsService.Update(r.Context(), identity.ID, patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsResponseFromView(view))
}
