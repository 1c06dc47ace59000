package session

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	gameservice "github.com/mvcastro/quemsoueu/internal/service/game"
	"github.com/mvcastro/quemsoueu/pkg/utils"
)

// Handler exposes session lifecycle and round management over HTTP.
type Handler struct {
	gameSvc *gameservice.Service
}

// New creates the session handler.
func New(gameSvc *gameservice.Service) *Handler {
	return &Handler{gameSvc: gameSvc}
}

// RegisterRoutes wires the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}", h.handleGetSession)
	r.Post("/session/{sessionID}/round", h.handleStartRound)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.gameSvc.CreateSession(r.Context())
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	summary, err := h.gameSvc.Summary(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, summary)
}

// handleStartRound begins a new round. On generation failure the session
// keeps its previous state and the player may simply try again.
func (h *Handler) handleStartRound(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	start, err := h.gameSvc.StartRound(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, gameservice.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusBadGateway, "persona generation failed")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, start)
}
