package play

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	gameservice "github.com/mvcastro/quemsoueu/internal/service/game"
	"github.com/mvcastro/quemsoueu/pkg/utils"
)

// Handler relays turns between the player and the active round.
type Handler struct {
	gameSvc *gameservice.Service
}

// New creates the play handler.
func New(gameSvc *gameservice.Service) *Handler {
	return &Handler{gameSvc: gameSvc}
}

// RegisterRoutes wires the turn-relay routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session/{sessionID}/messages", h.handleSendMessage)
	r.Get("/session/{sessionID}/transcript", h.handleTranscript)
	r.Get("/session/{sessionID}/used", h.handleUsedNames)
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.gameSvc.SendMessage(r.Context(), sessionID, payload.Message)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	transcript, err := h.gameSvc.Transcript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, transcript)
}

func (h *Handler) handleUsedNames(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	names, err := h.gameSvc.UsedNames(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string][]string{"usedNames": names})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gameservice.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, gameservice.ErrNoActiveRound):
		return http.StatusConflict
	case errors.Is(err, gameservice.ErrEmptyMessage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
