package play

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/mvcastro/quemsoueu/internal/model/game"
	gameservice "github.com/mvcastro/quemsoueu/internal/service/game"
)

// SocketHandler drives a play session over a single WebSocket connection,
// mirroring the REST semantics event by event.
type SocketHandler struct {
	gameSvc  *gameservice.Service
	upgrader websocket.Upgrader
}

// NewSocket creates the WebSocket play handler.
func NewSocket(gameSvc *gameservice.Service) *SocketHandler {
	return &SocketHandler{
		gameSvc: gameSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes wires the WebSocket route.
func (h *SocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleSocket)
}

type inboundEvent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type outgoingEvent struct {
	Type     string        `json:"type"`
	Round    int           `json:"round,omitempty"`
	Greeting *game.Message `json:"greeting,omitempty"`
	Reply    *game.Message `json:"reply,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func (h *SocketHandler) handleSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	if _, err := h.gameSvc.Summary(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened for session=%s", sessionID)

	for {
		var in inboundEvent
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error for session=%s: %v", sessionID, err)
			}
			return
		}

		out := h.dispatch(r.Context(), sessionID, in)
		if err := conn.WriteJSON(out); err != nil {
			log.Printf("[ws] write error for session=%s: %v", sessionID, err)
			return
		}
	}
}

// dispatch maps one inbound event to its outgoing reply. Kept free of
// connection plumbing so the protocol can be tested directly.
func (h *SocketHandler) dispatch(ctx context.Context, sessionID string, in inboundEvent) outgoingEvent {
	switch in.Type {
	case "round":
		start, err := h.gameSvc.StartRound(ctx, sessionID)
		if err != nil {
			if errors.Is(err, gameservice.ErrSessionNotFound) {
				return outgoingEvent{Type: "error", Error: "session not found"}
			}
			return outgoingEvent{Type: "error", Error: "persona generation failed"}
		}
		return outgoingEvent{Type: "round", Round: start.Round, Greeting: &start.Greeting}

	case "message":
		reply, err := h.gameSvc.SendMessage(ctx, sessionID, in.Text)
		if err != nil {
			return outgoingEvent{Type: "error", Error: err.Error()}
		}
		return outgoingEvent{Type: "message", Reply: &reply}

	default:
		return outgoingEvent{Type: "error", Error: "unknown event type"}
	}
}
