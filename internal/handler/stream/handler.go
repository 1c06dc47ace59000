package stream

import (
	"context"
	"fmt"
	"net/http"

	gameservice "github.com/mvcastro/quemsoueu/internal/service/game"
	"github.com/mvcastro/quemsoueu/pkg/utils"
)

// Handler streams assistant turns via Server-Sent Events.
type Handler struct {
	gameSvc *gameservice.Service
}

// New creates the stream handler.
func New(gameSvc *gameservice.Service) *Handler {
	return &Handler{gameSvc: gameSvc}
}

// StreamResponse is one SSE frame.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest relays one user turn, pushing reply deltas as they
// arrive. Log semantics are identical to the REST path: a conversation
// failure surfaces as the fallback message, not a broken stream.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	utils.SendSSEChunk(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
	})

	reply, err := h.gameSvc.StreamMessage(ctx, sessionID, userMessage, func(delta string) error {
		utils.SendSSEChunk(w, flusher, StreamResponse{
			Event:     "delta",
			SessionID: sessionID,
			Content:   delta,
		})
		return nil
	})
	if err != nil {
		utils.SendSSEChunk(w, flusher, StreamResponse{
			Event: "error",
			Error: err.Error(),
		})
		return err
	}

	utils.SendSSEChunk(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   reply.Content,
	})
	utils.SendSSEChunk(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	return nil
}
