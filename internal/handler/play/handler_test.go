package play

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mvcastro/quemsoueu/internal/model/persona"
	gameservice "github.com/mvcastro/quemsoueu/internal/service/game"
)

type stubConversation struct {
	err error
}

func (c stubConversation) Send(_ context.Context, _ string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return "Pista indireta.", nil
}

type stubProvider struct {
	convErr error
}

func (p *stubProvider) GeneratePersona(_ context.Context, _ []string) (persona.Persona, error) {
	return persona.Persona{
		Name:      "Santos Dumont",
		Biography: "Inventor e aviador.",
		Style:     "Entusiasmado",
		Greeting:  "Bem-vindo a bordo!",
	}, nil
}

func (p *stubProvider) OpenConversation(_ context.Context, _ string) (gameservice.Conversation, error) {
	return stubConversation{err: p.convErr}, nil
}

func setupRouter(provider *stubProvider) (*chi.Mux, *gameservice.Service) {
	gameSvc := gameservice.NewService(provider)
	handler := New(gameSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, gameSvc
}

func postMessage(t *testing.T, r *chi.Mux, sessionID, text string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"message": text})
	req := httptest.NewRequest(http.MethodPost, "/session/"+sessionID+"/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSendMessageReturnsReply(t *testing.T) {
	r, gameSvc := setupRouter(&stubProvider{})
	ctx := context.Background()
	session := gameSvc.CreateSession(ctx)
	if _, err := gameSvc.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("StartRound err: %v", err)
	}

	resp := postMessage(t, r, session.ID, "Você voa?")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var reply struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if reply.Role != "assistant" || reply.Content != "Pista indireta." {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestSendMessageFallbackStillSucceeds(t *testing.T) {
	r, gameSvc := setupRouter(&stubProvider{convErr: errors.New("api down")})
	ctx := context.Background()
	session := gameSvc.CreateSession(ctx)
	if _, err := gameSvc.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("StartRound err: %v", err)
	}

	resp := postMessage(t, r, session.ID, "Você voa?")
	if resp.Code != http.StatusOK {
		t.Fatalf("conversation failure must not fail the request, got %d", resp.Code)
	}

	var reply struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if reply.Content != gameservice.FallbackReply {
		t.Fatalf("expected fallback reply, got %q", reply.Content)
	}
}

func TestSendMessageEmptyText(t *testing.T) {
	r, gameSvc := setupRouter(&stubProvider{})
	ctx := context.Background()
	session := gameSvc.CreateSession(ctx)
	if _, err := gameSvc.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("StartRound err: %v", err)
	}

	resp := postMessage(t, r, session.ID, "   ")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSendMessageWithoutRound(t *testing.T) {
	r, gameSvc := setupRouter(&stubProvider{})
	session := gameSvc.CreateSession(context.Background())

	resp := postMessage(t, r, session.ID, "oi")
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestTranscriptGrowsByTwoPerTurn(t *testing.T) {
	r, gameSvc := setupRouter(&stubProvider{})
	ctx := context.Background()
	session := gameSvc.CreateSession(ctx)
	if _, err := gameSvc.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("StartRound err: %v", err)
	}

	postMessage(t, r, session.ID, "Você é uma pessoa real?")

	req := httptest.NewRequest(http.MethodGet, "/session/"+session.ID+"/transcript", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var transcript []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &transcript); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(transcript) != 3 {
		t.Fatalf("expected greeting + one turn, got %d entries", len(transcript))
	}
}

func TestUsedNamesExcludesActivePersona(t *testing.T) {
	r, gameSvc := setupRouter(&stubProvider{})
	ctx := context.Background()
	session := gameSvc.CreateSession(ctx)
	if _, err := gameSvc.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("StartRound err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/session/"+session.ID+"/used", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var body struct {
		UsedNames []string `json:"usedNames"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.UsedNames) != 0 {
		t.Fatalf("active persona must not appear in used names: %v", body.UsedNames)
	}
}
