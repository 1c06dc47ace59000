package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mvcastro/quemsoueu/internal/model/persona"
	gameservice "github.com/mvcastro/quemsoueu/internal/service/game"
)

type stubConversation struct{}

func (stubConversation) Send(_ context.Context, _ string) (string, error) {
	return "Uma resposta qualquer.", nil
}

type stubProvider struct {
	fail bool
}

func (p *stubProvider) GeneratePersona(_ context.Context, _ []string) (persona.Persona, error) {
	if p.fail {
		return persona.Persona{}, errors.New("remote unavailable")
	}
	return persona.Persona{
		Name:      "Dom Pedro II",
		Biography: "Monarca brasileiro.",
		Style:     "Formal",
		Greeting:  "Olá, viajante.",
	}, nil
}

func (p *stubProvider) OpenConversation(_ context.Context, _ string) (gameservice.Conversation, error) {
	return stubConversation{}, nil
}

func setupRouter(provider *stubProvider) (*chi.Mux, *gameservice.Service) {
	gameSvc := gameservice.NewService(provider)
	handler := New(gameSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, gameSvc
}

func TestCreateSession(t *testing.T) {
	r, _ := setupRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ID == "" {
		t.Fatal("expected a session id")
	}
}

func TestStartRoundReturnsGreeting(t *testing.T) {
	r, gameSvc := setupRouter(&stubProvider{})
	session := gameSvc.CreateSession(context.Background())

	req := httptest.NewRequest(http.MethodPost, "/session/"+session.ID+"/round", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var body struct {
		Round    int `json:"round"`
		Greeting struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"greeting"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Round != 1 {
		t.Fatalf("expected round 1, got %d", body.Round)
	}
	if body.Greeting.Content != "Olá, viajante." {
		t.Fatalf("unexpected greeting: %q", body.Greeting.Content)
	}
}

func TestStartRoundGenerationFailure(t *testing.T) {
	r, gameSvc := setupRouter(&stubProvider{fail: true})
	session := gameSvc.CreateSession(context.Background())

	req := httptest.NewRequest(http.MethodPost, "/session/"+session.ID+"/round", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}

	summary, err := gameSvc.Summary(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("Summary err: %v", err)
	}
	if summary.Round != 0 || summary.RoundActive {
		t.Fatalf("failed start must not advance state: %+v", summary)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	r, _ := setupRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/session/missing", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestGetSessionNeverExposesSecret(t *testing.T) {
	r, gameSvc := setupRouter(&stubProvider{})
	ctx := context.Background()
	session := gameSvc.CreateSession(ctx)
	if _, err := gameSvc.StartRound(ctx, session.ID); err != nil {
		t.Fatalf("StartRound err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/session/"+session.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if strings.Contains(body, "Dom Pedro II") || strings.Contains(body, "Monarca") {
		t.Fatalf("summary leaked the active persona: %s", body)
	}
}
