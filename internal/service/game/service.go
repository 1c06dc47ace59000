package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mvcastro/quemsoueu/internal/model/game"
	"github.com/mvcastro/quemsoueu/internal/model/persona"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoActiveRound   = errors.New("no active round")
	ErrEmptyMessage    = errors.New("message must not be empty")
)

// FallbackReply substitutes the assistant turn when the conversation call
// fails or the model withholds its response. The round keeps going.
const FallbackReply = "Não posso responder a isso no momento. Por favor, tente outra pergunta."

// Generator produces a fresh persona whose name avoids the provided list.
type Generator interface {
	GeneratePersona(ctx context.Context, exclude []string) (persona.Persona, error)
}

// Conversation is the opaque remote chat context for one round. The service
// only exchanges user text for reply text through it; the remote memory is
// never inspected or replayed locally.
type Conversation interface {
	Send(ctx context.Context, text string) (string, error)
}

// StreamingConversation additionally delivers the reply in incremental
// chunks. onDelta is invoked once per chunk; the returned string is the
// concatenated reply.
type StreamingConversation interface {
	Conversation
	SendStream(ctx context.Context, text string, onDelta func(delta string) error) (string, error)
}

// Opener seeds a new conversation context with a hidden system instruction.
type Opener interface {
	OpenConversation(ctx context.Context, systemInstruction string) (Conversation, error)
}

// Provider bundles everything the game needs from the text-generation
// service.
type Provider interface {
	Generator
	Opener
}

// sessionState is the explicit per-session state object. All four structures
// of the game live here; nothing is process-global.
type sessionState struct {
	session  game.Session
	round    int
	active   *persona.Persona
	conv     Conversation
	used     []string
	messages []game.Message
}

// Service hosts the guessing-game sessions: it owns session state and drives
// the NoRound/RoundActive state machine through the provider.
type Service struct {
	provider Provider
	mu       sync.RWMutex
	sessions map[string]*sessionState
}

// NewService bootstraps the in-memory session host.
func NewService(provider Provider) *Service {
	return &Service{
		provider: provider,
		sessions: make(map[string]*sessionState),
	}
}

// CreateSession provisions an anonymous session with no active round.
func (s *Service) CreateSession(_ context.Context) game.Session {
	session := game.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = &sessionState{session: session}
	s.mu.Unlock()

	return session
}

// StartRound asks the generator for a persona outside the session's used
// list, seeds a new conversation context with the hidden instruction and
// resets the transcript to the persona's greeting. On any failure the
// previous round state is left untouched.
func (s *Service) StartRound(ctx context.Context, sessionID string) (game.RoundStart, error) {
	s.mu.RLock()
	state, ok := s.sessions[sessionID]
	var exclude []string
	if ok {
		exclude = append([]string(nil), state.used...)
	}
	s.mu.RUnlock()

	if !ok {
		return game.RoundStart{}, ErrSessionNotFound
	}

	generated, err := s.provider.GeneratePersona(ctx, exclude)
	if err != nil {
		return game.RoundStart{}, fmt.Errorf("start round: %w", err)
	}

	conv, err := s.provider.OpenConversation(ctx, systemInstruction(generated))
	if err != nil {
		return game.RoundStart{}, fmt.Errorf("start round: %w", err)
	}

	greeting := game.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      game.RoleAssistant,
		Content:   generated.Greeting,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	state.active = &generated
	state.conv = conv
	state.used = append(state.used, generated.Name)
	state.round++
	state.messages = []game.Message{greeting}
	round := state.round
	s.mu.Unlock()

	log.Printf("[game] round %d started for session=%s", round, sessionID)
	return game.RoundStart{Round: round, Greeting: greeting}, nil
}

// SendMessage relays one user turn to the active conversation context and
// appends both sides to the transcript. A conversation failure or withheld
// reply is absorbed into the fixed fallback entry; prior entries are never
// removed or altered.
func (s *Service) SendMessage(ctx context.Context, sessionID, text string) (game.Message, error) {
	return s.relayTurn(ctx, sessionID, text, nil)
}

// StreamMessage behaves like SendMessage but forwards reply chunks to
// onDelta when the conversation context supports streaming.
func (s *Service) StreamMessage(ctx context.Context, sessionID, text string, onDelta func(delta string) error) (game.Message, error) {
	return s.relayTurn(ctx, sessionID, text, onDelta)
}

func (s *Service) relayTurn(ctx context.Context, sessionID, text string, onDelta func(delta string) error) (game.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return game.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	state, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return game.Message{}, ErrSessionNotFound
	}
	conv := state.conv
	if conv == nil {
		s.mu.Unlock()
		return game.Message{}, ErrNoActiveRound
	}
	state.messages = append(state.messages, game.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      game.RoleUser,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	})
	s.mu.Unlock()

	reply, err := s.dispatchTurn(ctx, conv, text, onDelta)
	if err != nil || strings.TrimSpace(reply) == "" {
		log.Printf("[game] conversation failed for session=%s: %v", sessionID, err)
		reply = FallbackReply
	}

	assistant := game.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      game.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	state.messages = append(state.messages, assistant)
	s.mu.Unlock()

	return assistant, nil
}

func (s *Service) dispatchTurn(ctx context.Context, conv Conversation, text string, onDelta func(delta string) error) (string, error) {
	if onDelta != nil {
		if streaming, ok := conv.(StreamingConversation); ok {
			return streaming.SendStream(ctx, text, onDelta)
		}
	}
	return conv.Send(ctx, text)
}

// Transcript returns a copy of the session's message log.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]game.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]game.Message, len(state.messages))
	copy(copied, state.messages)
	return copied, nil
}

// UsedNames lists previously played personas, excluding the currently active
// one so the side panel never hints at the running round.
func (s *Service) UsedNames(_ context.Context, sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return previousNames(state), nil
}

// Summary reports the player-visible session view.
func (s *Service) Summary(_ context.Context, sessionID string) (game.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return game.Summary{}, ErrSessionNotFound
	}

	return game.Summary{
		ID:          state.session.ID,
		Round:       state.round,
		RoundActive: state.active != nil,
		UsedNames:   previousNames(state),
		CreatedAt:   state.session.CreatedAt,
	}, nil
}

// previousNames assumes the caller holds at least a read lock. While a round
// is active its persona is always the last used entry.
func previousNames(state *sessionState) []string {
	used := state.used
	if state.active != nil && len(used) > 0 {
		used = used[:len(used)-1]
	}
	return append([]string(nil), used...)
}
