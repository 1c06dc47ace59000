package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	gameservice "github.com/mvcastro/quemsoueu/internal/service/game"
)

// Conversation wraps one remote Gemini chat context. The round's hidden
// instruction lives server-side with Google; locally this is only a handle.
type Conversation struct {
	chat *genai.Chat
}

// OpenConversation seeds a fresh chat context with the round's system
// instruction. The previous context, if any, is simply abandoned.
func (s *Service) OpenConversation(ctx context.Context, systemInstruction string) (gameservice.Conversation, error) {
	genCfg := s.generateConfig()
	genCfg.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)

	chat, err := s.client.Chats.Create(ctx, s.cfg.Model, genCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("open conversation: %w", err)
	}

	return &Conversation{chat: chat}, nil
}

// Send forwards one user turn and returns the model's reply text.
func (c *Conversation) Send(ctx context.Context, text string) (string, error) {
	res, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("send turn: %w", err)
	}

	reply, err := candidateText(res)
	if err != nil {
		return "", err
	}
	return reply, nil
}

// SendStream forwards one user turn and delivers the reply incrementally,
// returning the concatenated text once the stream ends.
func (c *Conversation) SendStream(ctx context.Context, text string, onDelta func(delta string) error) (string, error) {
	var full strings.Builder

	for res, err := range c.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
		if err != nil {
			return "", fmt.Errorf("stream turn: %w", err)
		}

		chunk, chunkErr := candidateText(res)
		if chunkErr != nil || chunk == "" {
			continue
		}

		full.WriteString(chunk)
		if onDelta != nil {
			if err := onDelta(chunk); err != nil {
				return "", err
			}
		}
	}

	if full.Len() == 0 {
		return "", ErrEmptyCandidate
	}
	return full.String(), nil
}
