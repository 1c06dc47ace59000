package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"google.golang.org/genai"

	"github.com/mvcastro/quemsoueu/internal/config"
	"github.com/mvcastro/quemsoueu/internal/model/persona"
)

// ErrEmptyCandidate reports a response the model withheld or returned without
// usable content (safety filters included).
var ErrEmptyCandidate = errors.New("model returned no usable candidate")

// Service wraps the Gemini client for persona generation and round
// conversations. It satisfies the game provider contract.
type Service struct {
	client *genai.Client
	cfg    config.AIConfig
	cache  *generationCache
}

// NewService creates the Gemini-backed text service.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Service{
		client: client,
		cfg:    cfg,
		cache:  newGenerationCache(),
	}, nil
}

// GeneratePersona asks the model for a persona record under the four-field
// schema, instructing it to avoid the provided names. Results are memoized
// per exact exclusion-list value; the cache is an optimization only.
func (s *Service) GeneratePersona(ctx context.Context, exclude []string) (persona.Persona, error) {
	if cached, ok := s.cache.get(exclude); ok {
		return cached, nil
	}

	genCfg := s.generateConfig()
	genCfg.ResponseMIMEType = "application/json"
	genCfg.ResponseSchema = personaSchema()

	res, err := s.client.Models.GenerateContent(ctx, s.cfg.Model, genai.Text(generationPrompt(exclude)), genCfg)
	if err != nil {
		return persona.Persona{}, fmt.Errorf("generate persona: %w", err)
	}

	text, err := candidateText(res)
	if err != nil {
		return persona.Persona{}, fmt.Errorf("generate persona: %w", err)
	}

	var generated persona.Persona
	if err := json.Unmarshal([]byte(text), &generated); err != nil {
		return persona.Persona{}, fmt.Errorf("decode persona payload: %w", err)
	}
	if err := generated.Validate(); err != nil {
		return persona.Persona{}, err
	}

	s.cache.put(exclude, generated)
	log.Printf("[ai] persona generated, %d names excluded", len(exclude))
	return generated, nil
}

func (s *Service) generateConfig() *genai.GenerateContentConfig {
	genCfg := &genai.GenerateContentConfig{}

	if s.cfg.Temperature != nil {
		val := float32(*s.cfg.Temperature)
		genCfg.Temperature = &val
	}
	if s.cfg.TopP != nil {
		val := float32(*s.cfg.TopP)
		genCfg.TopP = &val
	}
	if s.cfg.MaxTokens != nil {
		genCfg.MaxOutputTokens = int32(*s.cfg.MaxTokens)
	}

	return genCfg
}

func personaSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"personagem": {Type: genai.TypeString, Description: "O nome completo da persona."},
			"descricao":  {Type: genai.TypeString, Description: "Um ou mais parágrafos detalhados com informações biográficas, SEM revelar o nome."},
			"estilo":     {Type: genai.TypeString, Description: "Uma descrição sucinta do estilo de comunicação da persona."},
			"saudacao":   {Type: genai.TypeString, Description: "Uma frase curta de saudação que a persona diria ao iniciar o jogo."},
		},
		Required:         []string{"personagem", "descricao", "estilo", "saudacao"},
		PropertyOrdering: []string{"personagem", "descricao", "estilo", "saudacao"},
	}
}

// candidateText extracts the first candidate's text. Responses blocked by
// safety filters arrive with no candidates or empty parts.
func candidateText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCandidate
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}
