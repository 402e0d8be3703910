package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/justsurfingit/hunt-assistant/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// Default model per backend, overridable with HUNT_AI_MODEL.
var defaultModels = map[string]string{
	config.ProviderGroq:   "meta-llama/llama-4-scout-17b-16e-instruct",
	config.ProviderOpenAI: "gpt-3.5-turbo",
	config.ProviderGemini: "gemini-2.5-flash",
}

// Generator produces the AI-written parts of a journey.
type Generator interface {
	GenerateInsights(ctx context.Context, resumeText, jobDescription string) (string, error)
	GenerateCoverLetter(ctx context.Context, resumeText, jobDescription string) (string, error)
}

// LLMService is the Generator backed by a langchaingo chat model.
type LLMService struct {
	Client   llms.Model
	Provider string
	Model    string
}

// NewLLMService builds the client for the configured provider. The choice is
// made once; the returned service never switches backends.
func NewLLMService(ctx context.Context, cfg config.AIConfig) (*LLMService, error) {
	model := cfg.Model
	if model == "" {
		model = defaultModels[cfg.Provider]
	}
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("missing API key for provider %q", cfg.Provider)
	}

	var (
		client llms.Model
		err    error
	)
	switch cfg.Provider {
	case config.ProviderGroq:
		client, err = openai.New(
			openai.WithToken(cfg.GroqAPIKey),
			openai.WithBaseURL(groqBaseURL),
			openai.WithModel(model),
		)
	case config.ProviderOpenAI:
		client, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(model),
		)
	case config.ProviderGemini:
		client, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(model),
		)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}

	return NewLLMServiceWithModel(client, cfg.Provider, model), nil
}

// NewLLMServiceWithModel wraps an existing model.
func NewLLMServiceWithModel(client llms.Model, provider, model string) *LLMService {
	return &LLMService{Client: client, Provider: provider, Model: model}
}

func (s *LLMService) GenerateInsights(ctx context.Context, resumeText, jobDescription string) (string, error) {
	return s.complete(ctx, OpInsights, insightsSystemPrompt, buildUserPrompt(resumeText, jobDescription))
}

func (s *LLMService) GenerateCoverLetter(ctx context.Context, resumeText, jobDescription string) (string, error) {
	return s.complete(ctx, OpCoverLetter, coverLetterSystemPrompt, buildUserPrompt(resumeText, jobDescription))
}

// complete sends one system+user exchange and returns the first choice as is.
func (s *LLMService) complete(ctx context.Context, op, system, user string) (string, error) {
	resp, err := s.Client.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	})
	if err != nil {
		return "", &GenerationError{Operation: op, Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", &GenerationError{Operation: op, Err: errors.New("empty response from model")}
	}
	return resp.Choices[0].Content, nil
}
