package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/justsurfingit/hunt-assistant/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// scriptedModel is an llms.Model that records prompts and replies from a script.
type scriptedModel struct {
	reply    string
	err      error
	empty    bool
	messages [][]llms.MessageContent
}

func (m *scriptedModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = append(m.messages, messages)
	if m.err != nil {
		return nil, m.err
	}
	if m.empty {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func textOf(msg llms.MessageContent) string {
	var b strings.Builder
	for _, p := range msg.Parts {
		if tc, ok := p.(llms.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func TestLLMServicePrompts(t *testing.T) {
	tests := []struct {
		name       string
		call       func(*LLMService) (string, error)
		directives []string
	}{
		{
			name: "insights",
			call: func(s *LLMService) (string, error) {
				return s.GenerateInsights(context.Background(), "Go developer", "Looking for a Go developer")
			},
			directives: []string{"first person", `"you"`, "concise", "markdown"},
		},
		{
			name: "cover letter",
			call: func(s *LLMService) (string, error) {
				return s.GenerateCoverLetter(context.Background(), "Go developer", "Looking for a Go developer")
			},
			directives: []string{"Dear Hiring Manager,", "placeholders", "formal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &scriptedModel{reply: "## Result\n\n**raw** output"}
			svc := NewLLMServiceWithModel(model, config.ProviderGroq, "test-model")

			got, err := tt.call(svc)
			require.NoError(t, err)
			assert.Equal(t, "## Result\n\n**raw** output", got, "output is returned verbatim")

			require.Len(t, model.messages, 1)
			msgs := model.messages[0]
			require.Len(t, msgs, 2)
			assert.Equal(t, schema.ChatMessageTypeSystem, msgs[0].Role)
			assert.Equal(t, schema.ChatMessageTypeHuman, msgs[1].Role)
			for _, d := range tt.directives {
				assert.Contains(t, textOf(msgs[0]), d)
			}
			assert.Equal(t, "Resume:\nGo developer\n\nJob Description:\nLooking for a Go developer", textOf(msgs[1]))
		})
	}
}

func TestLLMServiceFailures(t *testing.T) {
	tests := []struct {
		name  string
		model *scriptedModel
	}{
		{name: "backend error", model: &scriptedModel{err: errors.New("connection reset")}},
		{name: "no choices", model: &scriptedModel{empty: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewLLMServiceWithModel(tt.model, config.ProviderOpenAI, "test-model")

			_, err := svc.GenerateCoverLetter(context.Background(), "r", "jd")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrGenerationFailed)

			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, OpCoverLetter, genErr.Operation)
			assert.Len(t, tt.model.messages, 1, "no retries")
		})
	}
}

func TestNewLLMServiceRequiresKey(t *testing.T) {
	_, err := NewLLMService(context.Background(), config.AIConfig{Provider: config.ProviderGroq})
	assert.Error(t, err)
}

func TestNewLLMServiceSelectsBackend(t *testing.T) {
	svc, err := NewLLMService(context.Background(), config.AIConfig{
		Provider:     config.ProviderOpenAI,
		OpenAIAPIKey: "sk-test",
	})
	require.NoError(t, err)
	assert.Equal(t, config.ProviderOpenAI, svc.Provider)
	assert.Equal(t, "gpt-3.5-turbo", svc.Model)

	svc, err = NewLLMService(context.Background(), config.AIConfig{
		Provider:   config.ProviderGroq,
		Model:      "llama-3.3-70b-versatile",
		GroqAPIKey: "gsk-test",
	})
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b-versatile", svc.Model)
}
