package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct{ name string }

func (s stubEngine) Name() string     { return s.name }
func (s stubEngine) GetModel() string { return s.name + "-model" }
func (s stubEngine) Generate(context.Context, Request) (string, error) {
	return "", nil
}

func TestGetEngine(t *testing.T) {
	engs := &Engines{
		OpenAI:  stubEngine{name: "gpt"},
		Default: "openai",
	}

	tests := []struct {
		name     string
		llmName  string
		expected string
		errPart  string
	}{
		{name: "default", llmName: "", expected: "gpt"},
		{name: "gpt alias", llmName: "gpt", expected: "gpt"},
		{name: "case and spaces", llmName: "  OpenAI ", expected: "gpt"},
		{name: "not configured", llmName: "gemini", errPart: "not configured"},
		{name: "unknown", llmName: "llama", errPart: "unknown llm_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := engs.GetEngine(tt.llmName)
			if tt.errPart != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errPart)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, eng.Name())
		})
	}
}

func TestAvailable(t *testing.T) {
	engs := &Engines{OpenAI: stubEngine{name: "gpt"}, Gemini: stubEngine{name: "gemini"}}
	assert.Equal(t, []string{"gemini", "gpt"}, engs.Available())
	assert.Empty(t, (&Engines{}).Available())
}
