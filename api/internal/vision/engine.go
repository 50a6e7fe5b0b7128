package vision

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Request is a single prompt + inline image generation call.
type Request struct {
	Prompt          string
	Image           []byte
	MIME            string
	MaxOutputTokens int
}

type Engine interface {
	Name() string
	GetModel() string
	Generate(ctx context.Context, in Request) (string, error)
}

// Engines holds the configured providers. A nil field means the provider has no credential.
type Engines struct {
	OpenAI  Engine
	Gemini  Engine
	Default string
}

// GetEngine resolves llm_name to an engine; an empty name selects the default provider.
func (e *Engines) GetEngine(llmName string) (Engine, error) {
	name := strings.ToLower(strings.TrimSpace(llmName))
	if name == "" {
		name = e.Default
	}

	var eng Engine
	switch name {
	case "gpt", "openai":
		eng = e.OpenAI
	case "gemini":
		eng = e.Gemini
	default:
		return nil, fmt.Errorf("unknown llm_name %q; use %s", llmName, strings.Join(e.Available(), " or "))
	}
	if eng == nil {
		return nil, fmt.Errorf("llm_name %q is not configured", name)
	}
	return eng, nil
}

// Available lists the names of configured providers.
func (e *Engines) Available() []string {
	var out []string
	if e.OpenAI != nil {
		out = append(out, "gpt")
	}
	if e.Gemini != nil {
		out = append(out, "gemini")
	}
	sort.Strings(out)
	return out
}
