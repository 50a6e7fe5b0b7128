package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"reuseai/api/internal/util"
	"reuseai/api/internal/vision"
)

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Generate sends the prompt and the inline image as one user turn and returns the first text part.
func (e *Engine) Generate(ctx context.Context, in vision.Request) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	if len(in.Image) == 0 {
		return "", errors.New("gemini: empty image")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = generationConfig(in.MaxOutputTokens)

	resp, err := m.GenerateContent(ctx, requestParts(in)...)
	if err != nil {
		return "", err
	}
	// blocked or empty candidates yield no ideas rather than an error
	return strings.TrimSpace(firstText(resp)), nil
}

// generationConfig caps the answer length; maxTokens <= 0 leaves the model default.
func generationConfig(maxTokens int) genai.GenerationConfig {
	var gc genai.GenerationConfig
	if maxTokens > 0 {
		gc.MaxOutputTokens = ptrInt32(int32(maxTokens))
	}
	return gc
}

// requestParts is the single user turn: the prompt first, then the inline image.
func requestParts(in vision.Request) []genai.Part {
	return []genai.Part{
		genai.Text(in.Prompt),
		&genai.Blob{MIMEType: util.PickMIME(in.MIME, in.Image), Data: in.Image},
	}
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrInt32(v int32) *int32 { return &v }
