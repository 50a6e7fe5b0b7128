package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reuseai/api/internal/reuse"
)

type fakeAnalyzer struct {
	last reuse.Input
	res  reuse.Result
	err  error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, in reuse.Input) (reuse.Result, error) {
	f.last = in
	return f.res, f.err
}

func TestFormatIdeas(t *testing.T) {
	tests := []struct {
		name     string
		ideas    []string
		expected string
	}{
		{name: "empty", ideas: nil, expected: "I could not come up with ideas for this photo. Try another angle."},
		{name: "numbered", ideas: []string{"Planter", "Pen holder"}, expected: "♻️ Reuse ideas:\n\n1. Planter\n2. Pen holder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatIdeas(tt.ideas))
		})
	}
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "Please send a photo.", errorText(reuse.ErrNoImage))
	assert.Equal(t, "Error: openai 500: boom", errorText(errors.New("openai 500: boom")))
}

func TestHandleCommand(t *testing.T) {
	r := &Router{Engines: []string{"gemini", "gpt"}}

	assert.Equal(t, helpText, r.handleCommand(1, "start", ""))
	assert.Equal(t, "✅ OK", r.handleCommand(1, "health", ""))
	assert.True(t, strings.HasPrefix(r.handleCommand(1, "nope", ""), "Unknown command."))

	assert.Equal(t, "Current engine: default\nUsage: /engine {gemini|gpt}", r.handleCommand(1, "engine", ""))
	assert.Equal(t, "✅ Engine: gpt", r.handleCommand(1, "engine", "OpenAI"))
	assert.Equal(t, "gpt", r.engineFor(1))
	assert.Equal(t, "", r.engineFor(2))

	assert.Equal(t, `Unknown engine "llama". Available: gemini | gpt`, r.handleCommand(1, "engine", "llama"))
	assert.Equal(t, "gpt", r.engineFor(1))
}

func TestAnalyzeUsesChatEngine(t *testing.T) {
	fa := &fakeAnalyzer{res: reuse.Result{Ideas: []string{"Vase"}}}
	r := &Router{Service: fa, Engines: []string{"gemini", "gpt"}}
	r.switchEngine(42, "gemini")

	r.analyze(context.Background(), 42, []byte{0xFF, 0xD8}, "image/jpeg")
	assert.Equal(t, "gemini", fa.last.LLMName)
	assert.Equal(t, "image/jpeg", fa.last.MIME)
	assert.Equal(t, []byte{0xFF, 0xD8}, fa.last.Image)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/missing" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	data, err := download(context.Background(), srv.URL+"/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)

	_, err = download(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
