package httpserver

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reuseai/api/internal/handle"
	"reuseai/api/internal/reuse"
)

type staticAnalyzer struct {
	ideas []string
	calls int
}

func (s *staticAnalyzer) Analyze(context.Context, reuse.Input) (reuse.Result, error) {
	s.calls++
	return reuse.Result{Ideas: s.ideas}, nil
}

func newRouter(a handle.Analyzer, opts RouterOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return InitRoutes(handle.New(a, AppHTML, ""), opts)
}

func TestEmbeddedPage(t *testing.T) {
	r := newRouter(&staticAnalyzer{}, RouterOptions{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `fetch("/analyze"`)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name         string
		origin       string
		method       string
		path         string
		expectOrigin string
		expectStatus int
	}{
		{name: "preflight default origin", origin: "", method: http.MethodOptions, path: "/analyze", expectOrigin: "*", expectStatus: http.StatusNoContent},
		{name: "configured origin", origin: "https://reuse.example", method: http.MethodGet, path: "/healthz", expectOrigin: "https://reuse.example", expectStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&staticAnalyzer{}, RouterOptions{AllowOrigin: tt.origin})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.expectStatus, w.Code)
			assert.Equal(t, tt.expectOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newRouter(&staticAnalyzer{}, RouterOptions{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "given-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Header().Get(requestIDHeader))
}

func TestUploadLimit(t *testing.T) {
	a := &staticAnalyzer{ideas: []string{"Lamp"}}
	r := newRouter(a, RouterOptions{MaxUploadBytes: 1024})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "big.jpg")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0xFF}, 3<<20))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":"Image too large"}`, w.Body.String())
	assert.Zero(t, a.calls)
}
