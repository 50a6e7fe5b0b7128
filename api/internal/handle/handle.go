package handle

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"reuseai/api/internal/reuse"
)

// Analyzer is satisfied by *reuse.Service.
type Analyzer interface {
	Analyze(ctx context.Context, in reuse.Input) (reuse.Result, error)
}

type Handle struct {
	svc Analyzer
	// frontendFile overrides the embedded page when set.
	frontendFile string
	page         []byte
}

func New(svc Analyzer, page []byte, frontendFile string) *Handle {
	return &Handle{
		svc:          svc,
		page:         page,
		frontendFile: frontendFile,
	}
}

func writeError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

func (h *Handle) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handle) Home(c *gin.Context) {
	if h.frontendFile != "" {
		c.File(h.frontendFile)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}
