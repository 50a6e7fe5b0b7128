package handle

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"reuseai/api/internal/logging"
	"reuseai/api/internal/reuse"
)

type analyzeResponse struct {
	Ideas []string `json:"ideas"`
}

// Analyze handles POST /analyze with a multipart "image" field and an optional "llm_name".
func (h *Handle) Analyze(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.FromContext(ctx)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, http.StatusRequestEntityTooLarge, "Image too large")
			return
		}
		if !errors.Is(err, http.ErrMissingFile) {
			log.WithError(err).Debug("multipart form rejected")
		}
		writeError(c, http.StatusBadRequest, reuse.MsgNoImage)
		return
	}

	img, err := readUpload(fh)
	if err != nil {
		log.WithError(err).Error("read upload")
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}

	res, err := h.svc.Analyze(ctx, reuse.Input{
		Image:   img,
		MIME:    fh.Header.Get("Content-Type"),
		LLMName: c.PostForm("llm_name"),
	})
	if err != nil {
		kind := reuse.KindOf(err)
		entry := log.WithError(err).WithField("kind", kind.String())
		if kind == reuse.KindProvider || kind == reuse.KindInternal {
			entry.WithField("detail", unwrapChain(err)).Error("analyze failed")
		} else {
			entry.Info("analyze rejected")
		}
		writeError(c, kind.HTTPStatus(), err.Error())
		return
	}

	log.WithFields(logrus.Fields{
		"ideas":  len(res.Ideas),
		"cached": res.Cached,
		"bytes":  len(img),
	}).Info("analyze ok")

	ideas := res.Ideas
	if ideas == nil {
		ideas = []string{}
	}
	c.JSON(http.StatusOK, analyzeResponse{Ideas: ideas})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// unwrapChain renders every layer of a wrapped error for server-side diagnostics.
func unwrapChain(err error) []string {
	var chain []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, e.Error())
	}
	return chain
}
