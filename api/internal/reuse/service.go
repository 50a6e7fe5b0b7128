package reuse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"reuseai/api/internal/logging"
	"reuseai/api/internal/store"
	"reuseai/api/internal/util"
	"reuseai/api/internal/vision"
)

type Input struct {
	Image   []byte
	MIME    string
	LLMName string
}

type Result struct {
	Ideas  []string
	Engine string
	Model  string
	Cached bool
}

type Options struct {
	MaxOutputTokens int
	RequestTimeout  time.Duration
	// MaxImageSide > 0 downscales larger uploads before they are encoded.
	MaxImageSide int
}

type Service struct {
	engines  *vision.Engines
	cache    store.IdeasCache
	throttle *Throttle
	opts     Options
}

func NewService(engines *vision.Engines, cache store.IdeasCache, throttle *Throttle, opts Options) *Service {
	if cache == nil {
		cache = store.Noop{}
	}
	return &Service{
		engines:  engines,
		cache:    cache,
		throttle: throttle,
		opts:     opts,
	}
}

// Engines exposes the registry the service resolves llm_name against.
func (s *Service) Engines() *vision.Engines { return s.engines }

// Analyze makes at most one provider call per request and returns up to MaxIdeas ideas.
// Returned errors are *Error values; use KindOf to classify them.
func (s *Service) Analyze(ctx context.Context, in Input) (Result, error) {
	if len(in.Image) == 0 {
		return Result{}, ErrNoImage
	}

	eng, err := s.engines.GetEngine(in.LLMName)
	if err != nil {
		return Result{}, &Error{Kind: KindInvalidInput, Message: err.Error(), Err: err}
	}

	log := logging.FromContext(ctx).WithFields(logrus.Fields{
		"engine": eng.Name(),
		"model":  eng.GetModel(),
	})

	key := store.Key{
		ImageHash: util.SHA256Hex(in.Image),
		Engine:    eng.Name(),
		Model:     eng.GetModel(),
	}
	ideas, err := s.cache.Find(ctx, key)
	switch {
	case err == nil:
		log.WithField("ideas", len(ideas)).Info("ideas served from cache")
		return Result{Ideas: ideas, Engine: eng.Name(), Model: eng.GetModel(), Cached: true}, nil
	case !errors.Is(err, store.ErrNotFound):
		log.WithError(err).Warn("ideas cache lookup failed")
	}

	img, mime := in.Image, util.PickMIME(in.MIME, in.Image)
	if s.opts.MaxImageSide > 0 {
		scaled, scaledMIME, changed, err := util.Downscale(in.Image, s.opts.MaxImageSide)
		switch {
		case err != nil:
			log.WithError(err).Warn("downscale skipped, sending original image")
		case changed:
			log.WithFields(logrus.Fields{"from_bytes": len(in.Image), "to_bytes": len(scaled)}).Debug("image downscaled")
			img, mime = scaled, scaledMIME
		}
	}

	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	if err := s.throttle.Wait(ctx); err != nil {
		err = fmt.Errorf("waiting for provider slot: %w", err)
		return Result{}, &Error{Kind: KindInternal, Message: err.Error(), Err: err}
	}

	started := time.Now()
	text, err := eng.Generate(ctx, vision.Request{
		Prompt:          Prompt,
		Image:           img,
		MIME:            mime,
		MaxOutputTokens: s.opts.MaxOutputTokens,
	})
	if err != nil {
		return Result{}, providerError(err)
	}

	ideas = ParseIdeas(text)
	log.WithFields(logrus.Fields{
		"ideas":    len(ideas),
		"duration": time.Since(started).String(),
	}).Info("provider answered")

	if len(ideas) > 0 {
		if err := s.cache.Save(ctx, key, ideas); err != nil {
			log.WithError(err).Warn("ideas cache save failed")
		}
	}

	return Result{Ideas: ideas, Engine: eng.Name(), Model: eng.GetModel()}, nil
}
