package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("ideas cache: not found")

// Key identifies one provider answer for one image.
type Key struct {
	ImageHash string
	Engine    string
	Model     string
}

func (k Key) String() string {
	return "ideas:" + k.ImageHash + ":" + k.Engine + ":" + k.Model
}

type IdeasCache interface {
	// Find returns ErrNotFound on a miss or an expired entry.
	Find(ctx context.Context, key Key) ([]string, error)
	Save(ctx context.Context, key Key, ideas []string) error
}

// Noop is used when IDEAS_CACHE=none.
type Noop struct{}

func (Noop) Find(context.Context, Key) ([]string, error) { return nil, ErrNotFound }
func (Noop) Save(context.Context, Key, []string) error   { return nil }
