package reuse

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	provider := providerError(errors.New("boom"))

	assert.Equal(t, KindMissingInput, KindOf(ErrNoImage))
	assert.Equal(t, KindProvider, KindOf(provider))
	assert.Equal(t, KindProvider, KindOf(fmt.Errorf("wrapped: %w", provider)))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, "boom", provider.Error())
	assert.EqualError(t, errors.Unwrap(provider), "boom")
}

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind     Kind
		name     string
		expected int
	}{
		{kind: KindMissingInput, name: "missing_input", expected: http.StatusBadRequest},
		{kind: KindInvalidInput, name: "invalid_input", expected: http.StatusBadRequest},
		{kind: KindProvider, name: "provider_failure", expected: http.StatusInternalServerError},
		{kind: KindInternal, name: "internal", expected: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.expected, tt.kind.HTTPStatus())
		})
	}
}
