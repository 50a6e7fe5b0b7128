package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestRetryDelayFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected time.Duration
	}{
		{name: "nil", err: nil, expected: 0},
		{name: "retry after", err: errors.New("Too Many Requests: retry after 7"), expected: 7 * time.Second},
		{name: "429 without hint", err: errors.New("Too Many Requests"), expected: 3 * time.Second},
		{name: "network timeout", err: timeoutErr{}, expected: 2 * time.Second},
		{name: "other", err: errors.New("bad gateway"), expected: time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, retryDelayFromError(tt.err))
		})
	}
}

func TestClampDelay(t *testing.T) {
	assert.Equal(t, time.Second, clampDelay(0, time.Second, 15*time.Second))
	assert.Equal(t, 15*time.Second, clampDelay(time.Minute, time.Second, 15*time.Second))
	assert.Equal(t, 5*time.Second, clampDelay(5*time.Second, time.Second, 15*time.Second))
}

func TestSleepReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleep(ctx, time.Hour)
	assert.Less(t, time.Since(start), time.Second)
}
