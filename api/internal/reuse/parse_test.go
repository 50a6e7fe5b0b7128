package reuse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIdeas(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "three numbered lines",
			text:     "1. Reuse as planter\n2. Turn into storage\n3. Donate",
			expected: []string{"Reuse as planter", "Turn into storage", "Donate"},
		},
		{
			name:     "fewer than three items are not padded",
			text:     "1. Reuse as planter\n2. Turn into storage",
			expected: []string{"Reuse as planter", "Turn into storage"},
		},
		{
			name:     "extra items are cut",
			text:     "1. A\n2. B\n3. C\n4. D\n5. E",
			expected: []string{"A", "B", "C"},
		},
		{
			name:     "preamble counts as a fragment",
			text:     "Sure! 1. Lamp 2. Shelf 3. Toy",
			expected: []string{"Sure!", "Lamp", "Shelf"},
		},
		{
			name:     "no space after marker and multi-digit numbers",
			text:     "10.Bird feeder\n11.   Pen holder  ",
			expected: []string{"Bird feeder", "Pen holder"},
		},
		{
			name:     "unnumbered text is a single idea",
			text:     "  Use it as a doorstop  ",
			expected: []string{"Use it as a doorstop"},
		},
		{
			name:     "empty text",
			text:     "",
			expected: []string{},
		},
		{
			name:     "only markers",
			text:     "1. 2. 3.",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIdeas(tt.text)
			assert.NotNil(t, got)
			assert.Equal(t, tt.expected, got)
			assert.LessOrEqual(t, len(got), MaxIdeas)
		})
	}
}

func TestParseIdeasIdempotent(t *testing.T) {
	first := ParseIdeas("1. Reuse as planter\n2. Turn into storage\n3. Donate")

	for _, idea := range first {
		assert.Equal(t, []string{idea}, ParseIdeas(idea))
	}
	assert.Equal(t, first, ParseIdeas(strings.Join(first, "\n1. ")))
}

func TestPromptAsksForNumberedList(t *testing.T) {
	assert.Contains(t, Prompt, "exactly 3 short reuse ideas")
	assert.Contains(t, Prompt, "1. ...\n2. ...\n3. ...")
}
