package reuse

import (
	"regexp"
	"strings"
)

var reListMarker = regexp.MustCompile(`\d+\.\s*`)

// ParseIdeas splits free text on "<digits>." markers, drops empty fragments,
// trims the rest and keeps at most MaxIdeas. The result is never nil.
func ParseIdeas(text string) []string {
	ideas := make([]string, 0, MaxIdeas)
	for _, frag := range reListMarker.Split(text, -1) {
		s := strings.TrimSpace(frag)
		if s == "" {
			continue
		}
		ideas = append(ideas, s)
		if len(ideas) == MaxIdeas {
			break
		}
	}
	return ideas
}
