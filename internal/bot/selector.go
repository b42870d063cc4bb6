package bot

import (
	"math/rand/v2"
	"strings"
)

// Source yields a uniformly distributed int in [0, n). Implementations must
// be safe for concurrent use.
type Source interface {
	IntN(n int) int
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(n int) int

// IntN calls f(n).
func (f SourceFunc) IntN(n int) int {
	return f(n)
}

// NewSource returns the process-wide, randomly seeded generator from math/rand/v2.
func NewSource() Source {
	return SourceFunc(rand.IntN)
}

// Selector picks a bot reply for an inbound message.
type Selector struct {
	src Source
}

// NewSelector returns a Selector drawing from src. A nil src uses NewSource.
func NewSelector(src Source) *Selector {
	if src == nil {
		src = NewSource()
	}
	return &Selector{src: src}
}

// Classify returns the category of the first keyword rule that matches
// message, case-insensitively, or Default when none does.
func (s *Selector) Classify(message string) Category {
	lower := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return Default
}

// Reply picks one candidate of c uniformly at random. Unknown categories
// fall back to Default.
func (s *Selector) Reply(c Category) string {
	candidates, ok := catalog[c]
	if !ok {
		candidates = catalog[Default]
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	return candidates[s.src.IntN(len(candidates))]
}

// Select classifies message and returns a reply from the matched category.
func (s *Selector) Select(message string) string {
	return s.Reply(s.Classify(message))
}
