// Package verdict buckets analysis text into authentic, fake or neutral.
package verdict

import "strings"

// Verdict is the presentational outcome of an analysis
type Verdict int

const (
	Neutral Verdict = iota
	Authentic
	Fake
)

var (
	authenticWords = []string{"real", "authentic", "genuine", "original"}
	fakeWords      = []string{"fake", "deepfake", "manipulated", "synthetic", "generated", "artificial"}
)

// Classify inspects text case-insensitively. Fake wins when both buckets match.
func Classify(text string) Verdict {
	lower := strings.ToLower(text)

	authentic := containsAny(lower, authenticWords) ||
		(strings.Contains(lower, "confidence") && strings.Contains(lower, "real"))
	fake := containsAny(lower, fakeWords)

	switch {
	case fake:
		return Fake
	case authentic:
		return Authentic
	default:
		return Neutral
	}
}

// Class returns the style class for the result card
func (v Verdict) Class() string {
	switch v {
	case Authentic:
		return "authentic"
	case Fake:
		return "fake"
	default:
		return "neutral"
	}
}

func (v Verdict) String() string {
	return v.Class()
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
