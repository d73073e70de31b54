package content

import (
	"fmt"
	"math"
	"strings"
)

// WordsPerMinute is the reading speed assumed for web content
const WordsPerMinute = 180

// WordCount counts whitespace-separated tokens
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// EstimateReadTime maps body text to a display duration such as "< 1 min" or "3 min".
// The result depends only on the word count.
func EstimateReadTime(text string) string {
	minutes := float64(WordCount(text)) / WordsPerMinute

	switch {
	case minutes < 0.5:
		return "< 1 min"
	case minutes <= 1.5:
		return "1 min"
	default:
		return fmt.Sprintf("%d min", int(math.Round(minutes)))
	}
}
