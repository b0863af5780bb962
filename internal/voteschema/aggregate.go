package voteschema

import (
	"math"
)

// Percentages computes each option's share of total as a whole percentage,
// rounded half-up per option independently. The shares are what the result
// bars display; because each bar rounds on its own, they are not guaranteed
// to sum to exactly 100. A zero total yields zero for every option.
func Percentages(counts map[string]int64, total int64) map[string]int {
	out := make(map[string]int, len(counts))
	for key, count := range counts {
		if total <= 0 {
			out[key] = 0
			continue
		}
		out[key] = int(math.Round(float64(count) / float64(total) * 100))
	}
	return out
}
