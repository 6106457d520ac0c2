package services

import (
	"math"

	"lifedashboard/model"
)

// CalculateProgress returns the share of done tasks across all goals as a
// rounded percentage, 0 when there are no tasks.
func CalculateProgress(goals []model.Goal) int {
	total, done := 0, 0
	for _, g := range goals {
		for _, t := range g.Tasks {
			total++
			if t.Done {
				done++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
