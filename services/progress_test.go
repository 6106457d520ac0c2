package services

import (
	"testing"

	"lifedashboard/model"
)

func TestCalculateProgress(t *testing.T) {
	tasks := func(done ...bool) []model.Task {
		out := make([]model.Task, len(done))
		for i, d := range done {
			out[i] = model.Task{ID: string(rune('a' + i)), Done: d}
		}
		return out
	}

	tests := []struct {
		name  string
		goals []model.Goal
		want  int
	}{
		{"no goals", nil, 0},
		{"goals without tasks", []model.Goal{{ID: "g1"}, {ID: "g2"}}, 0},
		{"none done", []model.Goal{{Tasks: tasks(false, false)}}, 0},
		{"all done", []model.Goal{{Tasks: tasks(true, true)}}, 100},
		{"one of three rounds down", []model.Goal{{Tasks: tasks(true, false, false)}}, 33},
		{"two of three rounds up", []model.Goal{{Tasks: tasks(true, true, false)}}, 67},
		{"counts across goals", []model.Goal{{Tasks: tasks(true)}, {Tasks: tasks(false, false, false)}}, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateProgress(tt.goals); got != tt.want {
				t.Errorf("CalculateProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}
