package services

import (
	"testing"

	"lifedashboard/model"
)

func TestBuildCalendar(t *testing.T) {
	projects := []model.Project{
		{
			ID:       "p1",
			Title:    "Move",
			Deadline: "2024-04-30",
			Content: model.Content{Goals: []model.Goal{{
				ID:       "g1",
				Deadline: "2024-04-01",
				Tasks: []model.Task{
					{ID: "t1", Title: "Boxes", Deadline: "2024-04-30", Assignee: "u2"},
					{ID: "t2", Title: "Keys", Deadline: model.NoDeadline},
					{ID: "t3", Title: "Legacy", Deadline: "期日なし"},
				},
			}}},
		},
		{
			ID: "p2",
			Content: model.Content{Goals: []model.Goal{{
				Tasks: []model.Task{{ID: "t4", Title: "Call", Deadline: "2024-04-10", Done: true}},
			}}},
		},
	}

	days := BuildCalendar(projects)
	if len(days) != 2 {
		t.Fatalf("days = %v", days)
	}
	if _, ok := days["2024-04-01"]; ok {
		t.Error("goal deadlines must not appear")
	}

	end := days["2024-04-30"]
	if len(end) != 2 || end[0].ID != "project-p1" || end[1].ID != "task-t1" {
		t.Fatalf("2024-04-30 = %+v", end)
	}
	if end[1].Type != model.CalendarTask || end[1].ProjectTitle != "Move" || end[1].Assignee != "u2" {
		t.Errorf("task item = %+v", end[1])
	}
	if call := days["2024-04-10"]; len(call) != 1 || !call[0].Done {
		t.Errorf("2024-04-10 = %+v", call)
	}
}
