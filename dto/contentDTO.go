package dto

import "lifedashboard/services"

type GoalRequest struct {
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
}

func (r GoalRequest) Input() services.GoalInput {
	return services.GoalInput{Title: r.Title, Deadline: r.Deadline}
}

type TaskRequest struct {
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
	Assignee string `json:"assignee"`
}

func (r TaskRequest) Input() services.TaskInput {
	return services.TaskInput{Title: r.Title, Deadline: r.Deadline, Assignee: r.Assignee}
}

// ToggleTaskRequest is optional; an empty completedAt means today.
type ToggleTaskRequest struct {
	CompletedAt string `json:"completedAt"`
}

type IssueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Assignee    string `json:"assignee"`
	Deadline    string `json:"deadline"`
	RelatedGoal string `json:"relatedGoal"`
}

func (r IssueRequest) Input() services.IssueInput {
	return services.IssueInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Assignee:    r.Assignee,
		Deadline:    r.Deadline,
		RelatedGoal: r.RelatedGoal,
	}
}

type RoutineRequest struct {
	Title              string  `json:"title"`
	TargetHoursPerWeek float64 `json:"targetHoursPerWeek"`
	Memo               string  `json:"memo"`
}

func (r RoutineRequest) Input() services.RoutineInput {
	return services.RoutineInput{Title: r.Title, TargetHoursPerWeek: r.TargetHoursPerWeek, Memo: r.Memo}
}
