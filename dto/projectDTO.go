package dto

import (
	"lifedashboard/model"
	"lifedashboard/services"
)

type ProjectRequest struct {
	Title                 string  `json:"title"`
	Description           string  `json:"description"`
	IsPrivate             *bool   `json:"isPrivate"`
	Deadline              string  `json:"deadline"`
	AllocatedHoursPerWeek float64 `json:"allocatedHoursPerWeek"`
}

// Input defaults isPrivate to true when the client leaves it out.
func (r ProjectRequest) Input() services.ProjectInput {
	private := true
	if r.IsPrivate != nil {
		private = *r.IsPrivate
	}
	return services.ProjectInput{
		Title:                 r.Title,
		Description:           r.Description,
		IsPrivate:             private,
		Deadline:              r.Deadline,
		AllocatedHoursPerWeek: r.AllocatedHoursPerWeek,
	}
}

type ProjectDetailResponse struct {
	Project model.Project        `json:"project"`
	Issues  []services.IssueView `json:"issues"`
}

func NewProjectDetail(p model.Project) ProjectDetailResponse {
	p.Goals = sortedGoals(p.Goals)
	return ProjectDetailResponse{Project: p, Issues: services.ResolveIssues(p.Content)}
}

func sortedGoals(goals []model.Goal) []model.Goal {
	out := make([]model.Goal, len(goals))
	for i, g := range goals {
		g.Tasks = services.SortTasksByDeadline(g.Tasks)
		out[i] = g
	}
	return out
}
