package services

import (
	"context"

	"lifedashboard/model"
)

// BuildCalendar groups project and task deadlines by date. Goal deadlines
// and unscheduled tasks are left out; items keep arrival order.
func BuildCalendar(projects []model.Project) map[string][]model.CalendarItem {
	byDate := map[string][]model.CalendarItem{}
	for _, p := range projects {
		if hasDeadline(p.Deadline) {
			byDate[p.Deadline] = append(byDate[p.Deadline], model.CalendarItem{
				ID:           "project-" + p.ID,
				Type:         model.CalendarProject,
				Title:        p.Title,
				Deadline:     p.Deadline,
				ProjectID:    p.ID,
				ProjectTitle: p.Title,
			})
		}
		for _, g := range p.Goals {
			for _, t := range g.Tasks {
				if !hasDeadline(t.Deadline) {
					continue
				}
				byDate[t.Deadline] = append(byDate[t.Deadline], model.CalendarItem{
					ID:           "task-" + t.ID,
					Type:         model.CalendarTask,
					Title:        t.Title,
					Deadline:     t.Deadline,
					ProjectID:    p.ID,
					ProjectTitle: p.Title,
					Assignee:     t.Assignee,
					Done:         t.Done,
				})
			}
		}
	}
	return byDate
}

func hasDeadline(d string) bool {
	return d != "" && d != model.NoDeadline && d != legacyNoDeadline
}

type CalendarService struct {
	projects *ProjectService
}

func NewCalendarService(projects *ProjectService) *CalendarService {
	return &CalendarService{projects: projects}
}

func (s *CalendarService) ForUser(ctx context.Context, uid string) (map[string][]model.CalendarItem, error) {
	projects, err := s.projects.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	return BuildCalendar(projects), nil
}
