package model

type CalendarItemType string

const (
	CalendarProject CalendarItemType = "project"
	CalendarTask    CalendarItemType = "task"
)

type CalendarItem struct {
	ID           string           `json:"id"`
	Type         CalendarItemType `json:"type"`
	Title        string           `json:"title"`
	Deadline     string           `json:"deadline"`
	ProjectID    string           `json:"projectId"`
	ProjectTitle string           `json:"projectTitle"`
	Assignee     string           `json:"assignee,omitempty"`
	Done         bool             `json:"done,omitempty"`
}
