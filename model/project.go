package model

import "time"

// NoDeadline marks an unscheduled goal, task or issue. It sorts after every real date.
const NoDeadline = "no-deadline"

type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Done        bool   `json:"done"`
	Deadline    string `json:"deadline"`
	CompletedAt string `json:"completedAt,omitempty"` // set only while Done
	Assignee    string `json:"assignee"`
}

type Goal struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
	Tasks    []Task `json:"tasks"`
}

type IssueStatus string

const (
	IssueUnstarted  IssueStatus = "unstarted"
	IssueInProgress IssueStatus = "in-progress"
	IssueDone       IssueStatus = "done"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case IssueUnstarted, IssueInProgress, IssueDone:
		return true
	}
	return false
}

type Issue struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      IssueStatus `json:"status"`
	Assignee    string      `json:"assignee"`
	Deadline    string      `json:"deadline"`
	RelatedGoal string      `json:"relatedGoal,omitempty"` // soft reference to Goal.ID
}

type Routine struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	TargetHoursPerWeek float64 `json:"targetHoursPerWeek"`
	Memo               string  `json:"memo,omitempty"`
}

// Content is the editable body shared by private and shared projects.
type Content struct {
	Goals  []Goal  `json:"goals"`
	Issues []Issue `json:"issues"`
}

// Project lives under users/{uid}/projects. When IsShared is set it is a
// shortcut pointing at a SharedProject.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"isPrivate"`
	Content
	Progress              int       `json:"progress"`
	Deadline              string    `json:"deadline"`
	AllocatedHoursPerWeek float64   `json:"allocatedHoursPerWeek"`
	Routines              []Routine `json:"routines"`
	CreatedAt             time.Time `json:"createdAt"`

	IsShared        bool   `json:"isShared"`
	SharedProjectID string `json:"sharedProjectId,omitempty"`
	OwnerUID        string `json:"ownerUid,omitempty"`
}

// IsShortcut reports whether the project only points at a shared project.
func (p Project) IsShortcut() bool {
	return p.IsShared && p.SharedProjectID != ""
}
