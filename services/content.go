package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"lifedashboard/model"
)

// ContentEdit mutates the goals and issues of a project in memory. The
// owning repository loads the document, applies the edit, recomputes
// progress and writes the result back.
type ContentEdit func(c *model.Content) error

type GoalInput struct {
	Title    string
	Deadline string
}

type TaskInput struct {
	Title    string
	Deadline string
	Assignee string
}

type IssueInput struct {
	Title       string
	Description string
	Status      string
	Assignee    string
	Deadline    string
	RelatedGoal string
}

type RoutineInput struct {
	Title              string
	TargetHoursPerWeek float64
	Memo               string
}

const dateLayout = "2006-01-02"

func AddGoal(in GoalInput) ContentEdit {
	return func(c *model.Content) error {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return ErrTitleRequired
		}
		c.Goals = append(c.Goals, model.Goal{
			ID:       uuid.New().String(),
			Title:    title,
			Deadline: NormalizeDeadline(in.Deadline),
			Tasks:    []model.Task{},
		})
		return nil
	}
}

func EditGoal(goalID string, in GoalInput) ContentEdit {
	return func(c *model.Content) error {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return ErrTitleRequired
		}
		g := findGoal(c, goalID)
		if g == nil {
			return ErrGoalNotFound
		}
		g.Title = title
		g.Deadline = NormalizeDeadline(in.Deadline)
		return nil
	}
}

// DeleteGoal removes the goal together with its tasks. Issues that pointed
// at it keep the dangling id.
func DeleteGoal(goalID string) ContentEdit {
	return func(c *model.Content) error {
		for i := range c.Goals {
			if c.Goals[i].ID == goalID {
				c.Goals = append(c.Goals[:i], c.Goals[i+1:]...)
				return nil
			}
		}
		return ErrGoalNotFound
	}
}

func AddTask(goalID string, in TaskInput) ContentEdit {
	return func(c *model.Content) error {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return ErrTitleRequired
		}
		g := findGoal(c, goalID)
		if g == nil {
			return ErrGoalNotFound
		}
		g.Tasks = append(g.Tasks, model.Task{
			ID:       uuid.New().String(),
			Title:    title,
			Deadline: NormalizeDeadline(in.Deadline),
			Assignee: strings.TrimSpace(in.Assignee),
		})
		return nil
	}
}

// EditTask changes the descriptive fields; completion goes through ToggleTask.
func EditTask(goalID, taskID string, in TaskInput) ContentEdit {
	return func(c *model.Content) error {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return ErrTitleRequired
		}
		t, err := findTask(c, goalID, taskID)
		if err != nil {
			return err
		}
		t.Title = title
		t.Deadline = NormalizeDeadline(in.Deadline)
		t.Assignee = strings.TrimSpace(in.Assignee)
		return nil
	}
}

func DeleteTask(goalID, taskID string) ContentEdit {
	return func(c *model.Content) error {
		g := findGoal(c, goalID)
		if g == nil {
			return ErrGoalNotFound
		}
		for i := range g.Tasks {
			if g.Tasks[i].ID == taskID {
				g.Tasks = append(g.Tasks[:i], g.Tasks[i+1:]...)
				return nil
			}
		}
		return ErrTaskNotFound
	}
}

// ToggleTask flips done. Completing stamps completedAt with the given date,
// or today when empty; reopening clears it.
func ToggleTask(goalID, taskID, completedAt string, now time.Time) ContentEdit {
	return func(c *model.Content) error {
		t, err := findTask(c, goalID, taskID)
		if err != nil {
			return err
		}
		if t.Done {
			t.Done = false
			t.CompletedAt = ""
			return nil
		}
		t.Done = true
		t.CompletedAt = completedAt
		if t.CompletedAt == "" {
			t.CompletedAt = now.Format(dateLayout)
		}
		return nil
	}
}

func AddIssue(in IssueInput) ContentEdit {
	return func(c *model.Content) error {
		issue, err := buildIssue(uuid.New().String(), in)
		if err != nil {
			return err
		}
		c.Issues = append(c.Issues, issue)
		return nil
	}
}

func EditIssue(issueID string, in IssueInput) ContentEdit {
	return func(c *model.Content) error {
		for i := range c.Issues {
			if c.Issues[i].ID != issueID {
				continue
			}
			issue, err := buildIssue(issueID, in)
			if err != nil {
				return err
			}
			c.Issues[i] = issue
			return nil
		}
		return ErrIssueNotFound
	}
}

func DeleteIssue(issueID string) ContentEdit {
	return func(c *model.Content) error {
		for i := range c.Issues {
			if c.Issues[i].ID == issueID {
				c.Issues = append(c.Issues[:i], c.Issues[i+1:]...)
				return nil
			}
		}
		return ErrIssueNotFound
	}
}

func buildIssue(id string, in IssueInput) (model.Issue, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Issue{}, ErrTitleRequired
	}
	status := model.IssueUnstarted
	if in.Status != "" {
		status = model.IssueStatus(in.Status)
		if !status.Valid() {
			return model.Issue{}, ErrInvalidStatus
		}
	}
	return model.Issue{
		ID:          id,
		Title:       title,
		Description: in.Description,
		Status:      status,
		Assignee:    strings.TrimSpace(in.Assignee),
		Deadline:    NormalizeDeadline(in.Deadline),
		RelatedGoal: in.RelatedGoal,
	}, nil
}

// DeletedGoalLabel is shown for issues whose related goal no longer exists.
const DeletedGoalLabel = "deleted"

// IssueView is an issue with its related goal resolved at read time.
type IssueView struct {
	model.Issue
	RelatedGoalTitle string `json:"relatedGoalTitle,omitempty"`
}

func ResolveIssues(c model.Content) []IssueView {
	titles := make(map[string]string, len(c.Goals))
	for _, g := range c.Goals {
		titles[g.ID] = g.Title
	}
	views := make([]IssueView, 0, len(c.Issues))
	for _, issue := range c.Issues {
		v := IssueView{Issue: issue}
		if issue.RelatedGoal != "" {
			if title, ok := titles[issue.RelatedGoal]; ok {
				v.RelatedGoalTitle = title
			} else {
				v.RelatedGoalTitle = DeletedGoalLabel
			}
		}
		views = append(views, v)
	}
	return views
}

// SortTasksByDeadline returns the tasks ordered by deadline, unscheduled last.
func SortTasksByDeadline(tasks []model.Task) []model.Task {
	sorted := append([]model.Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Deadline, sorted[j].Deadline
		if a == model.NoDeadline {
			return false
		}
		if b == model.NoDeadline {
			return true
		}
		return a < b
	})
	return sorted
}

func findGoal(c *model.Content, goalID string) *model.Goal {
	for i := range c.Goals {
		if c.Goals[i].ID == goalID {
			return &c.Goals[i]
		}
	}
	return nil
}

func findTask(c *model.Content, goalID, taskID string) (*model.Task, error) {
	g := findGoal(c, goalID)
	if g == nil {
		return nil, ErrGoalNotFound
	}
	for i := range g.Tasks {
		if g.Tasks[i].ID == taskID {
			return &g.Tasks[i], nil
		}
	}
	return nil, ErrTaskNotFound
}

// Routine edits apply to private projects only.

type RoutineEdit func(routines []model.Routine) ([]model.Routine, error)

func AddRoutine(in RoutineInput) RoutineEdit {
	return func(routines []model.Routine) ([]model.Routine, error) {
		r, err := buildRoutine(uuid.New().String(), in)
		if err != nil {
			return nil, err
		}
		return append(routines, r), nil
	}
}

func EditRoutine(routineID string, in RoutineInput) RoutineEdit {
	return func(routines []model.Routine) ([]model.Routine, error) {
		for i := range routines {
			if routines[i].ID != routineID {
				continue
			}
			r, err := buildRoutine(routineID, in)
			if err != nil {
				return nil, err
			}
			routines[i] = r
			return routines, nil
		}
		return nil, ErrRoutineNotFound
	}
}

func DeleteRoutine(routineID string) RoutineEdit {
	return func(routines []model.Routine) ([]model.Routine, error) {
		for i := range routines {
			if routines[i].ID == routineID {
				return append(routines[:i], routines[i+1:]...), nil
			}
		}
		return nil, ErrRoutineNotFound
	}
}

func buildRoutine(id string, in RoutineInput) (model.Routine, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Routine{}, ErrTitleRequired
	}
	if !validHours(in.TargetHoursPerWeek) {
		return model.Routine{}, ErrInvalidHours
	}
	return model.Routine{
		ID:                 id,
		Title:              title,
		TargetHoursPerWeek: in.TargetHoursPerWeek,
		Memo:               in.Memo,
	}, nil
}

// RoutineHours is the weekly hour total of a project's routines.
func RoutineHours(routines []model.Routine) float64 {
	total := 0.0
	for _, r := range routines {
		total += r.TargetHoursPerWeek
	}
	return total
}

func validHours(h float64) bool {
	return h >= 0 && !math.IsNaN(h) && !math.IsInf(h, 0)
}
