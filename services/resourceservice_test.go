package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"lifedashboard/model"
)

func TestUtilization(t *testing.T) {
	tests := []struct {
		allocated, capacity, want float64
	}{
		{10, 20, 0.5},
		{20, 20, 1},
		{30, 20, 1.5},
		{100, 20, 2},
		{10, 0, 0},
		{10, -5, 0},
		{0, 20, 0},
	}
	for _, tt := range tests {
		if got := Utilization(tt.allocated, tt.capacity); got != tt.want {
			t.Errorf("Utilization(%v, %v) = %v, want %v", tt.allocated, tt.capacity, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	projects := []model.Project{
		{ID: "a", Title: "A", AllocatedHoursPerWeek: 5, Routines: []model.Routine{{TargetHoursPerWeek: 1}, {TargetHoursPerWeek: 2}}},
		{ID: "b", Title: "B", AllocatedHoursPerWeek: 2.5},
	}
	s := Summarize(15, projects)
	if s.TotalAllocated != 7.5 || s.Utilization != 0.5 || s.UtilizationPercent != 50 {
		t.Fatalf("summary = %+v", s)
	}
	if len(s.Projects) != 2 || s.Projects[0].RoutineHoursPerWeek != 3 {
		t.Errorf("rows = %+v", s.Projects)
	}

	empty := Summarize(0, nil)
	if empty.Projects == nil || empty.Utilization != 0 || empty.UtilizationPercent != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resources := NewResourceService(env.store, env.projects, 0, discardLogger())

	got, err := resources.Capacity(ctx, alice.UserID)
	if err != nil || got != 0 {
		t.Fatalf("configured default: %v, %v", got, err)
	}
	resources = NewResourceService(env.store, env.projects, math.NaN(), discardLogger())
	if got, _ := resources.Capacity(ctx, alice.UserID); got != DefaultWeeklyCapacity {
		t.Fatalf("invalid default not replaced: %v", got)
	}

	if err := resources.SetCapacity(ctx, alice.UserID, -1); !errors.Is(err, ErrInvalidHours) {
		t.Errorf("negative capacity: err = %v", err)
	}
	if err := resources.SetCapacity(ctx, alice.UserID, math.Inf(1)); !errors.Is(err, ErrInvalidHours) {
		t.Errorf("infinite capacity: err = %v", err)
	}
	if err := resources.SetCapacity(ctx, alice.UserID, 32); err != nil {
		t.Fatal(err)
	}
	if got, _ := resources.Capacity(ctx, alice.UserID); got != 32 {
		t.Errorf("capacity = %v, want 32", got)
	}

	if _, err := env.projects.Create(ctx, alice, ProjectInput{Title: "Work", IsPrivate: true, AllocatedHoursPerWeek: 16}); err != nil {
		t.Fatal(err)
	}
	summary, err := resources.Summary(ctx, alice.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if summary.WeeklyCapacity != 32 || summary.Utilization != 0.5 {
		t.Errorf("summary = %+v", summary)
	}
}
