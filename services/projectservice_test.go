package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPrivateProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.projects.Create(ctx, alice, ProjectInput{Title: "Garden", IsPrivate: true, AllocatedHoursPerWeek: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsPrivate || p.IsShared || p.ID == "" {
		t.Fatalf("created = %+v", p)
	}
	if _, err := env.projects.Create(ctx, alice, ProjectInput{Title: "x", IsPrivate: true, AllocatedHoursPerWeek: -2}); !errors.Is(err, ErrInvalidHours) {
		t.Errorf("negative allocation: err = %v", err)
	}

	p, err = env.projects.EditContent(ctx, alice, p.ID, AddGoal(GoalInput{Title: "Beds"}))
	if err != nil {
		t.Fatal(err)
	}
	goalID := p.Goals[0].ID
	for _, title := range []string{"Dig", "Plant"} {
		if p, err = env.projects.EditContent(ctx, alice, p.ID, AddTask(goalID, TaskInput{Title: title})); err != nil {
			t.Fatal(err)
		}
	}
	p, err = env.projects.EditContent(ctx, alice, p.ID, ToggleTask(goalID, p.Goals[0].Tasks[0].ID, "", time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	stored, _ := env.projects.Get(ctx, alice.UserID, p.ID)
	if stored.Progress != 50 {
		t.Errorf("progress = %d, want 50", stored.Progress)
	}

	if _, err := env.projects.EditRoutines(ctx, alice, p.ID, AddRoutine(RoutineInput{Title: "Water", TargetHoursPerWeek: 1})); err != nil {
		t.Fatal(err)
	}
	updated, err := env.projects.Update(ctx, alice, p.ID, ProjectInput{Title: "Garden 2", IsPrivate: true, Deadline: "2024-09-01"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Garden 2" || updated.Deadline != "2024-09-01" || len(updated.Routines) != 1 || updated.Progress != 50 {
		t.Errorf("updated = %+v", updated)
	}

	if err := env.projects.Delete(ctx, alice, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.projects.Get(ctx, alice.UserID, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: err = %v", err)
	}
	if err := env.projects.Delete(ctx, alice, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestListOverlaysOwnerAndSortsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}
	env.projects.now = tick
	env.shared.now = tick
	env.shortcuts.now = tick

	if _, err := env.projects.Create(ctx, alice, ProjectInput{Title: "Old", IsPrivate: true}); err != nil {
		t.Fatal(err)
	}
	shared, err := env.projects.Create(ctx, alice, ProjectInput{Title: "Team", IsPrivate: false})
	if err != nil {
		t.Fatal(err)
	}
	if !shared.IsShared || shared.IsPrivate {
		t.Fatalf("shared create returned %+v", shared)
	}
	if _, err := env.shared.Join(ctx, bob, shared.SharedProjectID, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := env.shared.LeaveWithHandoff(ctx, alice, shared.SharedProjectID, bob.UserID, true); err != nil {
		t.Fatal(err)
	}
	if _, err := env.projects.Create(ctx, bob, ProjectInput{Title: "Newest", IsPrivate: true}); err != nil {
		t.Fatal(err)
	}

	list, err := env.projects.List(ctx, bob.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Title != "Newest" || list[1].Title != "Team" {
		t.Fatalf("list = %+v", list)
	}
	if list[1].OwnerUID != bob.UserID {
		t.Errorf("ownerUid overlay = %q, want %q", list[1].OwnerUID, bob.UserID)
	}
}

func TestUpdateShortcutMirrorsIntoSharedProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	shortcut, err := env.projects.Create(ctx, alice, ProjectInput{Title: "Team", IsPrivate: false})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := env.projects.Update(ctx, alice, shortcut.ID, ProjectInput{Title: "Team v2", IsPrivate: true, AllocatedHoursPerWeek: 6})
	if err != nil {
		t.Fatal(err)
	}
	if updated.IsPrivate {
		t.Error("shortcut became private")
	}
	shared, err := env.shared.Get(ctx, shortcut.SharedProjectID)
	if err != nil {
		t.Fatal(err)
	}
	if shared.Title != "Team v2" || shared.AllocatedHoursPerWeek != 6 {
		t.Errorf("shared = %+v", shared)
	}

	if _, err := env.projects.EditContent(ctx, alice, shortcut.ID, AddGoal(GoalInput{Title: "x"})); !errors.Is(err, ErrSharedShortcut) {
		t.Errorf("content edit on shortcut: err = %v", err)
	}
}

func TestUpdateStaleShortcutLeavesItUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	shared, _ := createShared(t, env, alice, "Shared")
	if _, err := env.shared.Join(ctx, bob, shared.ID, ""); err != nil {
		t.Fatal(err)
	}
	ids, err := env.shortcuts.Find(ctx, bob.UserID, shared.ID)
	if err != nil || len(ids) != 1 {
		t.Fatalf("bob shortcuts = %v, err = %v", ids, err)
	}

	current, _ := env.shared.Get(ctx, shared.ID)
	if _, err := env.shared.Save(ctx, withoutMember(current, bob)); err != nil {
		t.Fatal(err)
	}

	if _, err := env.projects.Update(ctx, bob, ids[0], ProjectInput{Title: "Hijacked"}); !errors.Is(err, ErrNotMember) {
		t.Fatalf("err = %v, want %v", err, ErrNotMember)
	}
	shortcut, _ := env.projects.Get(ctx, bob.UserID, ids[0])
	if shortcut.Title != "Shared" {
		t.Errorf("shortcut title = %q, want %q", shortcut.Title, "Shared")
	}
	stored, _ := env.shared.Get(ctx, shared.ID)
	if stored.Title != "Shared" {
		t.Errorf("shared title = %q, want %q", stored.Title, "Shared")
	}
}

func TestDeleteShortcut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	shortcut, err := env.projects.Create(ctx, alice, ProjectInput{Title: "Team", IsPrivate: false})
	if err != nil {
		t.Fatal(err)
	}
	sharedID := shortcut.SharedProjectID
	if _, err := env.shared.Join(ctx, bob, sharedID, ""); err != nil {
		t.Fatal(err)
	}

	// A member only drops their own shortcut.
	bobIDs, _ := env.shortcuts.Find(ctx, bob.UserID, sharedID)
	if err := env.projects.Delete(ctx, bob, bobIDs[0]); err != nil {
		t.Fatal(err)
	}
	if _, err := env.shared.Get(ctx, sharedID); err != nil {
		t.Fatalf("member delete removed the shared project: %v", err)
	}

	// The owner removes the shared project and every shortcut.
	if _, err := env.shared.Join(ctx, bob, sharedID, ""); err != nil {
		t.Fatal(err)
	}
	if err := env.projects.Delete(ctx, alice, shortcut.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.shared.Get(ctx, sharedID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("shared project still there: %v", err)
	}
	if n := shortcutCount(t, env, bob.UserID, sharedID); n != 0 {
		t.Errorf("bob keeps %d shortcuts", n)
	}
}
