package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"lifedashboard/model"
)

// ProjectService owns users/{uid}/projects: private projects and the
// shortcuts pointing at shared ones.
type ProjectService struct {
	store  DocumentStore
	shared *SharedProjectService
	logger *slog.Logger
	now    func() time.Time
}

func NewProjectService(store DocumentStore, shared *SharedProjectService, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{store: store, shared: shared, logger: logger, now: time.Now}
}

// List returns the caller's projects, newest first. Shortcuts carry the
// current owner of the shared project they point at.
func (s *ProjectService) List(ctx context.Context, uid string) ([]model.Project, error) {
	docs, err := s.store.Query(ctx, UserProjectsCollection(uid))
	if err != nil {
		s.logger.Error("list projects failed", slog.String("userId", uid), slog.String("error", err.Error()))
		return nil, err
	}

	projects := make([]model.Project, 0, len(docs))
	owners := map[string]string{}
	for _, d := range docs {
		p := NormalizeProject(d.ID, d.Data)
		if p.IsShortcut() {
			owner, seen := owners[p.SharedProjectID]
			if !seen {
				if shared, err := s.shared.Get(ctx, p.SharedProjectID); err == nil {
					owner = shared.OwnerUID
				}
				owners[p.SharedProjectID] = owner
			}
			if owner != "" {
				p.OwnerUID = owner
			}
		}
		projects = append(projects, p)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, uid, id string) (model.Project, error) {
	doc, err := s.store.Get(ctx, UserProjectsCollection(uid), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("load project failed", slog.String("projectId", id), slog.String("userId", uid), slog.String("error", err.Error()))
		}
		return model.Project{}, err
	}
	return NormalizeProject(doc.ID, doc.Data), nil
}

// Create makes a private project, or a shared project plus the caller's
// shortcut when in.IsPrivate is false. The returned project is the record
// in the caller's namespace.
func (s *ProjectService) Create(ctx context.Context, who model.Identity, in ProjectInput) (model.Project, error) {
	if err := in.validate(); err != nil {
		return model.Project{}, err
	}

	if !in.IsPrivate {
		_, shortcutID, err := s.shared.Create(ctx, who, in)
		if err != nil {
			return model.Project{}, err
		}
		return s.Get(ctx, who.UserID, shortcutID)
	}

	p := model.Project{
		Title:                 strings.TrimSpace(in.Title),
		Description:           in.Description,
		IsPrivate:             true,
		Content:               model.Content{Goals: []model.Goal{}, Issues: []model.Issue{}},
		Deadline:              in.Deadline,
		AllocatedHoursPerWeek: in.AllocatedHoursPerWeek,
		Routines:              []model.Routine{},
		CreatedAt:             s.now(),
	}
	id, err := s.store.Add(ctx, UserProjectsCollection(who.UserID), encodeProject(p))
	if err != nil {
		s.logger.Error("create project failed", slog.String("userId", who.UserID), slog.String("error", err.Error()))
		return model.Project{}, fmt.Errorf("create project: %w", err)
	}
	p.ID = id
	return p, nil
}

// Update applies the edit form. Shortcuts stay public and mirror the same
// fields into their shared project. The shortcut is written only after the
// shared project accepted the edit.
func (s *ProjectService) Update(ctx context.Context, who model.Identity, id string, in ProjectInput) (model.Project, error) {
	if err := in.validate(); err != nil {
		return model.Project{}, err
	}
	p, err := s.Get(ctx, who.UserID, id)
	if err != nil {
		return p, err
	}

	if p.IsShortcut() {
		if err := s.shared.UpdateDetails(ctx, who, p.SharedProjectID, in); err != nil {
			return p, err
		}
	}

	fields := map[string]interface{}{
		"title":                 strings.TrimSpace(in.Title),
		"description":           in.Description,
		"isPrivate":             in.IsPrivate && !p.IsShared,
		"deadline":              in.Deadline,
		"allocatedHoursPerWeek": in.AllocatedHoursPerWeek,
	}
	if err := s.store.Update(ctx, UserProjectsCollection(who.UserID), id, fields); err != nil {
		s.logger.Error("update project failed", slog.String("projectId", id), slog.String("userId", who.UserID), slog.String("error", err.Error()))
		return p, err
	}
	return s.Get(ctx, who.UserID, id)
}

// Delete removes a private project. For a shortcut, the owner deletes the
// whole shared project while a member only drops their own shortcut.
func (s *ProjectService) Delete(ctx context.Context, who model.Identity, id string) error {
	p, err := s.Get(ctx, who.UserID, id)
	if err != nil {
		return err
	}

	if p.IsShortcut() {
		shared, err := s.shared.Get(ctx, p.SharedProjectID)
		switch {
		case err == nil && shared.OwnerUID == who.UserID:
			if err := s.shared.DeleteAsOwner(ctx, who, p.SharedProjectID); err != nil {
				return err
			}
		case err != nil && !errors.Is(err, ErrNotFound):
			return err
		}
	}

	if err := s.store.Delete(ctx, UserProjectsCollection(who.UserID), id); err != nil {
		s.logger.Error("delete project failed", slog.String("projectId", id), slog.String("userId", who.UserID), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// EditContent applies edit to a private project and recomputes progress.
func (s *ProjectService) EditContent(ctx context.Context, who model.Identity, id string, edit ContentEdit) (model.Project, error) {
	p, err := s.Get(ctx, who.UserID, id)
	if err != nil {
		return p, err
	}
	if p.IsShortcut() {
		return p, ErrSharedShortcut
	}
	if err := edit(&p.Content); err != nil {
		return p, err
	}
	return s.save(ctx, who.UserID, p)
}

// EditRoutines applies edit to the routines of a private project.
func (s *ProjectService) EditRoutines(ctx context.Context, who model.Identity, id string, edit RoutineEdit) (model.Project, error) {
	p, err := s.Get(ctx, who.UserID, id)
	if err != nil {
		return p, err
	}
	if p.IsShortcut() {
		return p, ErrSharedShortcut
	}
	routines, err := edit(append([]model.Routine(nil), p.Routines...))
	if err != nil {
		return p, err
	}
	p.Routines = routines
	return s.save(ctx, who.UserID, p)
}

func (s *ProjectService) save(ctx context.Context, uid string, p model.Project) (model.Project, error) {
	p.Progress = CalculateProgress(p.Goals)
	if err := s.store.Set(ctx, UserProjectsCollection(uid), p.ID, encodeProject(p), true); err != nil {
		s.logger.Error("save project failed", slog.String("projectId", p.ID), slog.String("userId", uid), slog.String("error", err.Error()))
		return p, err
	}
	return p, nil
}

// Watch streams a private project as it changes. A nil value means it was deleted.
func (s *ProjectService) Watch(ctx context.Context, uid, id string) (<-chan *model.Project, error) {
	docs, err := s.store.Watch(ctx, UserProjectsCollection(uid), id)
	if err != nil {
		return nil, err
	}
	out := make(chan *model.Project)
	go func() {
		defer close(out)
		for doc := range docs {
			var p *model.Project
			if doc != nil {
				v := NormalizeProject(doc.ID, doc.Data)
				p = &v
			}
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
