package services

import (
	"context"
	"fmt"
	"time"

	"lifedashboard/model"
)

// ShortcutService maintains the pointer records a member keeps in their
// private namespace for every shared project they belong to.
type ShortcutService struct {
	store DocumentStore
	now   func() time.Time
}

func NewShortcutService(store DocumentStore) *ShortcutService {
	return &ShortcutService{store: store, now: time.Now}
}

// Find returns the ids of the user's shortcuts pointing at sharedID.
func (s *ShortcutService) Find(ctx context.Context, uid, sharedID string) ([]string, error) {
	docs, err := s.store.Query(ctx, UserProjectsCollection(uid), Where("sharedProjectId", OpEqual, sharedID))
	if err != nil {
		return nil, fmt.Errorf("find shortcuts: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// Ensure creates a shortcut for (uid, p.ID) unless one exists already.
// It returns the id of the existing or created shortcut.
func (s *ShortcutService) Ensure(ctx context.Context, uid string, p model.SharedProject) (string, bool, error) {
	ids, err := s.Find(ctx, uid, p.ID)
	if err != nil {
		return "", false, err
	}
	if len(ids) > 0 {
		return ids[0], false, nil
	}
	return s.create(ctx, uid, p)
}

func (s *ShortcutService) create(ctx context.Context, uid string, p model.SharedProject) (string, bool, error) {
	shortcut := model.Project{
		Title:                 p.Title,
		Description:           p.Description,
		IsPrivate:             false,
		Content:               model.Content{Goals: []model.Goal{}, Issues: []model.Issue{}},
		Progress:              p.Progress,
		Deadline:              p.Deadline,
		AllocatedHoursPerWeek: p.AllocatedHoursPerWeek,
		CreatedAt:             s.now(),
		IsShared:              true,
		SharedProjectID:       p.ID,
		OwnerUID:              p.OwnerUID,
	}
	id, err := s.store.Add(ctx, UserProjectsCollection(uid), encodeProject(shortcut))
	if err != nil {
		return "", false, fmt.Errorf("create shortcut: %w", err)
	}
	return id, true, nil
}

// RemoveAll deletes every shortcut of uid pointing at sharedID and returns
// how many were removed. Zero matches is not an error.
func (s *ShortcutService) RemoveAll(ctx context.Context, uid, sharedID string) (int, error) {
	ids, err := s.Find(ctx, uid, sharedID)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, id := range ids {
		if err := s.store.Delete(ctx, UserProjectsCollection(uid), id); err != nil {
			return removed, fmt.Errorf("remove shortcut %s: %w", id, err)
		}
		removed++
	}
	return removed, nil
}
