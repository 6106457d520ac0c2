package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"lifedashboard/model"
)

const AnonymousName = "anonymous user"

// SharedProjectService owns the shareProjects collection and the membership
// lifecycle: join, leave as member, leave as last member, leave with handoff.
type SharedProjectService struct {
	store     DocumentStore
	shortcuts *ShortcutService
	logger    *slog.Logger
	now       func() time.Time
}

func NewSharedProjectService(store DocumentStore, shortcuts *ShortcutService, logger *slog.Logger) *SharedProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SharedProjectService{store: store, shortcuts: shortcuts, logger: logger, now: time.Now}
}

type ProjectInput struct {
	Title                 string
	Description           string
	IsPrivate             bool
	Deadline              string
	AllocatedHoursPerWeek float64
}

func (in ProjectInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if !validHours(in.AllocatedHoursPerWeek) {
		return ErrInvalidHours
	}
	return nil
}

func (s *SharedProjectService) Get(ctx context.Context, id string) (model.SharedProject, error) {
	if id == "" {
		return model.SharedProject{}, ErrNotFound
	}
	doc, err := s.store.Get(ctx, SharedProjectsCollection, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("load shared project failed", slog.String("projectId", id), slog.String("error", err.Error()))
		}
		return model.SharedProject{}, err
	}
	return NormalizeSharedProject(doc.ID, doc.Data), nil
}

// Create writes a new shared project owned by the caller and the caller's
// shortcut to it.
func (s *SharedProjectService) Create(ctx context.Context, who model.Identity, in ProjectInput) (model.SharedProject, string, error) {
	if err := in.validate(); err != nil {
		return model.SharedProject{}, "", err
	}

	profile := lookupProfile(ctx, s.store, who.UserID)
	nickname := ResolveNickname("", profile, who)
	p := model.SharedProject{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		OwnerUID:    who.UserID,
		Members: []model.Member{{
			ID:        who.UserID,
			Nickname:  nickname,
			Name:      nickname,
			AvatarURL: resolveAvatar(profile, who),
		}},
		MemberUIDs:            []string{who.UserID},
		MemberEmails:          []string{},
		Content:               model.Content{Goals: []model.Goal{}, Issues: []model.Issue{}},
		Deadline:              in.Deadline,
		AllocatedHoursPerWeek: in.AllocatedHoursPerWeek,
		CreatedAt:             s.now(),
	}
	if who.Email != "" {
		p.MemberEmails = []string{who.Email}
	}

	id, err := s.store.Add(ctx, SharedProjectsCollection, encodeSharedProject(p))
	if err != nil {
		s.logger.Error("create shared project failed", slog.String("userId", who.UserID), slog.String("error", err.Error()))
		return model.SharedProject{}, "", fmt.Errorf("create shared project: %w", err)
	}
	p.ID = id

	shortcutID, _, err := s.shortcuts.Ensure(ctx, who.UserID, p)
	if err != nil {
		s.logger.Error("create owner shortcut failed", slog.String("projectId", id), slog.String("userId", who.UserID), slog.String("error", err.Error()))
		return p, "", err
	}
	return p, shortcutID, nil
}

// Save persists the full document. The owner is added to memberUids when a
// caller forgot to, and progress is recomputed from the tasks.
func (s *SharedProjectService) Save(ctx context.Context, p model.SharedProject) (model.SharedProject, error) {
	if p.ID == "" {
		return p, ErrNotFound
	}
	p = s.repairOwnership(p)
	p.IsPrivate = false
	p.Progress = CalculateProgress(p.Goals)

	if err := s.store.Update(ctx, SharedProjectsCollection, p.ID, encodeSharedProject(p)); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("save shared project failed", slog.String("projectId", p.ID), slog.String("error", err.Error()))
		}
		return p, err
	}
	return p, nil
}

func (s *SharedProjectService) repairOwnership(p model.SharedProject) model.SharedProject {
	if p.OwnerUID == "" || containsString(p.MemberUIDs, p.OwnerUID) {
		return p
	}
	s.logger.Warn("owner missing from memberUids, adding it", slog.String("projectId", p.ID), slog.String("ownerUid", p.OwnerUID))
	p.MemberUIDs = append(append([]string(nil), p.MemberUIDs...), p.OwnerUID)
	return p
}

// Join adds the caller as a member and makes sure they have a shortcut.
// liveName is the display name the client currently shows, if any.
// Joining twice is harmless.
func (s *SharedProjectService) Join(ctx context.Context, who model.Identity, projectID, liveName string) (model.SharedProject, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return p, err
	}

	if !p.HasMember(who.UserID) {
		profile := lookupProfile(ctx, s.store, who.UserID)
		nickname := ResolveNickname(liveName, profile, who)
		p.Members = append(p.Members, model.Member{
			ID:        who.UserID,
			Nickname:  nickname,
			Name:      nickname,
			AvatarURL: resolveAvatar(profile, who),
		})
		p.MemberUIDs = appendUnique(p.MemberUIDs, who.UserID)
		if who.Email != "" {
			p.MemberEmails = appendUnique(p.MemberEmails, who.Email)
		}
		if p, err = s.Save(ctx, p); err != nil {
			return p, err
		}
	}

	// A missing shortcut is repaired by the next join, so the membership stands.
	if _, _, err := s.shortcuts.Ensure(ctx, who.UserID, p); err != nil {
		s.logger.Error("create shortcut on join failed", slog.String("projectId", p.ID), slog.String("userId", who.UserID), slog.String("error", err.Error()))
	}
	return p, nil
}

// LeaveAsMember removes a non-owner member and their shortcuts.
func (s *SharedProjectService) LeaveAsMember(ctx context.Context, who model.Identity, projectID string, confirmed bool) error {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	switch p.StateOf(who.UserID) {
	case model.NotMember:
		return ErrNotMember
	case model.IsOwner:
		return ErrOwnerMustHandOff
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	if _, err := s.Save(ctx, withoutMember(p, who)); err != nil {
		return err
	}
	return s.removeShortcuts(ctx, who.UserID, p.ID)
}

// LeaveAsLastMember deletes the shared project when its owner is the only
// member left, together with the owner's shortcuts.
func (s *SharedProjectService) LeaveAsLastMember(ctx context.Context, who model.Identity, projectID string, confirmed bool) error {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if err := requireOwner(p, who.UserID); err != nil {
		return err
	}
	if len(p.OtherMembers(who.UserID)) > 0 {
		return ErrMembersRemain
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := s.store.Delete(ctx, SharedProjectsCollection, p.ID); err != nil {
		s.logger.Error("delete shared project failed", slog.String("projectId", p.ID), slog.String("error", err.Error()))
		return err
	}
	return s.removeShortcuts(ctx, who.UserID, p.ID)
}

// LeaveWithHandoff transfers ownership to newOwnerID, who must be one of the
// other current members, then removes the caller.
func (s *SharedProjectService) LeaveWithHandoff(ctx context.Context, who model.Identity, projectID, newOwnerID string, confirmed bool) (model.SharedProject, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return p, err
	}
	if err := requireOwner(p, who.UserID); err != nil {
		return p, err
	}
	others := p.OtherMembers(who.UserID)
	if len(others) == 0 {
		return p, ErrNoOtherMembers
	}
	if newOwnerID == "" {
		return p, ErrNewOwnerRequired
	}
	found := false
	for _, m := range others {
		if m.ID == newOwnerID {
			found = true
			break
		}
	}
	if !found {
		return p, ErrNewOwnerNotMember
	}
	if !confirmed {
		return p, ErrConfirmationRequired
	}

	next := withoutMember(p, who)
	next.OwnerUID = newOwnerID
	if next, err = s.Save(ctx, next); err != nil {
		return p, err
	}
	return next, s.removeShortcuts(ctx, who.UserID, p.ID)
}

type LeaveOutcome string

const (
	LeftAsMember        LeaveOutcome = "left"
	DeletedAsLastMember LeaveOutcome = "deleted"
	HandedOff           LeaveOutcome = "handed-off"
)

type LeaveRequest struct {
	NewOwnerID string
	Confirmed  bool
}

// Leave picks the right exit for the caller: members simply leave, a lone
// owner deletes the project, an owner with company hands off to NewOwnerID.
func (s *SharedProjectService) Leave(ctx context.Context, who model.Identity, projectID string, req LeaveRequest) (LeaveOutcome, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return "", err
	}
	switch p.StateOf(who.UserID) {
	case model.NotMember:
		return "", ErrNotMember
	case model.IsMember:
		return LeftAsMember, s.LeaveAsMember(ctx, who, projectID, req.Confirmed)
	}
	if len(p.OtherMembers(who.UserID)) == 0 {
		return DeletedAsLastMember, s.LeaveAsLastMember(ctx, who, projectID, req.Confirmed)
	}
	_, err = s.LeaveWithHandoff(ctx, who, projectID, req.NewOwnerID, req.Confirmed)
	return HandedOff, err
}

// DeleteAsOwner removes the shared project on the owner's explicit request
// and, best effort, every member's shortcut to it.
func (s *SharedProjectService) DeleteAsOwner(ctx context.Context, who model.Identity, projectID string) error {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if p.OwnerUID != who.UserID {
		return ErrNotOwner
	}
	if err := s.store.Delete(ctx, SharedProjectsCollection, p.ID); err != nil {
		s.logger.Error("delete shared project failed", slog.String("projectId", p.ID), slog.String("error", err.Error()))
		return err
	}

	uids := appendUnique(append([]string(nil), p.MemberUIDs...), who.UserID)
	for _, m := range p.Members {
		uids = appendUnique(uids, m.ID)
	}
	for _, uid := range uids {
		if uid == who.UserID {
			continue
		}
		if _, err := s.shortcuts.RemoveAll(ctx, uid, p.ID); err != nil {
			s.logger.Warn("remove member shortcut failed", slog.String("projectId", p.ID), slog.String("userId", uid), slog.String("error", err.Error()))
		}
	}
	return s.removeShortcuts(ctx, who.UserID, p.ID)
}

// EditContent applies edit to the goals and issues of the shared project.
// Any current member may edit.
func (s *SharedProjectService) EditContent(ctx context.Context, who model.Identity, projectID string, edit ContentEdit) (model.SharedProject, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return p, err
	}
	if p.StateOf(who.UserID) == model.NotMember {
		return p, ErrNotMember
	}
	if err := edit(&p.Content); err != nil {
		return p, err
	}
	return s.Save(ctx, p)
}

// UpdateDetails writes the fields editable from the project list.
func (s *SharedProjectService) UpdateDetails(ctx context.Context, who model.Identity, projectID string, in ProjectInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if !p.HasMember(who.UserID) && !containsString(p.MemberUIDs, who.UserID) {
		return ErrNotMember
	}
	err = s.store.Update(ctx, SharedProjectsCollection, projectID, map[string]interface{}{
		"title":                 strings.TrimSpace(in.Title),
		"description":           in.Description,
		"deadline":              in.Deadline,
		"allocatedHoursPerWeek": in.AllocatedHoursPerWeek,
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("update shared project failed", slog.String("projectId", projectID), slog.String("error", err.Error()))
	}
	return err
}

// SyncMemberProfile rewrites the caller's member entry after their display
// name or avatar changed. Nothing is written when the entry already matches
// or the caller is not a member.
func (s *SharedProjectService) SyncMemberProfile(ctx context.Context, who model.Identity, projectID, displayName string, avatarURL *string) (model.SharedProject, bool, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return p, false, err
	}
	return s.applyMemberProfile(ctx, p, who.UserID, displayName, avatarURL)
}

func (s *SharedProjectService) applyMemberProfile(ctx context.Context, p model.SharedProject, uid, displayName string, avatarURL *string) (model.SharedProject, bool, error) {
	members, changed := memberProfileUpdate(p.Members, uid, displayName, avatarURL)
	if !changed {
		return p, false, nil
	}
	p.Members = members
	saved, err := s.Save(ctx, p)
	return saved, err == nil, err
}

// Watch streams the shared project as it changes. A nil value means it was deleted.
func (s *SharedProjectService) Watch(ctx context.Context, projectID string) (<-chan *model.SharedProject, error) {
	docs, err := s.store.Watch(ctx, SharedProjectsCollection, projectID)
	if err != nil {
		return nil, err
	}
	out := make(chan *model.SharedProject)
	go func() {
		defer close(out)
		for doc := range docs {
			var p *model.SharedProject
			if doc != nil {
				v := NormalizeSharedProject(doc.ID, doc.Data)
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

func (s *SharedProjectService) removeShortcuts(ctx context.Context, uid, projectID string) error {
	if _, err := s.shortcuts.RemoveAll(ctx, uid, projectID); err != nil {
		s.logger.Error("remove shortcuts failed", slog.String("projectId", projectID), slog.String("userId", uid), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// memberProfileUpdate returns the member list with uid's entry rewritten and
// whether anything differs from the input.
func memberProfileUpdate(members []model.Member, uid, displayName string, avatarURL *string) ([]model.Member, bool) {
	updated := make([]model.Member, len(members))
	copy(updated, members)
	for i := range updated {
		if updated[i].ID != uid {
			continue
		}
		if displayName != "" {
			updated[i].Nickname = displayName
			updated[i].Name = displayName
		}
		if avatarURL != nil {
			updated[i].AvatarURL = *avatarURL
		}
	}
	return updated, !reflect.DeepEqual(updated, members)
}

func requireOwner(p model.SharedProject, uid string) error {
	switch p.StateOf(uid) {
	case model.NotMember:
		return ErrNotMember
	case model.IsMember:
		return ErrNotOwner
	}
	return nil
}

func withoutMember(p model.SharedProject, who model.Identity) model.SharedProject {
	p.Members = p.OtherMembers(who.UserID)
	p.MemberUIDs = removeString(p.MemberUIDs, who.UserID)
	if who.Email != "" {
		p.MemberEmails = removeString(p.MemberEmails, who.Email)
	}
	return p
}

// ResolveNickname picks the member label for a joining user: the live
// display name, then the stored profile, then the identity provider.
func ResolveNickname(live string, profile *model.UserProfile, who model.Identity) string {
	candidates := []string{live}
	if profile != nil {
		candidates = append(candidates, profile.Nickname, profile.DisplayName)
	}
	candidates = append(candidates, who.DisplayName, who.Email)
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return AnonymousName
}

func resolveAvatar(profile *model.UserProfile, who model.Identity) string {
	if profile != nil && profile.PhotoURL != "" {
		return profile.PhotoURL
	}
	return who.PhotoURL
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	if containsString(list, s) {
		return list
	}
	return append(append([]string(nil), list...), s)
}

func removeString(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
