package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"lifedashboard/model"
)

const maxAvatarBytes = 5 << 20

var avatarTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// UserService manages users/{uid} profiles and pushes profile changes into
// the member lists of shared projects.
type UserService struct {
	store  DocumentStore
	shared *SharedProjectService
	blobs  BlobStore
	logger *slog.Logger
	now    func() time.Time
}

func NewUserService(store DocumentStore, shared *SharedProjectService, blobs BlobStore, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{store: store, shared: shared, blobs: blobs, logger: logger, now: time.Now}
}

// lookupProfile returns nil when the profile is missing or unreadable.
func lookupProfile(ctx context.Context, store DocumentStore, uid string) *model.UserProfile {
	doc, err := store.Get(ctx, UsersCollection, uid)
	if err != nil {
		return nil
	}
	p := NormalizeProfile(uid, doc.Data)
	return &p
}

func (s *UserService) GetProfile(ctx context.Context, uid string) (model.UserProfile, error) {
	doc, err := s.store.Get(ctx, UsersCollection, uid)
	if err != nil {
		return model.UserProfile{}, err
	}
	return NormalizeProfile(uid, doc.Data), nil
}

// EnsureProfile returns the caller's profile, creating it on first sign-in.
func (s *UserService) EnsureProfile(ctx context.Context, who model.Identity) (model.UserProfile, bool, error) {
	profile, err := s.GetProfile(ctx, who.UserID)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Error("load profile failed", slog.String("userId", who.UserID), slog.String("error", err.Error()))
		return model.UserProfile{}, false, err
	}

	profile = model.UserProfile{
		UserID:      who.UserID,
		DisplayName: defaultDisplayName(who.Email),
		PhotoURL:    who.PhotoURL,
		CreatedAt:   s.now(),
	}
	doc := SanitizeDocument(map[string]interface{}{
		"displayName": profile.DisplayName,
		"photoURL":    profile.PhotoURL,
		"createdAt":   profile.CreatedAt,
	})
	if err := s.store.Set(ctx, UsersCollection, who.UserID, doc, false); err != nil {
		s.logger.Error("create profile failed", slog.String("userId", who.UserID), slog.String("error", err.Error()))
		return model.UserProfile{}, false, err
	}
	return profile, true, nil
}

func defaultDisplayName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "user"
}

type ProfileInput struct {
	Nickname string
	PhotoURL *string
}

// UpdateProfile stores the nickname (and photo when given) and rewrites the
// caller's entry in every shared project they belong to. It returns the
// number of shared projects that changed.
func (s *UserService) UpdateProfile(ctx context.Context, who model.Identity, in ProfileInput) (model.UserProfile, int, error) {
	nickname := strings.TrimSpace(in.Nickname)
	if nickname == "" {
		return model.UserProfile{}, 0, ErrNameRequired
	}
	fields := map[string]interface{}{
		"nickname":    nickname,
		"displayName": nickname,
	}
	if in.PhotoURL != nil {
		fields["photoURL"] = *in.PhotoURL
	}
	if err := s.store.Set(ctx, UsersCollection, who.UserID, fields, true); err != nil {
		s.logger.Error("update profile failed", slog.String("userId", who.UserID), slog.String("error", err.Error()))
		return model.UserProfile{}, 0, err
	}

	profile, err := s.GetProfile(ctx, who.UserID)
	if err != nil {
		return model.UserProfile{}, 0, err
	}
	changed, err := s.pushToSharedProjects(ctx, who.UserID, nickname, in.PhotoURL)
	return profile, changed, err
}

// pushToSharedProjects is best effort per project: a failed write is logged
// and the remaining projects are still updated.
func (s *UserService) pushToSharedProjects(ctx context.Context, uid, nickname string, avatarURL *string) (int, error) {
	docs, err := s.store.Query(ctx, SharedProjectsCollection, Where("memberUids", OpArrayContains, uid))
	if err != nil {
		s.logger.Error("find shared projects failed", slog.String("userId", uid), slog.String("error", err.Error()))
		return 0, fmt.Errorf("find shared projects: %w", err)
	}
	changed := 0
	for _, d := range docs {
		p := NormalizeSharedProject(d.ID, d.Data)
		_, ok, err := s.shared.applyMemberProfile(ctx, p, uid, nickname, avatarURL)
		if err != nil {
			s.logger.Warn("profile push failed", slog.String("projectId", p.ID), slog.String("userId", uid), slog.String("error", err.Error()))
			continue
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

func avatarKey(uid string) string {
	return "avatars/" + uid
}

// UploadAvatar stores an image as the caller's avatar and returns its URL.
func (s *UserService) UploadAvatar(ctx context.Context, who model.Identity, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxAvatarBytes+1))
	if err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}
	if len(data) == 0 || len(data) > maxAvatarBytes {
		return "", ErrUnsupportedAvatar
	}
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), avatarTypes...) {
		return "", ErrUnsupportedAvatar
	}

	url, err := s.blobs.Upload(ctx, avatarKey(who.UserID), bytes.NewReader(data), mtype.String())
	if err != nil {
		s.logger.Error("avatar upload failed", slog.String("userId", who.UserID), slog.String("error", err.Error()))
		return "", err
	}
	if err := s.setPhotoURL(ctx, who.UserID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, who model.Identity) error {
	if err := s.blobs.Delete(ctx, avatarKey(who.UserID)); err != nil {
		s.logger.Error("avatar delete failed", slog.String("userId", who.UserID), slog.String("error", err.Error()))
		return err
	}
	return s.setPhotoURL(ctx, who.UserID, "")
}

func (s *UserService) setPhotoURL(ctx context.Context, uid, url string) error {
	if err := s.store.Set(ctx, UsersCollection, uid, map[string]interface{}{"photoURL": url}, true); err != nil {
		s.logger.Error("update photo failed", slog.String("userId", uid), slog.String("error", err.Error()))
		return err
	}
	_, err := s.pushToSharedProjects(ctx, uid, "", &url)
	return err
}
