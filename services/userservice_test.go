package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lifedashboard/model"
)

// Smallest valid PNG: signature plus IHDR, enough for content sniffing.
var pngHeader = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

func TestEnsureProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, created, err := env.users.EnsureProfile(ctx, alice)
	if err != nil || !created {
		t.Fatalf("first call: created=%v err=%v", created, err)
	}
	if p.DisplayName != "alice" {
		t.Errorf("displayName = %q, want email local part", p.DisplayName)
	}
	if _, created, err := env.users.EnsureProfile(ctx, alice); err != nil || created {
		t.Fatalf("second call: created=%v err=%v", created, err)
	}

	anon, _, err := env.users.EnsureProfile(ctx, model.Identity{UserID: "u9"})
	if err != nil || anon.DisplayName != "user" {
		t.Errorf("no email: %+v, %v", anon, err)
	}
}

func TestUpdateProfilePushesToSharedProjects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1, _ := createShared(t, env, alice, "One")
	p2, _ := createShared(t, env, bob, "Two")
	if _, err := env.shared.Join(ctx, alice, p2.ID, ""); err != nil {
		t.Fatal(err)
	}
	other, _ := createShared(t, env, bob, "Not mine")

	if _, _, err := env.users.UpdateProfile(ctx, alice, ProfileInput{Nickname: "  "}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("blank nickname: err = %v", err)
	}

	profile, changed, err := env.users.UpdateProfile(ctx, alice, ProfileInput{Nickname: "Ally"})
	if err != nil {
		t.Fatal(err)
	}
	if profile.Nickname != "Ally" || changed != 2 {
		t.Fatalf("profile=%+v changed=%d", profile, changed)
	}
	for _, id := range []string{p1.ID, p2.ID} {
		sp, _ := env.shared.Get(ctx, id)
		m, _ := sp.Member(alice.UserID)
		if m.Nickname != "Ally" || m.Name != "Ally" {
			t.Errorf("%s member = %+v", id, m)
		}
	}
	untouched, _ := env.shared.Get(ctx, other.ID)
	if untouched.HasMember(alice.UserID) {
		t.Error("profile push added alice to a foreign project")
	}

	if _, changed, err := env.users.UpdateProfile(ctx, alice, ProfileInput{Nickname: "Ally"}); err != nil || changed != 0 {
		t.Errorf("unchanged push: changed=%d err=%v", changed, err)
	}
}

func TestAvatarUploadAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dir := t.TempDir()
	env.users.blobs = &LocalBlobStore{Dir: dir, BaseURL: "http://localhost/files/"}
	p, _ := createShared(t, env, alice, "One")

	if _, err := env.users.UploadAvatar(ctx, alice, strings.NewReader("not an image")); !errors.Is(err, ErrUnsupportedAvatar) {
		t.Fatalf("text upload: err = %v", err)
	}
	big := append(append([]byte(nil), pngHeader...), bytes.Repeat([]byte{0}, maxAvatarBytes)...)
	if _, err := env.users.UploadAvatar(ctx, alice, bytes.NewReader(big)); !errors.Is(err, ErrUnsupportedAvatar) {
		t.Fatalf("oversized upload: err = %v", err)
	}

	url, err := env.users.UploadAvatar(ctx, alice, bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatal(err)
	}
	if url != "http://localhost/files/avatars/u1" {
		t.Errorf("url = %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "avatars", "u1")); err != nil {
		t.Fatalf("blob not written: %v", err)
	}
	profile, _ := env.users.GetProfile(ctx, alice.UserID)
	if profile.PhotoURL != url {
		t.Errorf("photoURL = %q", profile.PhotoURL)
	}
	sp, _ := env.shared.Get(ctx, p.ID)
	if m, _ := sp.Member(alice.UserID); m.AvatarURL != url || m.Nickname != "Alice" {
		t.Errorf("member after upload = %+v", m)
	}

	if err := env.users.DeleteAvatar(ctx, alice); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "avatars", "u1")); !os.IsNotExist(err) {
		t.Errorf("blob still present: %v", err)
	}
	profile, _ = env.users.GetProfile(ctx, alice.UserID)
	if profile.PhotoURL != "" {
		t.Errorf("photoURL after delete = %q", profile.PhotoURL)
	}
}

func TestLocalBlobStoreRejectsRootKey(t *testing.T) {
	s := &LocalBlobStore{Dir: t.TempDir()}
	if _, err := s.Upload(context.Background(), "../", strings.NewReader("x"), "text/plain"); err == nil {
		t.Fatal("expected error for empty key")
	}
}
