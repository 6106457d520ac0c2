package services

import (
	"io"
	"log/slog"
	"testing"

	"lifedashboard/model"
)

type testEnv struct {
	store     *MemoryStore
	shortcuts *ShortcutService
	shared    *SharedProjectService
	projects  *ProjectService
	users     *UserService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := NewMemoryStore()
	logger := discardLogger()
	shortcuts := NewShortcutService(store)
	shared := NewSharedProjectService(store, shortcuts, logger)
	projects := NewProjectService(store, shared, logger)
	users := NewUserService(store, shared, &LocalBlobStore{Dir: t.TempDir(), BaseURL: "http://localhost/files"}, logger)
	return &testEnv{store: store, shortcuts: shortcuts, shared: shared, projects: projects, users: users}
}

var (
	alice = model.Identity{UserID: "u1", DisplayName: "Alice", Email: "alice@example.com"}
	bob   = model.Identity{UserID: "u2", DisplayName: "Bob", Email: "bob@example.com"}
	carol = model.Identity{UserID: "u3", DisplayName: "Carol", Email: "carol@example.com"}
)

func memberIDs(p model.SharedProject) []string {
	ids := make([]string, 0, len(p.Members))
	for _, m := range p.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
