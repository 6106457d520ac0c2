package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// Every DocumentStore implementation that runs without network access goes
// through the same checks.
func storeBackends(t *testing.T) map[string]func(t *testing.T) DocumentStore {
	return map[string]func(t *testing.T) DocumentStore{
		"memory": func(t *testing.T) DocumentStore { return NewMemoryStore() },
		"sqlite": func(t *testing.T) DocumentStore {
			s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "docs.db"))
			if err != nil {
				t.Fatalf("OpenSQLiteStore: %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func TestDocumentStoreContract(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			if _, err := s.Get(ctx, "things", "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
			}
			if err := s.Update(ctx, "things", "missing", map[string]interface{}{"a": 1}); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Update missing: err = %v, want ErrNotFound", err)
			}

			id, err := s.Add(ctx, "things", map[string]interface{}{"title": "first", "tags": []interface{}{"x", "y"}})
			if err != nil || id == "" {
				t.Fatalf("Add: id=%q err=%v", id, err)
			}

			if err := s.Set(ctx, "things", id, map[string]interface{}{"extra": true}, true); err != nil {
				t.Fatalf("Set merge: %v", err)
			}
			doc, err := s.Get(ctx, "things", id)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if toString(doc.Data["title"]) != "first" || !toBool(doc.Data["extra"], false) {
				t.Fatalf("merge lost fields: %#v", doc.Data)
			}

			if err := s.Set(ctx, "things", id, map[string]interface{}{"title": "replaced"}, false); err != nil {
				t.Fatalf("Set replace: %v", err)
			}
			doc, _ = s.Get(ctx, "things", id)
			if _, ok := doc.Data["extra"]; ok {
				t.Fatalf("replace kept old fields: %#v", doc.Data)
			}

			if err := s.Update(ctx, "things", id, map[string]interface{}{"tags": []interface{}{"z"}, "n": 3}); err != nil {
				t.Fatalf("Update: %v", err)
			}
			if err := s.Set(ctx, "things", "other", map[string]interface{}{"title": "replaced", "tags": []interface{}{"x"}, "n": 3}, false); err != nil {
				t.Fatalf("Set other: %v", err)
			}

			byTag, err := s.Query(ctx, "things", Where("tags", OpArrayContains, "z"))
			if err != nil || len(byTag) != 1 || byTag[0].ID != id {
				t.Fatalf("array-contains query = %+v, %v", byTag, err)
			}
			byTitle, err := s.Query(ctx, "things", Where("title", OpEqual, "replaced"), Where("n", OpEqual, 3))
			if err != nil || len(byTitle) != 2 {
				t.Fatalf("equality query = %+v, %v", byTitle, err)
			}
			none, err := s.Query(ctx, "nothing-here")
			if err != nil || len(none) != 0 {
				t.Fatalf("empty collection query = %+v, %v", none, err)
			}

			if err := s.Delete(ctx, "things", id); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, "things", id); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get after delete: %v", err)
			}
			if err := s.Delete(ctx, "things", id); err != nil {
				t.Fatalf("Delete twice: %v", err)
			}
			if err := s.Ping(ctx); err != nil {
				t.Fatalf("Ping: %v", err)
			}
		})
	}
}

func TestDocumentStoreWatch(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			s := open(t)

			if err := s.Set(ctx, "things", "a", map[string]interface{}{"v": "one"}, false); err != nil {
				t.Fatal(err)
			}
			updates, err := s.Watch(ctx, "things", "a")
			if err != nil {
				t.Fatalf("Watch: %v", err)
			}

			next := func() *Document {
				t.Helper()
				select {
				case d := <-updates:
					return d
				case <-time.After(2 * time.Second):
					t.Fatal("timed out waiting for snapshot")
				}
				return nil
			}

			if d := next(); d == nil || toString(d.Data["v"]) != "one" {
				t.Fatalf("initial snapshot = %+v", d)
			}
			if err := s.Update(ctx, "things", "a", map[string]interface{}{"v": "two"}); err != nil {
				t.Fatal(err)
			}
			if d := next(); d == nil || toString(d.Data["v"]) != "two" {
				t.Fatalf("update snapshot = %+v", d)
			}
			if err := s.Delete(ctx, "things", "a"); err != nil {
				t.Fatal(err)
			}
			if d := next(); d != nil {
				t.Fatalf("delete snapshot = %+v, want nil", d)
			}

			cancel()
			select {
			case _, ok := <-updates:
				if ok {
					t.Fatal("channel still open after cancel")
				}
			case <-time.After(2 * time.Second):
				t.Fatal("channel not closed after cancel")
			}
		})
	}
}

func TestDocumentStoreWatchEndsOnLatestWrite(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			s := open(t)

			updates, err := s.Watch(ctx, "things", "a")
			if err != nil {
				t.Fatalf("Watch: %v", err)
			}

			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					v := map[string]interface{}{"v": fmt.Sprintf("w%d", i)}
					if err := s.Set(ctx, "things", "a", v, false); err != nil {
						t.Errorf("Set: %v", err)
					}
				}(i)
			}
			wg.Wait()

			stored, err := s.Get(ctx, "things", "a")
			if err != nil {
				t.Fatal(err)
			}
			var last *Document
		drain:
			for {
				select {
				case d := <-updates:
					last = d
				default:
					break drain
				}
			}
			if last == nil || toString(last.Data["v"]) != toString(stored.Data["v"]) {
				t.Fatalf("last snapshot = %+v, store holds %v", last, stored.Data["v"])
			}
		})
	}
}
