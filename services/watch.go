package services

import (
	"context"
	"sync"
)

// watchHub fans document changes out to in-process watchers. The memory and
// sqlite stores use it; Firestore has its own snapshot listeners.
type watchHub struct {
	mu       sync.Mutex
	watchers map[string]map[chan *Document]struct{}
}

func newWatchHub() *watchHub {
	return &watchHub{watchers: make(map[string]map[chan *Document]struct{})}
}

func watchKey(collection, id string) string {
	return collection + "\x00" + id
}

// subscribe registers a watcher and sends the initial state. The returned
// channel is closed once ctx is done.
func (h *watchHub) subscribe(ctx context.Context, collection, id string, initial *Document) <-chan *Document {
	ch := make(chan *Document, 8)
	ch <- initial

	key := watchKey(collection, id)
	h.mu.Lock()
	if h.watchers[key] == nil {
		h.watchers[key] = make(map[chan *Document]struct{})
	}
	h.watchers[key][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.watchers[key], ch)
		if len(h.watchers[key]) == 0 {
			delete(h.watchers, key)
		}
		h.mu.Unlock()
		close(ch)
	}()
	return ch
}

// publish delivers doc to every watcher. Slow watchers drop intermediate
// states; they always see a later one.
func (h *watchHub) publish(collection, id string, doc *Document) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.watchers[watchKey(collection, id)] {
		select {
		case ch <- doc:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- doc:
			default:
			}
		}
	}
}
