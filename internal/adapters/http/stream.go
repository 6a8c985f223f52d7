package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/lattice/pkg/domain"
)

// StreamManager fans layout diffs out to the SSE subscribers of each
// layout key.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a new listener for the key. The returned cancel
// func removes the listener and closes its channel.
func (sm *StreamManager) Subscribe(key string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[key]; !ok {
		sm.subscribers[key] = make(map[chan<- string]struct{})
	}
	sm.subscribers[key][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[key]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, key)
			}
		}
	}
}

// Broadcast delivers msg to every subscriber of the key. Slow clients
// with a full buffer miss the message rather than blocking the editor.
func (sm *StreamManager) Broadcast(key string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[key] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Subscribers reports how many listeners the key currently has.
func (sm *StreamManager) Subscribers(key string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[key])
}

// subscribeEvents handles GET /api/layouts/{key}/events (SSE). Each event
// carries one JSON-encoded layout diff. The optional watch query filters
// events to the named aspects (widgets, roots, metadata).
func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(key)
	defer cancel()

	s.logger.Info("SSE subscriber connected", "key", key)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE subscriber disconnected", "key", key)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !diffMatches(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// diffMatches reports whether the serialized diff touches any watched
// aspect. Unparseable messages pass through unfiltered.
func diffMatches(msg string, watchList []string) bool {
	var diff domain.LayoutDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, aspect := range watchList {
		switch strings.TrimSpace(aspect) {
		case "widgets":
			if len(diff.Added) > 0 || len(diff.Removed) > 0 || len(diff.Updated) > 0 {
				return true
			}
		case "roots":
			if diff.RootsChanged {
				return true
			}
		case "metadata":
			if diff.MetadataChanged {
				return true
			}
		}
	}
	return false
}
