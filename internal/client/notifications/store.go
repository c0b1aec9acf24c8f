// Package notifications keeps the queue of user-facing events: newest first,
// at most Capacity entries, persisted as a whole under the "notifications"
// key after every change. The unread count is always computed from the
// entries, never stored.
package notifications

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dmitrijs2005/librarydesk/internal/client/models"
	"github.com/dmitrijs2005/librarydesk/internal/client/persist"
	"github.com/dmitrijs2005/librarydesk/internal/common"
	"github.com/dmitrijs2005/librarydesk/internal/logging"
	"github.com/dmitrijs2005/librarydesk/internal/observe"
	"github.com/google/uuid"
)

// Capacity bounds the queue. The whole queue is rewritten on every change,
// which stays cheap only while this is small.
const Capacity = 50

// EventType tells subscribers what changed.
type EventType int

const (
	EventRestored EventType = iota
	EventAdded
	EventRead
	EventAllRead
	EventCleared
)

// Event is delivered to subscribers after every change. Items is a copy of
// the queue after the change; Added is set only for EventAdded.
type Event struct {
	Type   EventType
	Added  *models.Notification
	Items  []models.Notification
	Unread int
}

type Store struct {
	mu    sync.Mutex
	hub   observe.Hub[Event]
	kv    persist.Store
	log   logging.Logger
	now   func() time.Time
	items []models.Notification
}

func NewStore(kv persist.Store, log logging.Logger) *Store {
	return &Store{
		kv:  kv,
		log: log.With("component", "notifications"),
		now: time.Now,
	}
}

// Restore replaces the queue with the persisted one. A missing or malformed
// value leaves the queue empty; an oversized one is cut to Capacity. Entries
// with an unknown kind come back as info, the same as Add treats them.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	s.items = nil

	if raw, ok := s.kv.Get(ctx, common.NotificationsKey); ok {
		var items []models.Notification
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			s.log.Warn(ctx, "discarding malformed persisted notifications", "err", err)
		} else {
			if len(items) > Capacity {
				items = items[:Capacity]
			}
			for i := range items {
				if !items[i].Kind.Valid() {
					items[i].Kind = models.KindInfo
				}
			}
			s.items = items
		}
	}

	s.log.Debug(ctx, "notifications restored", "count", len(s.items))
	s.publish(EventRestored, nil)
}

// Add queues a new unread notification and returns it. Title and message
// are stored as given. An unknown kind is treated as info. When the queue is
// over capacity the oldest entries are dropped.
func (s *Store) Add(ctx context.Context, title, message string, kind models.Kind) models.Notification {
	if !kind.Valid() {
		kind = models.KindInfo
	}

	n := models.Notification{
		ID:        newID(),
		Title:     title,
		Message:   message,
		Kind:      kind,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	items := make([]models.Notification, 0, min(len(s.items)+1, Capacity))
	items = append(items, n)
	items = append(items, s.items[:min(len(s.items), Capacity-1)]...)
	s.items = items

	s.persist(ctx)
	added := n
	s.publish(EventAdded, &added)
	return n
}

// MarkAsRead marks the entry with id as read. An unknown id is ignored.
func (s *Store) MarkAsRead(ctx context.Context, id string) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == id {
			changed = !s.items[i].Read
			s.items[i].Read = true
			break
		}
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	s.persist(ctx)
	s.publish(EventRead, nil)
}

// MarkAllAsRead marks every entry as read.
func (s *Store) MarkAllAsRead(ctx context.Context) {
	s.mu.Lock()
	for i := range s.items {
		s.items[i].Read = true
	}
	s.persist(ctx)
	s.publish(EventAllRead, nil)
}

// Clear empties the queue and removes the persisted copy.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.kv.Remove(ctx, common.NotificationsKey)
	s.publish(EventCleared, nil)
}

// List returns a copy of the queue, newest first.
func (s *Store) List() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// UnreadCount counts the entries not yet read.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return unread(s.items)
}

// Len returns the number of queued entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subscribe registers fn for every change. fn may read the store but must
// not modify it.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	return s.hub.Subscribe(fn)
}

func (s *Store) snapshot() []models.Notification {
	out := make([]models.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// persist writes the whole queue. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []models.Notification{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		s.log.Error(ctx, "cannot encode notifications", "err", err)
		return
	}
	s.kv.Set(ctx, common.NotificationsKey, string(b))
}

// publish releases s.mu and notifies subscribers.
func (s *Store) publish(t EventType, added *models.Notification) {
	ev := Event{Type: t, Added: added, Items: s.snapshot(), Unread: unread(s.items)}
	s.hub.PublishAfter(s.mu.Unlock, ev)
}

func unread(items []models.Notification) int {
	n := 0
	for _, item := range items {
		if !item.Read {
			n++
		}
	}
	return n
}

// newID returns a time-ordered UUIDv7, unique within the process.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
