// Package observe is the change-subscription mechanism the client stores
// expose: consumers register a callback and receive every published value in
// the order the store produced them.
package observe

import "sync"

// Hub fans values out to subscribers. The zero value is ready to use.
//
// Deliveries are ordered by ticket: a publisher takes the next ticket while
// its owner still holds its own lock, releases that lock, and then waits for
// its turn. The hub never waits for a ticket while the owner's lock is held,
// so a subscriber may read the owner without deadlocking against a
// concurrent publisher.
type Hub[T any] struct {
	mu     sync.Mutex
	turn   *sync.Cond
	issued uint64
	served uint64
	nextID int
	subs   map[int]func(T)
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (h *Hub[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs == nil {
		h.subs = make(map[int]func(T))
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Publish delivers v to every current subscriber.
func (h *Hub[T]) Publish(v T) {
	h.PublishAfter(func() {}, v)
}

// PublishAfter is for owners that publish while holding their own lock. It
// takes a delivery ticket, runs unlock to release the owner's lock, then
// waits for earlier tickets and delivers v. Deliveries therefore happen in
// the owner's mutation order while subscribers are free to read the owner.
// Subscribers must not mutate the owner from inside the callback.
func (h *Hub[T]) PublishAfter(unlock func(), v T) {
	h.mu.Lock()
	ticket := h.issued
	h.issued++
	h.mu.Unlock()

	unlock()

	h.mu.Lock()
	for h.served != ticket {
		h.cond().Wait()
	}
	subs := make([]func(T), 0, len(h.subs))
	for id := 0; id < h.nextID; id++ {
		if fn, ok := h.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.served++
		h.cond().Broadcast()
		h.mu.Unlock()
	}()

	for _, fn := range subs {
		fn(v)
	}
}

// Len returns the number of subscribers.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// cond lazily builds the turn condition. Callers hold h.mu.
func (h *Hub[T]) cond() *sync.Cond {
	if h.turn == nil {
		h.turn = sync.NewCond(&h.mu)
	}
	return h.turn
}
