// Package hub fans out serialized messages to a changing set of subscribers.
package hub

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/panics"
	"github.com/ukydev/fleet-simulator/internal/models"
)

// Subscriber is a live connection able to receive one discrete message.
type Subscriber interface {
	Send(msg []byte) error
}

// Handle identifies a subscription.
type Handle string

// Hub is the registry of live subscribers. Membership, the in-flight
// delivery count and the closed flag are all guarded by mu.
type Hub struct {
	mu          sync.Mutex
	subscribers map[Handle]Subscriber
	inflight    int
	drained     *sync.Cond
	closed      bool
}

func New() *Hub {
	h := &Hub{subscribers: make(map[Handle]Subscriber)}
	h.drained = sync.NewCond(&h.mu)
	return h
}

// Subscribe registers sub and returns its handle.
func (h *Hub) Subscribe(sub Subscriber) Handle {
	id := Handle(uuid.NewString())

	h.mu.Lock()
	h.subscribers[id] = sub
	n := len(h.subscribers)
	h.mu.Unlock()

	log.WithFields(log.Fields{"handle": id, "subscribers": n}).Info("Subscriber connected")
	return id
}

// Unsubscribe removes the subscriber and tells the remaining ones how many
// sessions are left. Unknown handles are ignored.
func (h *Hub) Unsubscribe(id Handle) {
	h.mu.Lock()
	_, ok := h.subscribers[id]
	delete(h.subscribers, id)
	n := len(h.subscribers)
	h.mu.Unlock()

	if !ok {
		return
	}
	log.WithFields(log.Fields{"handle": id, "subscribers": n}).Info("Subscriber disconnected")

	msg, err := json.Marshal(models.NewSessionCount(n))
	if err != nil {
		log.WithError(err).Error("Failed to marshal session count")
		return
	}
	h.Publish(msg)
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Publish hands msg to every subscriber present at call time. Each delivery
// runs on its own goroutine; Publish never waits for them and delivery
// failures are dropped. Messages published after Close are discarded.
func (h *Hub) Publish(msg []byte) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	targets := make(map[Handle]Subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		targets[id] = sub
	}
	h.inflight += len(targets)
	h.mu.Unlock()

	for id, sub := range targets {
		go h.deliver(id, sub, msg)
	}
}

// Flush waits until no delivery is in flight. Publish may keep running
// concurrently; Flush then returns at the first moment the hub is idle.
func (h *Hub) Flush() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for h.inflight > 0 {
		h.drained.Wait()
	}
}

// Close stops accepting new messages and waits for in-flight deliveries.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.Flush()
}

func (h *Hub) done() {
	h.mu.Lock()
	h.inflight--
	if h.inflight == 0 {
		h.drained.Broadcast()
	}
	h.mu.Unlock()
}

func (h *Hub) deliver(id Handle, sub Subscriber, msg []byte) {
	defer h.done()

	var err error
	var pc panics.Catcher
	pc.Try(func() { err = sub.Send(msg) })
	if r := pc.Recovered(); r != nil {
		err = fmt.Errorf("subscriber panicked: %v", r.Value)
	}
	if err != nil {
		log.WithFields(log.Fields{"handle": id}).WithError(err).Debug("Delivery dropped")
	}
}
