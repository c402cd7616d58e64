// Package realtime fans conversation changes out to live subscribers.
// Delivery is per-conversation in-order and at-least-once: the message
// service publishes every send/delete after its transaction commits,
// and a client that reconnects re-reads the initial window, so
// duplicates are possible but reordering is not.
package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/models"
)

type EventType string

const (
	EventMessageSent    EventType = "message_sent"
	EventMessageDeleted EventType = "message_deleted"
)

type Event struct {
	Type      EventType          `json:"type"`
	Message   *models.Message    `json:"message,omitempty"`
	MessageId primitive.ObjectID `json:"messageId,omitempty"`
}

// Subscription is one live listener on a conversation. Close detaches
// it without affecting other subscribers.
type Subscription struct {
	id  string
	key string
	ch  chan Event
	hub *Hub
}

// Events yields the conversation's changes in order. The channel is
// closed when the subscription is detached, by Close or by the hub
// after a buffer overflow.
func (s *Subscription) Events() <-chan Event { return s.ch }

func (s *Subscription) Close() { s.hub.remove(s.key, s.id) }

type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[string]*Subscription
	buffer int
	log    *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[string]*Subscription),
		buffer: 64,
		log:    log,
	}
}

// Subscribe registers a listener on the conversation key (see
// models.ConversationKey).
func (h *Hub) Subscribe(key string) *Subscription {
	sub := &Subscription{
		id:  uuid.NewString(),
		key: key,
		ch:  make(chan Event, h.buffer),
		hub: h,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[string]*Subscription)
	}
	h.subs[key][sub.id] = sub
	return sub
}

// Publish delivers ev to every subscriber of key. A subscriber that
// cannot keep up is detached rather than skipped: dropping a single
// event would break the in-order contract, closing the stream lets the
// client resubscribe and reload the window.
func (h *Hub) Publish(key string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs[key] {
		select {
		case sub.ch <- ev:
		default:
			h.log.Warn("subscriber overflow, detaching", "conversation", key, "subscriber", id)
			h.detachLocked(key, id)
		}
	}
}

func (h *Hub) remove(key, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(key, id)
}

func (h *Hub) detachLocked(key, id string) {
	subs := h.subs[key]
	sub, ok := subs[id]
	if !ok {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(h.subs, key)
	}
	close(sub.ch)
}

// Subscribers reports the number of live listeners on a conversation.
func (h *Hub) Subscribers(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[key])
}
