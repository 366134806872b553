package guardian

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const subscriberBuffer = 32

// Hub delivers outgoing messages to connected guardian streams.
// A nil *Hub drops every message.
type Hub struct {
	mu   sync.Mutex
	subs map[*hubSubscriber]struct{}
	now  func() time.Time
}

type hubSubscriber struct {
	guardianID string
	ch         chan Message
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[*hubSubscriber]struct{}),
		now:  time.Now,
	}
}

// Subscribe returns a channel of messages addressed to guardianID. An empty
// guardianID receives every message. The cancel function closes the channel.
func (h *Hub) Subscribe(guardianID string) (<-chan Message, func()) {
	sub := &hubSubscriber{guardianID: guardianID, ch: make(chan Message, subscriberBuffer)}
	if h == nil {
		close(sub.ch)
		return sub.ch, func() {}
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			h.mu.Unlock()
			close(sub.ch)
		})
	}
}

// Publish hands msg to every matching subscriber. Slow subscribers whose
// buffer is full miss the message.
func (h *Hub) Publish(msg Message) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		if sub.guardianID != "" && sub.guardianID != msg.To {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
			log.Printf("Guardian: dropping %s for %s, stream is full", msg.Type, msg.To)
		}
	}
}

// Broadcast publishes one message per guardian, each with a fresh request id.
func (h *Hub) Broadcast(from, msgType string, payload any, guardianIDs []string) error {
	if h == nil || len(guardianIDs) == 0 {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", msgType, err)
	}
	for _, id := range guardianIDs {
		h.Publish(Message{
			Type:      msgType,
			From:      from,
			To:        id,
			RequestID: uuid.NewString(),
			Payload:   raw,
			Timestamp: Timestamp(h.now()),
		})
	}
	return nil
}

// Subscribers returns the number of open streams.
func (h *Hub) Subscribers() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
