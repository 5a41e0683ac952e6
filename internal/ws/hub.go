package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smartparking/internal/models"
)

const defaultSendBuffer = 16

// Hub owns the set of live subscribers and fans committed slot changes
// out to them. It is constructed once at startup by the service root and
// passed by reference to whichever component needs to publish.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]chan []byte
	logger      *zap.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]chan []byte),
		logger:      logger,
	}
}

// Subscribe registers a new subscriber and returns its id and receive
// channel. The channel is closed when the subscriber is removed; a newly
// joined subscriber only sees events published after this call.
func (h *Hub) Subscribe() (string, <-chan []byte) {
	id := uuid.NewString()
	ch := make(chan []byte, defaultSendBuffer)

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	h.logger.Info("subscriber joined", zap.String("subscriber_id", id))
	return id, ch
}

// Unsubscribe removes a subscriber. Safe to call at any time, including
// after the hub already dropped the subscriber itself.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	ch, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
		close(ch)
	}
	h.mu.Unlock()

	if ok {
		h.logger.Info("subscriber left", zap.String("subscriber_id", id))
	}
}

// Publish fans the event out to every subscriber. Calls are serialized by
// the hub lock, so all subscribers observe events in the same relative
// order as the Publish calls. Delivery per subscriber is independent: a
// subscriber whose buffer is full is dropped, never waited on.
func (h *Hub) Publish(event models.SlotUpdate) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode slot update", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subscribers {
		select {
		case ch <- payload:
		default:
			delete(h.subscribers, id)
			close(ch)
			h.logger.Warn("dropping slow subscriber", zap.String("subscriber_id", id))
		}
	}
}

// Count returns the current number of subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
