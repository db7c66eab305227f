package realtime

import (
	"errors"
	"sync"
)

// ErrPollNotFound is returned by Subscribe when the target poll does not exist.
var ErrPollNotFound = errors.New("poll not found")

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// PollFinder answers whether a poll exists. Implemented by the storage layer;
// kept as an interface so the hub stays testable without a database.
type PollFinder interface {
	PollExists(pollID string) (bool, error)
}

// PollFinderFunc adapts a plain function to the PollFinder interface.
type PollFinderFunc func(pollID string) (bool, error)

func (f PollFinderFunc) PollExists(pollID string) (bool, error) { return f(pollID) }

// Hub maintains the live set of subscribers per poll and fans tally updates
// out to them. Purely runtime state: sets are created on first subscribe,
// dropped when the last subscriber leaves, and rebuilt as clients reconnect.
type Hub struct {
	finder PollFinder

	mu              sync.RWMutex
	pollIdToClients map[string]map[Client]struct{}
	clientToPollId  map[Client]string
}

// NewHub creates a hub that validates subscriptions against finder.
// Construct one per process (or per test) and pass it by handle; the hub is
// deliberately not a package singleton so tests can start from a clean slate.
func NewHub(finder PollFinder) *Hub {
	return &Hub{
		finder:          finder,
		pollIdToClients: make(map[string]map[Client]struct{}),
		clientToPollId:  make(map[Client]string),
	}
}

// Subscribe adds the client to the poll's subscriber set after confirming the
// poll exists. A client views exactly one poll: subscribing a client that is
// already registered moves it to the new poll.
func (h *Hub) Subscribe(pollID string, client Client) error {
	ok, err := h.finder.PollExists(pollID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPollNotFound
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, registered := h.clientToPollId[client]; registered {
		h.removeLocked(prev, client)
	}
	if _, ok := h.pollIdToClients[pollID]; !ok {
		h.pollIdToClients[pollID] = make(map[Client]struct{})
	}
	h.pollIdToClients[pollID][client] = struct{}{}
	h.clientToPollId[client] = pollID
	return nil
}

// Unsubscribe removes the client from whichever poll it is subscribed to.
// Idempotent: unsubscribing an unknown or already-removed client is a no-op,
// so the disconnect path and a failed-write path may both call it safely.
func (h *Hub) Unsubscribe(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	pollID, ok := h.clientToPollId[client]
	if !ok {
		return
	}
	h.removeLocked(pollID, client)
}

func (h *Hub) removeLocked(pollID string, client Client) {
	delete(h.clientToPollId, client)
	if clients, ok := h.pollIdToClients[pollID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.pollIdToClients, pollID)
		}
	}
}

// Broadcast delivers message to every current subscriber of the poll.
// A client whose send fails is unsubscribed and closed; the failure never
// aborts delivery to the remaining subscribers and is never retried — the
// next vote's tally supersedes anything a client missed.
func (h *Hub) Broadcast(pollID string, message []byte) {
	h.mu.RLock()
	clients := make([]Client, 0, len(h.pollIdToClients[pollID]))
	for c := range h.pollIdToClients[pollID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if ok := c.Send(message); !ok {
			h.Unsubscribe(c)
			c.Close()
		}
	}
}

// SubscriberCount reports the current size of a poll's subscriber set.
func (h *Hub) SubscriberCount(pollID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pollIdToClients[pollID])
}
