package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"interviewhub/internal/observability"
)

// Hub is the connection registry: at most one live client per user id, plus
// the group rooms each client joined at bootstrap. All state lives behind one
// mutex; no operation performs I/O while holding it (pushes are non-blocking
// channel sends).
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // userID -> current client, last registration wins
	rooms   map[string]map[string]*Client // groupID -> userID -> client

	metrics *observability.Metrics
	log     zerolog.Logger
}

func NewHub(metrics *observability.Metrics, log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
		metrics: metrics,
		log:     log,
	}
}

// Register maps the client's user id to this client, unconditionally
// replacing any previous registration. The replaced client's network
// connection is not closed here, only its outbound queue, so its write pump
// ends and no further delivery can reach it. Its own Unregister call will
// then be a no-op.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[c.UserID]; ok && old != c {
		h.removeFromRoomsLocked(old)
		old.closeQueue()
		h.metrics.ActiveConnections.Dec()
	}
	h.clients[c.UserID] = c
	h.metrics.ActiveConnections.Inc()
	h.log.Info().Str("user_id", c.UserID).Msg("client registered")
}

// JoinGroups subscribes the client to each group's fan-out set. Called once
// at session bootstrap with the membership list resolved at that moment.
func (h *Hub) JoinGroups(c *Client, groupIDs []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, gid := range groupIDs {
		if h.rooms[gid] == nil {
			h.rooms[gid] = make(map[string]*Client)
		}
		h.rooms[gid][c.UserID] = c
	}
}

// Unregister removes the mapping only if this client is still the registered
// handle for its user, so a stale disconnect never evicts a newer session.
// The outbound queue is closed here, under the lock, which is safe because
// every push also runs under the lock.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[c.UserID]; !ok || current != c {
		return
	}
	delete(h.clients, c.UserID)
	h.removeFromRoomsLocked(c)
	c.closeQueue()
	h.metrics.ActiveConnections.Dec()
	h.log.Info().Str("user_id", c.UserID).Msg("client unregistered")
}

func (h *Hub) removeFromRoomsLocked(c *Client) {
	for gid, room := range h.rooms {
		if room[c.UserID] == c {
			delete(room, c.UserID)
			if len(room) == 0 {
				delete(h.rooms, gid)
			}
		}
	}
}

// Lookup returns the currently registered client for a user, if any.
func (h *Hub) Lookup(userID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[userID]
	return c, ok
}

// SendToUser pushes one event to a user's live connection. It reports false
// when the user has no connection or the frame was dropped; callers treat
// both as "deliver via history later".
func (h *Hub) SendToUser(userID string, v any) bool {
	frame, err := json.Marshal(v)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal ws event")
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[userID]
	if !ok {
		return false
	}
	if !c.push(frame) {
		h.metrics.MessagesDropped.Inc()
		h.log.Warn().Str("user_id", userID).Msg("send queue full, frame dropped")
		return false
	}
	return true
}

// BroadcastToGroup pushes one event to every connection subscribed to the
// group room, the sender's included. Members without a live connection are
// skipped; they catch up from history.
func (h *Hub) BroadcastToGroup(groupID string, v any) {
	frame, err := json.Marshal(v)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal ws event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.rooms[groupID] {
		if !c.push(frame) {
			h.metrics.MessagesDropped.Inc()
		}
	}
}
