package ws

import (
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewhub/internal/observability"
)

func newTestHub() *Hub {
	return NewHub(observability.NewMetrics(prometheus.NewRegistry()), zerolog.Nop())
}

func newTestClient(userID string, queueSize int) *Client {
	return NewClient(userID, nil, queueSize, zerolog.Nop())
}

// drain pops every frame currently queued on the client.
func drain(c *Client) []string {
	var frames []string
	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return frames
			}
			frames = append(frames, string(frame))
		default:
			return frames
		}
	}
}

func TestRegisterOverwrite(t *testing.T) {
	hub := newTestHub()
	h1 := newTestClient("u1", 8)
	h2 := newTestClient("u1", 8)

	hub.Register(h1)
	hub.Register(h2)

	got, ok := hub.Lookup("u1")
	require.True(t, ok)
	assert.Same(t, h2, got)

	// The replaced handle's queue is closed so its write pump exits.
	_, open := <-h1.send
	assert.False(t, open)
}

func TestUnregisterStaleHandleIsNoOp(t *testing.T) {
	hub := newTestHub()
	h1 := newTestClient("u1", 8)
	h2 := newTestClient("u1", 8)

	hub.Register(h1)
	hub.Register(h2)
	hub.Unregister(h1)

	got, ok := hub.Lookup("u1")
	require.True(t, ok)
	assert.Same(t, h2, got)

	hub.Unregister(h2)
	_, ok = hub.Lookup("u1")
	assert.False(t, ok)
}

func TestSendToUserAbsent(t *testing.T) {
	hub := newTestHub()
	assert.False(t, hub.SendToUser("nobody", map[string]string{"type": "typing"}))
}

func TestSendToUserDelivers(t *testing.T) {
	hub := newTestHub()
	c := newTestClient("u1", 8)
	hub.Register(c)

	require.True(t, hub.SendToUser("u1", map[string]string{"type": "typing", "from": "u2"}))

	frames := drain(c)
	require.Len(t, frames, 1)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(frames[0]), &payload))
	assert.Equal(t, "typing", payload["type"])
	assert.Equal(t, "u2", payload["from"])
}

func TestFullQueueDropsFrame(t *testing.T) {
	hub := newTestHub()
	c := newTestClient("u1", 1)
	hub.Register(c)

	assert.True(t, hub.SendToUser("u1", "first"))
	assert.False(t, hub.SendToUser("u1", "second"))
	assert.Len(t, drain(c), 1)
}

func TestBroadcastToGroup(t *testing.T) {
	hub := newTestHub()
	a := newTestClient("u1", 8)
	b := newTestClient("u2", 8)
	hub.Register(a)
	hub.Register(b)
	hub.JoinGroups(a, []string{"g1"})
	hub.JoinGroups(b, []string{"g1"})

	hub.BroadcastToGroup("g1", map[string]string{"type": "receive_group_message"})

	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
}

func TestBroadcastSkipsDisconnectedMember(t *testing.T) {
	hub := newTestHub()
	a := newTestClient("u1", 8)
	b := newTestClient("u2", 8)
	hub.Register(a)
	hub.Register(b)
	hub.JoinGroups(a, []string{"g1"})
	hub.JoinGroups(b, []string{"g1"})
	hub.Unregister(b)

	hub.BroadcastToGroup("g1", map[string]string{"type": "receive_group_message"})

	assert.Len(t, drain(a), 1)
}

func TestUnregisterLeavesRooms(t *testing.T) {
	hub := newTestHub()
	a := newTestClient("u1", 8)
	hub.Register(a)
	hub.JoinGroups(a, []string{"g1", "g2"})
	hub.Unregister(a)

	hub.BroadcastToGroup("g1", "x")
	hub.BroadcastToGroup("g2", "x")
	// queue already closed; nothing to assert beyond not panicking
	_, ok := hub.Lookup("u1")
	assert.False(t, ok)
}
