package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := NewHub()
	go h.Run(ctx)
	return h
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg := <-c.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	h := startHub(t)
	a := NewClient("a", h, nil)
	b := NewClient("b", h, nil)
	h.Register(a)
	h.Register(b)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, h.Broadcast("branding_updated", map[string]string{"primary": "#ffffff"}))

	for _, c := range []*Client{a, b} {
		ev := receive(t, c)
		assert.Equal(t, "branding_updated", ev.Type)
		assert.Equal(t, map[string]interface{}{"primary": "#ffffff"}, ev.Data)
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := startHub(t)
	c := NewClient("a", h, nil)
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Unregister(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_PingGetsPong(t *testing.T) {
	h := startHub(t)
	c := NewClient("a", h, nil)
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.HandleClientMessage(c, []byte(`{"type":"ping"}`))
	assert.Equal(t, "pong", receive(t, c).Type)

	// malformed frames are ignored
	h.HandleClientMessage(c, []byte(`not json`))
	assert.Len(t, c.Send, 0)
}

func TestHub_PrimeBeforeRegister(t *testing.T) {
	h := startHub(t)
	c := NewClient("fresh", h, nil)

	require.NoError(t, h.Prime(c, "branding_updated", map[string]string{"primary": "#c9a961"}))
	h.Register(c)

	ev := receive(t, c)
	assert.Equal(t, "branding_updated", ev.Type)
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	registered := NewClient("registered", h, nil)
	h.Register(registered)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped

	_, open := <-registered.Send
	assert.False(t, open, "stop closes registered clients")

	// more exits than the unregister buffer holds
	finished := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			h.Unregister(NewClient("late", h, nil))
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after the hub stopped")
	}

	late := NewClient("late", h, nil)
	h.Register(late)
	_, open = <-late.Send
	assert.False(t, open, "registering on a stopped hub closes the client")
}
