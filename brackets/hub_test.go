package brackets

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesRoomClients(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	watcher := &Client{Hub: hub, Send: make(chan []byte, 4), Room: RoomFor("t1")}
	other := &Client{Hub: hub, Send: make(chan []byte, 4), Room: RoomFor("t2")}
	hub.Register <- watcher
	hub.Register <- other
	require.Eventually(t, func() bool { return hub.ClientCount(RoomFor("t1")) == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("t1", EventRoundBuilt, map[string]string{"round": "Round 2"})

	select {
	case raw := <-watcher.Send:
		var msg WebSocketMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, EventRoundBuilt, msg.Type)
		assert.Equal(t, "tournament_t1", msg.RoomID)
	case <-time.After(time.Second):
		t.Fatal("expected a message for the watched tournament")
	}
	assert.Empty(t, other.Send)
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	c := &Client{Hub: hub, Send: make(chan []byte, 1), Room: RoomFor("t1")}
	hub.Register <- c
	hub.Unregister <- c

	require.Eventually(t, func() bool { return hub.ClientCount(RoomFor("t1")) == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_JoinAndLeaveAfterStopDoNotBlock(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	hub.Stop()
	hub.Stop()

	c := &Client{Hub: hub, Send: make(chan []byte, 1), Room: RoomFor("t1")}
	done := make(chan bool)
	go func() {
		joined := hub.Join(c)
		hub.Leave(c)
		done <- joined
	}()

	select {
	case joined := <-done:
		assert.False(t, joined)
	case <-time.After(time.Second):
		t.Fatal("join and leave blocked on a stopped hub")
	}
	assert.Equal(t, 0, hub.ClientCount(RoomFor("t1")))
}
