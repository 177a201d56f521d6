package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case data := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	default:
		t.Fatal("expected an event but the client channel is empty")
		return Event{}
	}
}

func TestDeliverReachesRegisteredClient(t *testing.T) {
	h := NewHub()
	client := NewClient(7)
	h.Register(client)

	h.Deliver(7, "newFriendRequest", nil)

	event := receiveEvent(t, client)
	assert.Equal(t, "newFriendRequest", event.Type)
	assert.Nil(t, event.Payload)
}

func TestDeliverFansOutToAllClientsOfUser(t *testing.T) {
	h := NewHub()
	first := NewClient(7)
	second := NewClient(7)
	h.Register(first)
	h.Register(second)

	h.Deliver(7, "receiveMessage", map[string]string{"content": "hi"})

	for _, client := range []*Client{first, second} {
		event := receiveEvent(t, client)
		assert.Equal(t, "receiveMessage", event.Type)
	}
}

func TestDeliverToUnregisteredUserIsDropped(t *testing.T) {
	h := NewHub()
	bystander := NewClient(1)
	h.Register(bystander)

	// No channel registered for user 99: the event is silently dropped.
	h.Deliver(99, "newFriendRequest", nil)

	assert.Empty(t, bystander.Send)
}

func TestDeliverDoesNotCrossUsers(t *testing.T) {
	h := NewHub()
	alice := NewClient(1)
	bob := NewClient(2)
	h.Register(alice)
	h.Register(bob)

	h.Deliver(1, "newFriendRequest", nil)

	assert.Len(t, alice.Send, 1)
	assert.Empty(t, bob.Send)
}

func TestRegisterSameClientTwiceIsNoOp(t *testing.T) {
	h := NewHub()
	client := NewClient(7)
	h.Register(client)
	h.Register(client)

	h.Deliver(7, "ping", nil)

	assert.Len(t, client.Send, 1)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	h := NewHub()
	client := NewClient(7)
	h.Register(client)
	h.Unregister(client)

	h.Deliver(7, "newFriendRequest", nil)

	_, open := <-client.Send
	assert.False(t, open, "channel should be closed after unregister")
}

func TestUnregisterIsIdempotent(t *testing.T) {
	h := NewHub()
	client := NewClient(7)
	h.Register(client)

	h.Unregister(client)
	assert.NotPanics(t, func() { h.Unregister(client) })

	// Unregistering a client that was never registered is also a no-op.
	assert.NotPanics(t, func() { h.Unregister(NewClient(8)) })
}

func TestSlowClientDoesNotBlockDelivery(t *testing.T) {
	h := NewHub()
	slow := NewClient(7)
	h.Register(slow)

	// Overfill the client's buffer; every extra delivery must be dropped
	// without blocking the hub.
	for i := 0; i < cap(slow.Send)+10; i++ {
		h.Deliver(7, "receiveMessage", i)
	}

	assert.Len(t, slow.Send, cap(slow.Send))
}
