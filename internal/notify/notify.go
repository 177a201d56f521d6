// Package notify emits the payload-free refetch signals that keep clients in
// sync with their social graph. A signal only says "your state changed";
// recipients refetch their full current-user view instead of applying a
// patch, so a dropped, duplicated, or reordered signal costs at most one
// redundant fetch and can never leave a client inconsistent.
package notify

import "pingpal/backend/internal/hub"

// Event names pushed to clients.
const (
	EventNewFriendRequest    = "newFriendRequest"
	EventFriendRequestAnswer = "friendRequestResponse"
)

// Notifier dispatches signals through the connection registry.
type Notifier struct {
	hub *hub.Hub
}

// NewNotifier creates a notifier that delivers through the given hub.
func NewNotifier(h *hub.Hub) *Notifier {
	return &Notifier{hub: h}
}

// FriendRequestSent signals the receiver of a new friend request.
func (n *Notifier) FriendRequestSent(receiverID uint) {
	n.hub.Deliver(receiverID, EventNewFriendRequest, nil)
}

// FriendRequestResponded signals the original sender that their request was
// answered. Sent on accept and decline alike; the sender learns which by
// refetching.
func (n *Notifier) FriendRequestResponded(senderID uint) {
	n.hub.Deliver(senderID, EventFriendRequestAnswer, nil)
}
