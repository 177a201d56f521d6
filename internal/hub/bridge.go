package hub

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// eventsChannel is the Redis pub/sub channel shared by all server processes.
const eventsChannel = "pingpal:events"

// envelope wraps an addressed event for the pub/sub wire. Origin identifies
// the publishing process so it can skip its own messages on receipt.
type envelope struct {
	Origin string `json:"origin"`
	UserID uint   `json:"user_id"`
	Event  Event  `json:"event"`
}

// Bridge fans deliveries out to hubs in other processes through Redis
// pub/sub, so a client registered on any process receives events addressed
// to its user.
type Bridge struct {
	rdb    *redis.Client
	origin string
}

// NewBridge connects to Redis at the given address.
func NewBridge(addr string) *Bridge {
	return &Bridge{
		rdb:    redis.NewClient(&redis.Options{Addr: addr}),
		origin: uuid.NewString(),
	}
}

// Publish broadcasts an addressed event to all subscribed processes.
// Failures are logged and otherwise ignored: the local delivery already
// happened, and remote clients self-heal by refetching.
func (b *Bridge) Publish(userID uint, event Event) {
	payload, err := json.Marshal(envelope{
		Origin: b.origin,
		UserID: userID,
		Event:  event,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to encode bridge envelope")
		return
	}

	if err := b.rdb.Publish(context.Background(), eventsChannel, payload).Err(); err != nil {
		logrus.WithError(err).Warn("failed to publish event to bridge")
	}
}

// listen replays events published by other processes into the local registry.
func (b *Bridge) listen(h *Hub) {
	sub := b.rdb.Subscribe(context.Background(), eventsChannel)
	for msg := range sub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			logrus.WithError(err).Warn("discarding malformed bridge envelope")
			continue
		}
		if env.Origin == b.origin {
			continue
		}
		h.deliverLocal(env.UserID, env.Event)
	}
}
