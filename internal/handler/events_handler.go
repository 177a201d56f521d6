package handler

import (
	"io"
	"time"

	"pingpal/backend/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// heartbeatInterval keeps intermediaries from timing out an idle stream.
const heartbeatInterval = 25 * time.Second

// StreamEvents godoc
// @Summary      Open the real-time event stream
// @Description  Opens a server-sent-events stream bound to the authenticated user. Pushed events are refetch signals and incoming messages.
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {string}  string  "event stream"
// @Failure      401  {object}  ErrorResponse
// @Router       /events [get]
func StreamEvents(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	// Binding the channel to the verified token identity is the
	// joinRoom-equivalent: a client can only ever register as itself.
	client := hub.NewClient(viewerID.(uint))
	hub.GlobalHub.Register(client)
	defer hub.GlobalHub.Unregister(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	logrus.WithField("user_id", client.UserID).Info("event stream opened")
	defer logrus.WithField("user_id", client.UserID).Info("event stream closed")

	c.Stream(func(w io.Writer) bool {
		select {
		case data, ok := <-client.Send:
			if !ok {
				return false
			}
			c.SSEvent("message", string(data))
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", "")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
