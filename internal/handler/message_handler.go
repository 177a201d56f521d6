package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pingpal/backend/internal/database"
	"pingpal/backend/internal/hub"
	"pingpal/backend/internal/message"
	"pingpal/backend/internal/models"
	"pingpal/backend/internal/relation"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// MessageInput defines the structure for sending a direct message.
type MessageInput struct {
	ReceiverID uint   `json:"receiver_id" binding:"required" example:"2"`
	Content    string `json:"content" binding:"required" example:"hello"`
}

// MessageResponse is one direct message as returned to clients.
type MessageResponse struct {
	ID         uint      `json:"id" example:"1"`
	SenderID   uint      `json:"sender_id" example:"1"`
	ReceiverID uint      `json:"receiver_id" example:"2"`
	Content    string    `json:"content" example:"hello"`
	CreatedAt  time.Time `json:"created_at"`
}

func newMessageResponse(msg models.Message) MessageResponse {
	return MessageResponse{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
	}
}

// endregion

// SendMessage godoc
// @Summary      Send a direct message
// @Description  Persists a message to a friend and pushes it to the receiver's live connections.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body MessageInput true "Message"
// @Success      201  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Can only message friends"
// @Failure      404  {object}  ErrorResponse "Sender not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /messages [post]
func SendMessage(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pipeline := message.NewPipeline(database.DB, relation.NewService(database.DB), hub.GlobalHub)
	msg, err := pipeline.Send(viewerID.(uint), input.ReceiverID, input.Content)
	switch {
	case err == nil:
	case errors.Is(err, message.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, message.ErrSenderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, message.ErrNotFriends):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, newMessageResponse(*msg))
}

// GetMessages godoc
// @Summary      Get message history with a friend
// @Description  Returns all messages between the authenticated user and a friend, oldest first.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        peerID  path      int  true  "Peer User ID"
// @Success      200  {array}   MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Can only view messages with friends"
// @Failure      500  {object}  ErrorResponse
// @Router       /messages/{peerID} [get]
func GetMessages(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	peerID, err := strconv.ParseUint(c.Param("peerID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid peer user ID"})
		return
	}

	pipeline := message.NewPipeline(database.DB, relation.NewService(database.DB), hub.GlobalHub)
	messages, err := pipeline.History(viewerID.(uint), uint(peerID))
	switch {
	case err == nil:
	case errors.Is(err, message.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, message.ErrNotFriends):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	responses := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, newMessageResponse(msg))
	}

	c.JSON(http.StatusOK, responses)
}
