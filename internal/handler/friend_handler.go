package handler

import (
	"errors"
	"net/http"

	"pingpal/backend/internal/database"
	"pingpal/backend/internal/hub"
	"pingpal/backend/internal/notify"
	"pingpal/backend/internal/relation"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// FriendRequestInput identifies the user receiving a friend request.
type FriendRequestInput struct {
	ReceiverID uint `json:"receiver_id" binding:"required" example:"2"`
}

// FriendResponseInput answers a pending friend request.
type FriendResponseInput struct {
	SenderID uint  `json:"sender_id" binding:"required" example:"2"`
	Accept   *bool `json:"accept" binding:"required" example:"true"`
}

// endregion

// SendFriendRequest godoc
// @Summary      Send a friend request
// @Description  Records a pending friend request and signals the receiver's live connections.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FriendRequestInput true "Receiver"
// @Success      200  {object}  map[string]string "{"message": "Friend request sent"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Receiver not found"
// @Failure      409  {object}  ErrorResponse "Already requested or already friends"
// @Failure      500  {object}  ErrorResponse
// @Router       /friends/request [post]
func SendFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input FriendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	relations := relation.NewService(database.DB)
	err := relations.SendRequest(viewerID.(uint), input.ReceiverID)
	switch {
	case err == nil:
	case errors.Is(err, relation.ErrSelfRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, relation.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, relation.ErrAlreadyRequested), errors.Is(err, relation.ErrAlreadyFriends):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send friend request"})
		return
	}

	notify.NewNotifier(hub.GlobalHub).FriendRequestSent(input.ReceiverID)

	c.JSON(http.StatusOK, gin.H{"message": "Friend request sent"})
}

// RespondFriendRequest godoc
// @Summary      Respond to a friend request
// @Description  Accepts or declines a pending friend request and signals the original sender either way.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FriendResponseInput true "Response"
// @Success      200  {object}  map[string]string "{"message": "Friend request accepted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "No such friend request"
// @Failure      500  {object}  ErrorResponse
// @Router       /friends/respond [post]
func RespondFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input FriendResponseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	relations := relation.NewService(database.DB)
	accepted, err := relations.RespondRequest(viewerID.(uint), input.SenderID, *input.Accept)
	switch {
	case err == nil:
	case errors.Is(err, relation.ErrNoSuchRequest):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to respond to friend request"})
		return
	}

	// The sender is signalled on accept and decline alike; it refetches to
	// learn which.
	notify.NewNotifier(hub.GlobalHub).FriendRequestResponded(input.SenderID)

	if accepted {
		c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "Friend request declined"})
	}
}

// ListFriends godoc
// @Summary      List friends
// @Description  Returns the authenticated user's friends resolved to full records.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   UserSummary
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/me/friends [get]
func ListFriends(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	relations := relation.NewService(database.DB)
	friends, err := relations.Friends(viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	responses := make([]UserSummary, 0, len(friends))
	for _, friend := range friends {
		responses = append(responses, buildUserSummary(friend))
	}

	c.JSON(http.StatusOK, responses)
}
