package handler

import (
	"net/http"

	"pingpal/backend/internal/database"
	"pingpal/backend/internal/models"
	"pingpal/backend/internal/relation"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// UserSummary is the public view of a user embedded in other responses.
type UserSummary struct {
	ID    uint   `json:"id" example:"1"`
	Name  string `json:"name" example:"testuser"`
	Email string `json:"email" example:"test@example.com"`
}

// CurrentUserResponse is the authenticated user's own state, with friends and
// pending requests resolved to full records at read time.
type CurrentUserResponse struct {
	ID             uint          `json:"id" example:"1"`
	Name           string        `json:"name" example:"testuser"`
	Email          string        `json:"email" example:"test@example.com"`
	Friends        []UserSummary `json:"friends"`
	FriendRequests []UserSummary `json:"friendRequests"`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// endregion

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the authenticated user's profile with resolved friends and pending friend requests.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  CurrentUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	response, err := buildCurrentUserResponse(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user state"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// SearchUsers godoc
// @Summary      Search for users
// @Description  Searches for users by name, case-insensitive substring match, at most 10 results.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q  query     string  true  "Search query for name"
// @Success      200  {array}   UserSummary
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "No users found"
// @Router       /users [get]
func SearchUsers(c *gin.Context) {
	searchQuery := c.Query("q")
	if searchQuery == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	var users []models.User
	if err := database.DB.
		Where("LOWER(name) LIKE LOWER(?)", "%"+searchQuery+"%").
		Limit(10).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	if len(users) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No users found"})
		return
	}

	responses := make([]UserSummary, 0, len(users))
	for _, user := range users {
		responses = append(responses, buildUserSummary(user))
	}

	c.JSON(http.StatusOK, responses)
}

// region --- Helpers ---

func buildUserSummary(user models.User) UserSummary {
	return UserSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func buildCurrentUserResponse(user models.User) (CurrentUserResponse, error) {
	relations := relation.NewService(database.DB)

	friends, err := relations.Friends(user.ID)
	if err != nil {
		return CurrentUserResponse{}, err
	}
	requesters, err := relations.PendingRequesters(user.ID)
	if err != nil {
		return CurrentUserResponse{}, err
	}

	friendSummaries := make([]UserSummary, 0, len(friends))
	for _, friend := range friends {
		friendSummaries = append(friendSummaries, buildUserSummary(friend))
	}
	requestSummaries := make([]UserSummary, 0, len(requesters))
	for _, requester := range requesters {
		requestSummaries = append(requestSummaries, buildUserSummary(requester))
	}

	return CurrentUserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Friends:        friendSummaries,
		FriendRequests: requestSummaries,
	}, nil
}

// endregion
