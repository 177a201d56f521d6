package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupCreatesUserAndReturnsToken(t *testing.T) {
	router := setupTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "",
		gin.H{"name": "alice", "email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	router := setupTestServer(t)

	input := gin.H{"name": "alice", "email": "alice@example.com", "password": "password123"}
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", input)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", input)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSigninReturnsTokenAndResolvedUser(t *testing.T) {
	router := setupTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "",
		gin.H{"name": "alice", "email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/signin", "",
		gin.H{"email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Token string              `json:"token"`
		User  CurrentUserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "alice", body.User.Name)
	assert.Equal(t, "alice@example.com", body.User.Email)
	assert.Empty(t, body.User.Friends)
	assert.Empty(t, body.User.FriendRequests)
}

func TestSigninUnknownEmailNotFound(t *testing.T) {
	router := setupTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signin", "",
		gin.H{"email": "ghost@example.com", "password": "password123"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSigninWrongPasswordUnauthorized(t *testing.T) {
	router := setupTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "",
		gin.H{"name": "alice", "email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/signin", "",
		gin.H{"email": "alice@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
