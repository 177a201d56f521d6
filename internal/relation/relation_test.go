package relation

import (
	"testing"

	"pingpal/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.FriendRequest{}, &models.Message{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestSendRequestCreatesPendingRelation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	require.NoError(t, svc.SendRequest(alice.ID, bob.ID))

	state, err := svc.Relation(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, PendingFromAToB, state)

	state, err = svc.Relation(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, PendingFromBToA, state)

	requesters, err := svc.PendingRequesters(bob.ID)
	require.NoError(t, err)
	require.Len(t, requesters, 1)
	assert.Equal(t, alice.ID, requesters[0].ID)
}

func TestSendRequestTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	require.NoError(t, svc.SendRequest(alice.ID, bob.ID))
	err := svc.SendRequest(alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyRequested)
}

func TestSendRequestToSelfRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")

	err := svc.SendRequest(alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestSendRequestToUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")

	err := svc.SendRequest(alice.ID, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendRequestToExistingFriendConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	require.NoError(t, svc.SendRequest(alice.ID, bob.ID))
	_, err := svc.RespondRequest(bob.ID, alice.ID, true)
	require.NoError(t, err)

	// Both directions are blocked once the edge is accepted.
	assert.ErrorIs(t, svc.SendRequest(alice.ID, bob.ID), ErrAlreadyFriends)
	assert.ErrorIs(t, svc.SendRequest(bob.ID, alice.ID), ErrAlreadyFriends)
}

func TestMutualPendingRequestsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	require.NoError(t, svc.SendRequest(alice.ID, bob.ID))
	require.NoError(t, svc.SendRequest(bob.ID, alice.ID))

	aliceRequesters, err := svc.PendingRequesters(alice.ID)
	require.NoError(t, err)
	bobRequesters, err := svc.PendingRequesters(bob.ID)
	require.NoError(t, err)
	assert.Len(t, aliceRequesters, 1)
	assert.Len(t, bobRequesters, 1)
}

func TestMutualAcceptsYieldSingleFriendship(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	require.NoError(t, svc.SendRequest(alice.ID, bob.ID))
	require.NoError(t, svc.SendRequest(bob.ID, alice.ID))

	_, err := svc.RespondRequest(bob.ID, alice.ID, true)
	require.NoError(t, err)
	_, err = svc.RespondRequest(alice.ID, bob.ID, true)
	require.NoError(t, err)

	friends, err := svc.Friends(alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)

	ok, err := svc.CanMessage(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAcceptedFriendNotListedAsPendingRequester(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	// Mutual requests, then one side accepts. The counterpart pending edge
	// must not resurface bob as a requester once the two are friends.
	require.NoError(t, svc.SendRequest(alice.ID, bob.ID))
	require.NoError(t, svc.SendRequest(bob.ID, alice.ID))

	_, err := svc.RespondRequest(bob.ID, alice.ID, true)
	require.NoError(t, err)

	requesters, err := svc.PendingRequesters(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, requesters)

	friends, err := svc.Friends(alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)
}

func TestAcceptEstablishesFriendship(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	require.NoError(t, svc.SendRequest(alice.ID, bob.ID))

	accepted, err := svc.RespondRequest(bob.ID, alice.ID, true)
	require.NoError(t, err)
	assert.True(t, accepted)

	// Friendship is symmetric.
	for _, pair := range [][2]uint{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		state, err := svc.Relation(pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, Friends, state)
	}

	// The pending request is consumed.
	requesters, err := svc.PendingRequesters(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, requesters)

	friends, err := svc.Friends(alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)
}

func TestDeclineRemovesRequestWithoutFriendship(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	require.NoError(t, svc.SendRequest(alice.ID, bob.ID))

	accepted, err := svc.RespondRequest(bob.ID, alice.ID, false)
	require.NoError(t, err)
	assert.False(t, accepted)

	state, err := svc.Relation(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, Unrelated, state)

	// A second response finds nothing to answer.
	_, err = svc.RespondRequest(bob.ID, alice.ID, false)
	assert.ErrorIs(t, err, ErrNoSuchRequest)
}

func TestRespondToMissingRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := svc.RespondRequest(bob.ID, alice.ID, true)
	assert.ErrorIs(t, err, ErrNoSuchRequest)
}

func TestCanMessageOnlyFriends(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	require.NoError(t, svc.SendRequest(alice.ID, bob.ID))

	ok, err := svc.CanMessage(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok, "a pending request does not permit messaging")

	_, err = svc.RespondRequest(bob.ID, alice.ID, true)
	require.NoError(t, err)

	for _, pair := range [][2]uint{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		ok, err := svc.CanMessage(pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err = svc.CanMessage(alice.ID, carol.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
