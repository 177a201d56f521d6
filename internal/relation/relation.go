// Package relation implements the friend-relation state machine and the
// authorization gate derived from it.
//
// Relations are stored as a single edge record per ordered user pair
// (models.FriendRequest). An accepted edge in either direction means the two
// users are friends, so accepting a request is one row update and the
// friendship can never be half-established.
package relation

import (
	"errors"

	"pingpal/backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrSelfRequest is returned when a user sends a friend request to themselves.
	ErrSelfRequest = errors.New("cannot send a friend request to yourself")

	// ErrAlreadyRequested is returned when an identical request is still pending.
	ErrAlreadyRequested = errors.New("friend request already sent")

	// ErrAlreadyFriends is returned when the two users are already friends.
	ErrAlreadyFriends = errors.New("user is already your friend")

	// ErrNoSuchRequest is returned when responding to a request that does not exist.
	ErrNoSuchRequest = errors.New("no such friend request")

	// ErrUserNotFound is returned when a referenced user does not resolve.
	ErrUserNotFound = errors.New("user not found")
)

// State is the derived relation between an ordered pair of users.
type State int

const (
	Unrelated State = iota
	PendingFromAToB
	PendingFromBToA
	Friends
)

// Service runs relation transitions against the database.
type Service struct {
	db *gorm.DB
}

// NewService creates a relation service on top of the given database handle.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SendRequest records a pending friend request from sender to receiver.
//
// Mutual simultaneous requests are not special-cased: a pending edge in the
// opposite direction does not block this one, the two pending edges are
// independent and whichever acceptance lands first establishes the friendship.
func (s *Service) SendRequest(senderID, receiverID uint) error {
	if senderID == receiverID {
		return ErrSelfRequest
	}

	var receiver models.User
	if err := s.db.First(&receiver, receiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	var existing models.FriendRequest
	err := s.db.Where("from_user_id = ? AND to_user_id = ?", senderID, receiverID).First(&existing).Error
	if err == nil {
		if existing.Status == models.StatusAccepted {
			return ErrAlreadyFriends
		}
		return ErrAlreadyRequested
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// An accepted edge in the opposite direction also means friends.
	var reverse models.FriendRequest
	err = s.db.Where("from_user_id = ? AND to_user_id = ? AND status = ?",
		receiverID, senderID, models.StatusAccepted).First(&reverse).Error
	if err == nil {
		return ErrAlreadyFriends
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	request := models.FriendRequest{
		FromUserID: senderID,
		ToUserID:   receiverID,
		Status:     models.StatusPending,
	}
	return s.db.Create(&request).Error
}

// RespondRequest resolves the pending request from sender to responder.
// Accepting flips the edge to accepted in a single row update; declining
// deletes the edge. Either way the pending request is consumed, so a second
// response to the same request fails with ErrNoSuchRequest.
//
// The accepted return value tells the caller which branch ran, so it can pick
// the notification to emit.
func (s *Service) RespondRequest(responderID, senderID uint, accept bool) (accepted bool, err error) {
	var request models.FriendRequest
	err = s.db.Where("from_user_id = ? AND to_user_id = ? AND status = ?",
		senderID, responderID, models.StatusPending).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNoSuchRequest
		}
		return false, err
	}

	if accept {
		err = s.db.Model(&request).Update("status", models.StatusAccepted).Error
		return err == nil, err
	}

	return false, s.db.Where("from_user_id = ? AND to_user_id = ?",
		senderID, responderID).Delete(&models.FriendRequest{}).Error
}

// Relation reports the derived state for the ordered pair (a, b).
func (s *Service) Relation(aID, bID uint) (State, error) {
	var edges []models.FriendRequest
	err := s.db.Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
		aID, bID, bID, aID).Find(&edges).Error
	if err != nil {
		return Unrelated, err
	}

	for _, edge := range edges {
		if edge.Status == models.StatusAccepted {
			return Friends, nil
		}
	}
	for _, edge := range edges {
		if edge.FromUserID == aID {
			return PendingFromAToB, nil
		}
	}
	if len(edges) > 0 {
		return PendingFromBToA, nil
	}
	return Unrelated, nil
}

// CanMessage is the authorization gate: true iff the two users are friends.
// It re-reads the current relation state on every call, so a change between
// calls takes effect immediately.
func (s *Service) CanMessage(userID, peerID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.FriendRequest{}).
		Where("((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)) AND status = ?",
			userID, peerID, peerID, userID, models.StatusAccepted).
		Count(&count).Error
	return count > 0, err
}

// Friends resolves the user's friends to full records at read time.
// Distinct guards against the double row left by mutually sent and mutually
// accepted requests.
func (s *Service) Friends(userID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Distinct("users.*").
		Joins("JOIN friend_requests ON (friend_requests.from_user_id = users.id AND friend_requests.to_user_id = ?) OR (friend_requests.to_user_id = users.id AND friend_requests.from_user_id = ?)",
			userID, userID).
		Where("friend_requests.status = ?", models.StatusAccepted).
		Find(&users).Error
	return users, err
}

// PendingRequesters resolves the senders of the user's unanswered requests.
// A pending edge whose pair already holds an accepted edge (mutual requests,
// one side accepted) is filtered out at read time: a request cannot coexist
// with an established friendship in anything the user sees.
func (s *Service) PendingRequesters(userID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Joins("JOIN friend_requests ON friend_requests.from_user_id = users.id").
		Where("friend_requests.to_user_id = ? AND friend_requests.status = ?", userID, models.StatusPending).
		Where("NOT EXISTS (SELECT 1 FROM friend_requests accepted WHERE accepted.status = ? AND ((accepted.from_user_id = users.id AND accepted.to_user_id = ?) OR (accepted.from_user_id = ? AND accepted.to_user_id = users.id)))",
			models.StatusAccepted, userID, userID).
		Find(&users).Error
	return users, err
}
