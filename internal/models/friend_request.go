package models

import "time"

// RelationStatus defines the state of the edge between two users.
type RelationStatus string

const (
	// StatusPending means a friend request has been sent but not yet answered.
	StatusPending RelationStatus = "pending"

	// StatusAccepted means the request was accepted and the users are friends.
	// A single accepted edge stands for the friendship in both directions, so
	// the accept transition is one row update and can never leave the
	// friendship half-established.
	StatusAccepted RelationStatus = "accepted"
)

// FriendRequest is the relation edge between two users.
// The primary key is a composite of (FromUserID, ToUserID) to ensure uniqueness.
type FriendRequest struct {
	FromUserID uint           `gorm:"primaryKey"`
	ToUserID   uint           `gorm:"primaryKey"`
	Status     RelationStatus `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Define foreign key relationships
	FromUser User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
