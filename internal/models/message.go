package models

import "gorm.io/gorm"

// Message represents a direct message between two friends.
// Messages are append-only: once created they are never edited or deleted,
// and the friendship is checked only at send time.
type Message struct {
	gorm.Model
	SenderID   uint   `gorm:"not null;index"`
	ReceiverID uint   `gorm:"not null;index"`
	Content    string `gorm:"not null"`

	Sender   User `gorm:"foreignKey:SenderID"`
	Receiver User `gorm:"foreignKey:ReceiverID"`
}
