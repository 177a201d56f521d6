// Package message implements the direct-message delivery pipeline: validate,
// authorize against the relation gate, persist, then push to the receiver's
// live connections.
package message

import (
	"errors"
	"strings"

	"pingpal/backend/internal/hub"
	"pingpal/backend/internal/models"
	"pingpal/backend/internal/relation"

	"gorm.io/gorm"
)

var (
	// ErrEmptyContent is returned when the message body is blank.
	ErrEmptyContent = errors.New("message content must not be empty")

	// ErrSenderNotFound is returned when the sender does not resolve to a user.
	ErrSenderNotFound = errors.New("sender not found")

	// ErrUserNotFound is returned when the viewer of a history fetch does not
	// resolve to a user.
	ErrUserNotFound = errors.New("user not found")

	// ErrNotFriends is returned when the relation does not permit messaging.
	ErrNotFriends = errors.New("can only message friends")
)

// Pipeline persists messages and pushes them to registered channels.
type Pipeline struct {
	db        *gorm.DB
	relations *relation.Service
	hub       *hub.Hub
}

// NewPipeline wires the pipeline to its database, relation gate and hub.
func NewPipeline(db *gorm.DB, relations *relation.Service, h *hub.Hub) *Pipeline {
	return &Pipeline{db: db, relations: relations, hub: h}
}

// Send validates, persists and delivers one message.
//
// Delivery to the receiver is best-effort: if the receiver has no registered
// channel the push is dropped and the receiver catches up on its next history
// fetch. The persisted message is returned so the sender's UI can render it
// without waiting for any push.
func (p *Pipeline) Send(senderID, receiverID uint, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	var sender models.User
	if err := p.db.First(&sender, senderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSenderNotFound
		}
		return nil, err
	}

	ok, err := p.relations.CanMessage(senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFriends
	}

	msg := models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := p.db.Create(&msg).Error; err != nil {
		return nil, err
	}

	p.hub.Deliver(receiverID, "receiveMessage", msg)

	return &msg, nil
}

// History returns the conversation between the viewer and a peer, ordered by
// creation time ascending. The same gate as Send applies, re-checked on every
// call.
func (p *Pipeline) History(viewerID, peerID uint) ([]models.Message, error) {
	var viewer models.User
	if err := p.db.First(&viewer, viewerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ok, err := p.relations.CanMessage(viewerID, peerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFriends
	}

	var messages []models.Message
	err = p.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			viewerID, peerID, peerID, viewerID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}
