package models

import "gorm.io/gorm"

// User represents a registered user in the system.
type User struct {
	gorm.Model
	Name         string `gorm:"size:255;not null;index"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
}
