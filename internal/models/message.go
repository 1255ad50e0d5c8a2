package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is immutable once created. SentAt is assigned by the store and
// is monotonic within a project room.
type Message struct {
	gorm.Model

	ProjectID uint      `gorm:"not null;index"`
	SenderID  uint      `gorm:"not null"`
	Body      string    `gorm:"not null"`
	SentAt    time.Time `gorm:"not null"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Sender  User    `gorm:"foreignKey:SenderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
