package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null"`

	// Relationships
	Projects      []Project      `gorm:"foreignKey:SubmittedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	SavedProjects []SavedProject `gorm:"foreignKey:ManagerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Messages      []Message      `gorm:"foreignKey:SenderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
