package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	FullName       string `gorm:"not null"`
	SubmitterEmail string `gorm:"not null;index"`
	IndustryRole   string `gorm:"not null"`
	Title          string `gorm:"not null"`
	Description    string `gorm:"not null"`
	ProjectLink    string `gorm:"not null"`
	RepositoryLink string
	SubmittedAt    time.Time `gorm:"not null"`
	IsUnseen       bool      `gorm:"not null;default:true"`
	SubmittedByID  uint      `gorm:"not null;index"`

	// Relationships
	SubmittedBy User      `gorm:"foreignKey:SubmittedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Messages    []Message `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
