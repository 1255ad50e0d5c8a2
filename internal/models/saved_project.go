package models

import "gorm.io/gorm"

// SavedProject records a manager's bookmark of a project. The same
// (project, manager) pair may be saved more than once; duplicates are
// kept as-is, so there is deliberately no unique index here.
type SavedProject struct {
	gorm.Model

	ProjectID uint `gorm:"not null;index"`
	ManagerID uint `gorm:"not null;index"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Manager User    `gorm:"foreignKey:ManagerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
