package types

import "time"

// UserView is the hydrated form of a user reference: what gets embedded in
// API responses and broadcast frames in place of a raw ID. Never stored.
type UserView struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type ProjectResponse struct {
	ID             uint      `json:"id"`
	FullName       string    `json:"full_name"`
	SubmitterEmail string    `json:"email"`
	IndustryRole   string    `json:"industry_role"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ProjectLink    string    `json:"project_link"`
	RepositoryLink string    `json:"repository_link,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
	IsUnseen       bool      `json:"is_unseen"`
	SubmittedBy    UserView  `json:"submitted_by"`
}

type MessageResponse struct {
	ID        uint      `json:"id"`
	ProjectID uint      `json:"project_id"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
	Sender    UserView  `json:"sender"`
}
