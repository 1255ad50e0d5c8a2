package store

import (
	"errors"

	"github.com/hirehub-dev/hirehub/internal/models"
)

var (
	// ErrNotFound is returned by lookups whose target does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference is returned when a write would reference an
	// entity that does not exist, before anything is persisted.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrDuplicateEmail is returned when creating a user whose email is
	// already taken.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserFilter selects users by exact match on every set field.
type UserFilter struct {
	ID    *uint
	Email *string
}

// Store is the portal's repository: users, projects, saved-project links
// and messages. Implementations must keep referential integrity and must
// never expose a partially applied write.
type Store interface {
	CreateUser(user *models.User) error
	FindUser(filter UserFilter) (*models.User, error)

	CreateProject(project *models.Project) error
	FindProjectByID(id uint) (*models.Project, error)
	ListProjects() ([]models.Project, error)
	MarkProjectSeen(id uint) error

	CreateSavedProject(saved *models.SavedProject) error
	ListSavedProjectsForManager(managerID uint) ([]models.SavedProject, error)

	CreateMessage(message *models.Message) error
	ListMessagesForProject(projectID uint) ([]models.Message, error)
}
