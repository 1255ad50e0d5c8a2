package store

import (
	"sync"
	"time"

	"github.com/hirehub-dev/hirehub/internal/models"
)

// MemoryStore keeps everything in process memory behind a single mutex, so
// every mutation is atomic relative to every read. It is the default store
// and the one the hub and analytics tests run against.
type MemoryStore struct {
	mu sync.RWMutex

	users    []models.User
	projects []models.Project
	saved    []models.SavedProject
	messages []models.Message

	nextUserID    uint
	nextProjectID uint
	nextSavedID   uint
	nextMessageID uint

	lastSentAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now()
	s.users = append(s.users, *user)

	return nil
}

func (s *MemoryStore) FindUser(filter UserFilter) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if filter.ID != nil && s.users[i].ID != *filter.ID {
			continue
		}
		if filter.Email != nil && s.users[i].Email != *filter.Email {
			continue
		}
		user := s.users[i]
		return &user, nil
	}

	return nil, ErrNotFound
}

func (s *MemoryStore) CreateProject(project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.userExists(project.SubmittedByID) {
		return ErrInvalidReference
	}

	s.nextProjectID++
	project.ID = s.nextProjectID
	project.CreatedAt = time.Now()
	if project.SubmittedAt.IsZero() {
		project.SubmittedAt = project.CreatedAt
	}
	s.projects = append(s.projects, *project)

	return nil
}

func (s *MemoryStore) FindProjectByID(id uint) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.projects {
		if s.projects[i].ID == id {
			project := s.projects[i]
			return &project, nil
		}
	}

	return nil, ErrNotFound
}

// ListProjects returns a snapshot copy in insertion order.
func (s *MemoryStore) ListProjects() ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]models.Project, len(s.projects))
	copy(projects, s.projects)

	return projects, nil
}

// MarkProjectSeen clears the unseen flag. It never flips it back, so the
// flag transitions true -> false at most once over a project's lifetime.
func (s *MemoryStore) MarkProjectSeen(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i].IsUnseen = false
			return nil
		}
	}

	return ErrNotFound
}

func (s *MemoryStore) CreateSavedProject(saved *models.SavedProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.projectExists(saved.ProjectID) || !s.userExists(saved.ManagerID) {
		return ErrInvalidReference
	}

	// Duplicate (project, manager) pairs are stored as-is.
	s.nextSavedID++
	saved.ID = s.nextSavedID
	saved.CreatedAt = time.Now()
	s.saved = append(s.saved, *saved)

	return nil
}

func (s *MemoryStore) ListSavedProjectsForManager(managerID uint) ([]models.SavedProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var saved []models.SavedProject
	for i := range s.saved {
		if s.saved[i].ManagerID == managerID {
			saved = append(saved, s.saved[i])
		}
	}

	return saved, nil
}

func (s *MemoryStore) CreateMessage(message *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.projectExists(message.ProjectID) {
		return ErrInvalidReference
	}

	s.nextMessageID++
	message.ID = s.nextMessageID
	message.CreatedAt = time.Now()

	// SentAt must be monotonic within a room; since all writes serialize
	// here, keeping it monotonic across the whole store is enough.
	sentAt := time.Now()
	if !sentAt.After(s.lastSentAt) {
		sentAt = s.lastSentAt.Add(time.Nanosecond)
	}
	s.lastSentAt = sentAt
	message.SentAt = sentAt

	s.messages = append(s.messages, *message)

	return nil
}

func (s *MemoryStore) ListMessagesForProject(projectID uint) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []models.Message
	for i := range s.messages {
		if s.messages[i].ProjectID == projectID {
			messages = append(messages, s.messages[i])
		}
	}

	return messages, nil
}

func (s *MemoryStore) userExists(id uint) bool {
	for i := range s.users {
		if s.users[i].ID == id {
			return true
		}
	}
	return false
}

func (s *MemoryStore) projectExists(id uint) bool {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return true
		}
	}
	return false
}
