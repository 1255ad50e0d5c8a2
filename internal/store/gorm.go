package store

import (
	"errors"
	"time"

	"github.com/hirehub-dev/hirehub/internal/models"
	"gorm.io/gorm"
)

// GormStore implements Store on a gorm-managed database. Selected at
// startup when DATABASE_URL is set; the hub and analytics are oblivious
// to which implementation they run on.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateUser(user *models.User) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateEmail
	}

	return s.db.Create(user).Error
}

func (s *GormStore) FindUser(filter UserFilter) (*models.User, error) {
	query := s.db.Model(&models.User{})
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (s *GormStore) CreateProject(project *models.Project) error {
	exists, err := s.exists(&models.User{}, project.SubmittedByID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrInvalidReference
	}

	if project.SubmittedAt.IsZero() {
		project.SubmittedAt = time.Now()
	}

	return s.db.Create(project).Error
}

func (s *GormStore) FindProjectByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &project, nil
}

func (s *GormStore) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Order("id").Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func (s *GormStore) MarkProjectSeen(id uint) error {
	result := s.db.Model(&models.Project{}).Where("id = ?", id).Update("is_unseen", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *GormStore) CreateSavedProject(saved *models.SavedProject) error {
	projectOK, err := s.exists(&models.Project{}, saved.ProjectID)
	if err != nil {
		return err
	}
	managerOK, err := s.exists(&models.User{}, saved.ManagerID)
	if err != nil {
		return err
	}
	if !projectOK || !managerOK {
		return ErrInvalidReference
	}

	return s.db.Create(saved).Error
}

func (s *GormStore) ListSavedProjectsForManager(managerID uint) ([]models.SavedProject, error) {
	var saved []models.SavedProject
	if err := s.db.Where("manager_id = ?", managerID).Order("id").Find(&saved).Error; err != nil {
		return nil, err
	}

	return saved, nil
}

func (s *GormStore) CreateMessage(message *models.Message) error {
	exists, err := s.exists(&models.Project{}, message.ProjectID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrInvalidReference
	}

	if message.SentAt.IsZero() {
		message.SentAt = time.Now()
	}

	return s.db.Create(message).Error
}

func (s *GormStore) ListMessagesForProject(projectID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.Where("project_id = ?", projectID).Order("id").Find(&messages).Error; err != nil {
		return nil, err
	}

	return messages, nil
}

func (s *GormStore) exists(model interface{}, id uint) (bool, error) {
	var count int64
	if err := s.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
