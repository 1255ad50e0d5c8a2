package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hirehub-dev/hirehub/internal/models"
	"github.com/hirehub-dev/hirehub/internal/store"
	"github.com/hirehub-dev/hirehub/internal/types"
	"github.com/hirehub-dev/hirehub/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// Candidates provisioned implicitly on first submission get this password
// until they register properly.
const defaultCandidatePassword = "defaultCandidatePassword"

type SubmitProjectRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	IndustryRole   string `json:"industry_role" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description" binding:"required"`
	ProjectLink    string `json:"project_link" binding:"required"`
	RepositoryLink string `json:"repository_link"`
}

type SaveProjectRequest struct {
	ProjectID uint `json:"project_id" binding:"required"`
}

// SubmitProject is the one unauthenticated mutation: anyone may submit,
// and an unknown email provisions a candidate account on the spot.
func (h *Handler) SubmitProject(ctx *gin.Context) {
	var req SubmitProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "All required fields must be provided"})
		return
	}

	submitter, err := h.store.FindUser(store.UserFilter{Email: &req.Email})

	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Store error when fetching submitter: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(defaultCandidatePassword), bcrypt.DefaultCost)

		if err != nil {
			log.Printf("Failed to hash password: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		submitter = &models.User{
			Email:        req.Email,
			PasswordHash: string(passwordHash),
			Role:         types.RoleCandidate,
		}

		if err := h.store.CreateUser(submitter); err != nil {
			log.Printf("Failed to create candidate: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	project := models.Project{
		FullName:       req.FullName,
		SubmitterEmail: req.Email,
		IndustryRole:   req.IndustryRole,
		Title:          req.Title,
		Description:    req.Description,
		ProjectLink:    req.ProjectLink,
		RepositoryLink: req.RepositoryLink,
		IsUnseen:       true,
		SubmittedByID:  submitter.ID,
	}

	if err := h.store.CreateProject(&project); err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	log.Printf("Project submitted: %s by %s", project.Title, project.FullName)

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Project submitted",
		"project": h.projectView(project, submitter),
	})
}

// ListProjects returns every submission with the submitter hydrated.
// Manager only (enforced by RequireRole on the route).
func (h *Handler) ListProjects(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := h.store.ListProjects()

	if err != nil {
		log.Printf("Failed to list projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, h.hydrateProject(project))
	}

	log.Printf("Manager %s fetched %d projects", currentUser.Email, len(response))

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) SaveProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SaveProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.store.FindProjectByID(req.ProjectID)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		log.Printf("Store error when fetching project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Saving twice records two bookmarks; duplicates are kept on purpose.
	saved := models.SavedProject{
		ProjectID: project.ID,
		ManagerID: currentUser.ID,
	}

	if err := h.store.CreateSavedProject(&saved); err != nil {
		log.Printf("Failed to save project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.store.MarkProjectSeen(project.ID); err != nil {
		log.Printf("Failed to mark project %d seen: %v", project.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	log.Printf("Project %s saved by manager %s", project.Title, currentUser.Email)

	ctx.JSON(http.StatusCreated, gin.H{"message": "Project saved"})
}

func (h *Handler) ListSavedProjects(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	saved, err := h.store.ListSavedProjectsForManager(currentUser.ID)

	if err != nil {
		log.Printf("Failed to list saved projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.ProjectResponse, 0, len(saved))

	for _, link := range saved {
		project, err := h.store.FindProjectByID(link.ProjectID)
		if err != nil {
			log.Printf("Saved link %d references missing project %d: %v", link.ID, link.ProjectID, err)
			continue
		}
		response = append(response, h.hydrateProject(*project))
	}

	log.Printf("Manager %s fetched %d saved projects", currentUser.Email, len(response))

	ctx.JSON(http.StatusOK, response)
}

// ListMessages returns a room's history with senders hydrated. Any
// authenticated user may read it; an unknown project yields an empty list,
// as the original portal behaved.
func (h *Handler) ListMessages(ctx *gin.Context) {
	projectID, err := strconv.ParseUint(ctx.Param("project_id"), 10, 64)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	messages, err := h.store.ListMessagesForProject(uint(projectID))

	if err != nil {
		log.Printf("Failed to list messages: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.MessageResponse, 0, len(messages))

	for _, message := range messages {
		sender := types.UserView{ID: message.SenderID}
		if user, err := h.store.FindUser(store.UserFilter{ID: &message.SenderID}); err == nil {
			sender = types.UserView{ID: user.ID, Email: user.Email, Role: user.Role}
		}

		response = append(response, types.MessageResponse{
			ID:        message.ID,
			ProjectID: message.ProjectID,
			Body:      message.Body,
			SentAt:    message.SentAt,
			Sender:    sender,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) hydrateProject(project models.Project) types.ProjectResponse {
	var submitter *models.User

	if user, err := h.store.FindUser(store.UserFilter{ID: &project.SubmittedByID}); err == nil {
		submitter = user
	}

	return h.projectView(project, submitter)
}

func (h *Handler) projectView(project models.Project, submitter *models.User) types.ProjectResponse {
	view := types.ProjectResponse{
		ID:             project.ID,
		FullName:       project.FullName,
		SubmitterEmail: project.SubmitterEmail,
		IndustryRole:   project.IndustryRole,
		Title:          project.Title,
		Description:    project.Description,
		ProjectLink:    project.ProjectLink,
		RepositoryLink: project.RepositoryLink,
		SubmittedAt:    project.SubmittedAt,
		IsUnseen:       project.IsUnseen,
	}

	if submitter != nil {
		view.SubmittedBy = types.UserView{
			ID:    submitter.ID,
			Email: submitter.Email,
			Role:  submitter.Role,
		}
	}

	return view
}
