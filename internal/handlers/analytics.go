package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirehub-dev/hirehub/internal/analytics"
	"github.com/hirehub-dev/hirehub/internal/utils"
)

// CandidateRankings returns the global ranking across every candidate with
// at least one submission. Manager only.
func (h *Handler) CandidateRankings(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := h.store.ListProjects()

	if err != nil {
		log.Printf("Failed to list projects for analytics: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	rankings := analytics.Rankings(projects)

	log.Printf("Manager %s fetched analytics for %d candidates", currentUser.Email, len(rankings))

	ctx.JSON(http.StatusOK, rankings)
}

// CandidateAnalytics returns one candidate's aggregate plus each project
// annotated with its score. 404 when the email has no submissions.
func (h *Handler) CandidateAnalytics(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	email := ctx.Param("email")

	projects, err := h.store.ListProjects()

	if err != nil {
		log.Printf("Failed to list projects for analytics: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	detail, ok := analytics.ForCandidate(projects, email)

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return
	}

	log.Printf("Manager %s fetched analytics for candidate %s", currentUser.Email, email)

	ctx.JSON(http.StatusOK, detail)
}
