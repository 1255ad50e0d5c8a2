package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hirehub-dev/hirehub/internal/handlers"
	"github.com/hirehub-dev/hirehub/internal/middleware"
	"github.com/hirehub-dev/hirehub/internal/store"
	"github.com/hirehub-dev/hirehub/internal/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(st store.Store, h *handlers.Handler) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := middleware.AuthMiddleware(st)
	managerOnly := middleware.RequireRole(types.RoleManager)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", authed, h.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.GET("/me", authed, h.Me)
		}

		// Submission is open to the world; browsing is for managers.
		api.POST("/projects", h.SubmitProject)
		api.GET("/projects", authed, managerOnly, h.ListProjects)

		api.POST("/saved-projects", authed, managerOnly, h.SaveProject)
		api.GET("/saved-projects", authed, managerOnly, h.ListSavedProjects)

		api.GET("/messages/:project_id", authed, h.ListMessages)

		api.GET("/analytics", authed, managerOnly, h.CandidateRankings)
		api.GET("/analytics/:email", authed, managerOnly, h.CandidateAnalytics)
	}

	return r
}
