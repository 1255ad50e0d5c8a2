package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/hirehub-dev/hirehub/db"
	"github.com/hirehub-dev/hirehub/internal/auth"
	"github.com/hirehub-dev/hirehub/internal/handlers"
	"github.com/hirehub-dev/hirehub/internal/hub"
	"github.com/hirehub-dev/hirehub/internal/metrics"
	"github.com/hirehub-dev/hirehub/internal/models"
	"github.com/hirehub-dev/hirehub/internal/router"
	"github.com/hirehub-dev/hirehub/internal/store"
	"github.com/hirehub-dev/hirehub/internal/types"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	metrics.Register()

	st, err := buildStore()

	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	if err := seedDemoData(st); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	messageHub := hub.New(st, autoReplyDelay())
	h := handlers.New(st, messageHub)
	r := router.NewRouter(st, h)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "5000"
		log.Println("PORT not set, defaulting to 5000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildStore picks postgres when DATABASE_URL is set and the in-memory
// store otherwise.
func buildStore() (store.Store, error) {
	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Println("DATABASE_URL not set, using in-memory store")
		return store.NewMemoryStore(), nil
	}

	conn, err := db.Connect(dsn)

	if err != nil {
		return nil, err
	}

	if err := db.Migrate(conn); err != nil {
		return nil, err
	}

	return store.NewGormStore(conn), nil
}

func autoReplyDelay() time.Duration {
	raw := os.Getenv("AUTO_REPLY_DELAY_MS")

	if raw == "" {
		return hub.DefaultReplyDelay
	}

	ms, err := strconv.Atoi(raw)

	if err != nil || ms <= 0 {
		log.Printf("Invalid AUTO_REPLY_DELAY_MS %q, using default", raw)
		return hub.DefaultReplyDelay
	}

	return time.Duration(ms) * time.Millisecond
}

// seedDemoData provisions a demo manager, candidate and project when the
// store is empty, so the portal is usable out of the box.
func seedDemoData(st store.Store) error {
	projects, err := st.ListProjects()

	if err != nil {
		return err
	}

	if len(projects) > 0 {
		return nil
	}

	managerEmail := "manager@example.com"

	if _, err := st.FindUser(store.UserFilter{Email: &managerEmail}); err == nil {
		return nil
	}

	managerHash, err := bcrypt.GenerateFromPassword([]byte("Hiring2025"), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	manager := models.User{
		Email:        managerEmail,
		PasswordHash: string(managerHash),
		Role:         types.RoleManager,
	}

	if err := st.CreateUser(&manager); err != nil {
		return err
	}

	candidateHash, err := bcrypt.GenerateFromPassword([]byte("defaultCandidatePassword"), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	candidate := models.User{
		Email:        "john@example.com",
		PasswordHash: string(candidateHash),
		Role:         types.RoleCandidate,
	}

	if err := st.CreateUser(&candidate); err != nil {
		return err
	}

	project := models.Project{
		FullName:       "John Doe",
		SubmitterEmail: candidate.Email,
		IndustryRole:   "Software Development",
		Title:          "E-commerce Platform",
		Description:    "A full-stack e-commerce platform built with React and Node.js, featuring user authentication, payment processing, and inventory management.",
		ProjectLink:    "https://github.com/johndoe/ecommerce-platform",
		RepositoryLink: "https://github.com/johndoe",
		IsUnseen:       true,
		SubmittedByID:  candidate.ID,
	}

	if err := st.CreateProject(&project); err != nil {
		return err
	}

	log.Println("Demo data setup complete")

	return nil
}
