package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/devarta/taskboard/config"
	"github.com/devarta/taskboard/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ownerID := seedUser(db, "owner@example.com", hash, "Demo Owner")
	assigneeID := seedUser(db, "assignee@example.com", hash, "Demo Assignee")
	fmt.Printf("seeded users: owner=%s assignee=%s password=%s\n", ownerID, assigneeID, password)

	var projectID string
	if err := db.QueryRow(`
		INSERT INTO projects (owner_id, title, description)
		VALUES ($1, 'Demo Project', 'Seeded project for local development')
		RETURNING id
	`, ownerID).Scan(&projectID); err != nil {
		log.Fatalf("failed to seed project: %v", err)
	}

	var taskID string
	if err := db.QueryRow(`
		INSERT INTO tasks (project_id, title, description, status, priority, assigned_user_id)
		VALUES ($1, 'Write spec', 'Seeded task', 'todo', 'medium', $2)
		RETURNING id
	`, projectID, assigneeID).Scan(&taskID); err != nil {
		log.Fatalf("failed to seed task: %v", err)
	}
	fmt.Printf("seeded project=%s task=%s\n", projectID, taskID)
}

func seedUser(db *sql.DB, email, hash, name string) string {
	var id string
	err := db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	return id
}
