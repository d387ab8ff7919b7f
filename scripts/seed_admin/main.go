// Command seed_admin creates or updates an admin user. There is no
// self-service registration, so the first account has to be provisioned
// out of band.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/affcms/festival-api/pkg/config"
	"github.com/affcms/festival-api/pkg/database"
)

func main() {
	var (
		email    string
		password string
		fullName string
		role     string
	)

	flag.StringVar(&email, "email", "", "admin email (required)")
	flag.StringVar(&password, "password", "", "admin password (required)")
	flag.StringVar(&fullName, "name", "Festival Admin", "display name")
	flag.StringVar(&role, "role", "ADMIN", "user role (ADMIN or EDITOR)")
	flag.Parse()

	if email == "" || password == "" {
		log.Fatal("both -email and -password are required")
	}
	if role != "ADMIN" && role != "EDITOR" {
		log.Fatalf("unknown role %q", role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	if err := upsertUser(db, email, string(hash), fullName, role); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	log.Printf("user %s is ready", email)
}

func upsertUser(db *sqlx.DB, email, hash, fullName, role string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO users (id, email, password_hash, full_name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, $6, $6)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    full_name = EXCLUDED.full_name,
		    role = EXCLUDED.role,
		    active = true,
		    updated_at = EXCLUDED.updated_at`,
		uuid.NewString(), email, hash, fullName, role, now)
	return err
}
