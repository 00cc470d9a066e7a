// Command reset-password sets a new password for an existing account and
// invalidates its current session.
package main

import (
	"flag"
	"log"

	"go-pos-checkout/internal/model"
	"go-pos-checkout/internal/repository"
	"go-pos-checkout/pkg/config"
	"go-pos-checkout/pkg/database"

	"github.com/google/uuid"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	email := flag.String("email", "admin@example.com", "account email")
	password := flag.String("password", "", "new password (min 6 characters)")
	flag.Parse()

	if len(*password) < 6 {
		log.Fatal("❌ -password must be at least 6 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	db, err := database.ConnectDB(cfg.DSN(), gormlogger.Warn)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	users := repository.NewUserRepo(db)
	user, err := users.FindByEmail(*email)
	if err != nil {
		log.Fatalf("❌ User %s not found: %v", *email, err)
	}

	var hashed model.User
	if err := hashed.SetPassword(*password); err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}
	if err := users.UpdatePassword(user.ID, hashed.Password); err != nil {
		log.Fatalf("❌ Failed to update password: %v", err)
	}
	if err := users.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
		log.Fatalf("❌ Failed to reset session: %v", err)
	}

	log.Printf("✅ Password for %s has been reset", *email)
}
