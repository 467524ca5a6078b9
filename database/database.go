package database

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/roomvoice/feedback_backend/models"
)

var DB *gorm.DB

// Connect establishes a connection to the database
func Connect() {
	var err error

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "localhost"
	}

	user := os.Getenv("DB_USER")
	if user == "" {
		user = "postgres"
	}

	password := os.Getenv("DB_PASS")
	if password == "" {
		password = "postgres"
	}

	dbname := os.Getenv("DB_NAME")
	if dbname == "" {
		dbname = "feedback"
	}

	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, password, dbname, port)

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the stores rely on for conflict
	// detection instead of check-then-insert.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	logrus.Info("Database connection established")
}

// Migrate automatically migrates the database schema
func Migrate() {
	if err := DB.AutoMigrate(&models.Admin{}, &models.Location{}, &models.Room{}, &models.Message{}); err != nil {
		logrus.Fatalf("Database migration failed: %v", err)
	}
	logrus.Info("Database migration completed")
}

// SeedAdmins inserts the identities listed in ADMIN_IDS (comma separated
// Telegram user ids) into the allow-list. Existing entries are left alone,
// so the variable is a convenience for first deployment, not the source of
// truth.
func SeedAdmins() {
	raw := os.Getenv("ADMIN_IDS")
	if raw == "" {
		return
	}

	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		admin := models.Admin{Username: id}
		if err := DB.Where("username = ?", id).FirstOrCreate(&admin).Error; err != nil {
			logrus.Warnf("Failed to seed admin %s: %v", id, err)
		}
	}
}
