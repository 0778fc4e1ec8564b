package database

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/faqbase/core/internal/config"
	"github.com/faqbase/core/internal/models"
	"github.com/faqbase/core/internal/pkg/treepath"
)

// Connect opens a MySQL connection and optionally runs auto-migration.
func Connect(cfg *config.AppConfig, autoMigrate bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDev() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:               cfg.DSN,
		DefaultStringSize: 191,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if autoMigrate {
		if err := migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return db, nil
}

// migrate runs GORM auto-migration for all models.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserModel{},
		&models.UserSession{},
		&models.CategoryModel{},
		&models.NoteModel{},
	)
}

// Seed ensures the protected root category and the bootstrap admin account
// exist. Safe to run on every startup.
func Seed(db *gorm.DB, cfg *config.AppConfig) error {
	if err := seedRootCategory(db); err != nil {
		return err
	}
	return seedAdmin(db, cfg.Admin.Username, cfg.Admin.Password)
}

func seedRootCategory(db *gorm.DB) error {
	var cat models.CategoryModel
	err := db.First(&cat, "id = ?", models.RootCategoryID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	root, err := treepath.Root(0)
	if err != nil {
		return err
	}
	cat = models.CategoryModel{
		Base:  models.Base{ID: models.RootCategoryID},
		Name:  "General",
		Level: 0,
		Tree:  string(root),
	}
	return db.Create(&cat).Error
}

func seedAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.UserModel{}).Where("level = ?", models.LevelAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.UserModel{
		Username: username,
		Password: string(hash),
		Level:    models.LevelAdmin,
	}
	return db.Create(&admin).Error
}
