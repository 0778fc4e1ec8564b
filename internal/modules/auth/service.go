package auth

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/faqbase/core/internal/database"
	"github.com/faqbase/core/internal/models"
	"github.com/faqbase/core/internal/pkg/apperr"
	sessionpkg "github.com/faqbase/core/internal/pkg/session"
)

// errBadCredentials deliberately does not reveal which half was wrong.
var errBadCredentials = apperr.Unauthenticated("incorrect username or password")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Register creates a new viewer-level account. The uniqueness pre-check is a
// UX nicety; the unique index on username is the authoritative guard.
func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	username := strings.TrimSpace(dto.Username)
	if username == "" {
		return nil, apperr.Validation("username is required")
	}
	if dto.Password == "" {
		return nil, apperr.Validation("password is required")
	}

	var count int64
	if err := s.db.Model(&models.UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, apperr.Persistence(err)
	}
	if count > 0 {
		return nil, apperr.Conflict("user %s is already registered", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := models.UserModel{Username: username, Password: string(hash), Level: models.LevelViewer}
	if err := s.db.Create(&u).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, apperr.Conflict("user %s is already registered", username)
		}
		return nil, apperr.Persistence(err)
	}
	return &u, nil
}

// Login verifies credentials and issues a session-bound token.
func (s *Service) Login(username, password, ip, ua string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			time.Sleep(3 * time.Second)
			return "", nil, errBadCredentials
		}
		return "", nil, apperr.Persistence(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		time.Sleep(3 * time.Second)
		return "", nil, errBadCredentials
	}

	token, _, err := sessionpkg.Issue(s.db, u.ID, ip, ua, sessionpkg.DefaultTTL)
	if err != nil {
		return "", nil, apperr.Persistence(err)
	}
	return token, &u, nil
}

// Logout revokes the current session.
func (s *Service) Logout(userID uint, sessionID string) error {
	if err := sessionpkg.Revoke(s.db, userID, sessionID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Persistence(err)
	}
	return nil
}

func (s *Service) ListSessions(userID uint) ([]models.UserSession, error) {
	sessions, err := sessionpkg.ListActive(s.db, userID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return sessions, nil
}

func (s *Service) RevokeOtherSessions(userID uint, keepSessionID string) error {
	if err := sessionpkg.RevokeAllExcept(s.db, userID, keepSessionID); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}
