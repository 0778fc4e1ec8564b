package user

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/faqbase/core/internal/database"
	"github.com/faqbase/core/internal/models"
	"github.com/faqbase/core/internal/modules/category"
	"github.com/faqbase/core/internal/pkg/apperr"
)

type EditUserDTO struct {
	Username string `json:"username"`
	// Level is a pointer so a missing field is distinguishable from level 0.
	Level    *int   `json:"level"`
	Password string `json:"password"` // rehash only when non-empty
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]models.UserModel, error) {
	var users []models.UserModel
	if err := s.db.Order("username ASC").Find(&users).Error; err != nil {
		return nil, apperr.Persistence(err)
	}
	return users, nil
}

func (s *Service) GetByID(id uint) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user doesn't exist")
		}
		return nil, apperr.Persistence(err)
	}
	return &u, nil
}

// Update edits an account's name and permission level. The password is
// rehashed only when a new one is supplied.
func (s *Service) Update(id uint, dto *EditUserDTO) (*models.UserModel, error) {
	username := strings.TrimSpace(dto.Username)
	if username == "" {
		return nil, apperr.Validation("username is required")
	}
	if dto.Level == nil {
		return nil, apperr.Validation("permission level is required")
	}
	if *dto.Level < models.LevelViewer || *dto.Level > models.LevelAdmin {
		return nil, apperr.Validation("permission level must be between %d and %d", models.LevelViewer, models.LevelAdmin)
	}

	u, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	var holder models.UserModel
	err = s.db.Select("id").Where("username = ?", username).First(&holder).Error
	if err == nil && holder.ID != id {
		return nil, apperr.Conflict("user %s is already registered", username)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence(err)
	}

	updates := map[string]interface{}{
		"username": username,
		"level":    *dto.Level,
	}
	if dto.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hash)
	}

	if err := s.db.Model(u).Updates(updates).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, apperr.Conflict("user %s is already registered", username)
		}
		return nil, apperr.Persistence(err)
	}
	return u, nil
}

// Delete removes an account. The target's notes are handled per mode: keep
// reassigns them to the fallback admin, delete removes them. Deleting your
// own account is blocked so an admin always survives.
func (s *Service) Delete(id uint, actor *models.UserModel, mode category.DeleteMode) error {
	if id == actor.ID {
		return apperr.Forbidden("cannot delete yourself; use another admin account")
	}
	if mode != category.ModeKeep && mode != category.ModeDelete {
		return apperr.Validation("unknown command %q", string(mode))
	}

	target, err := s.GetByID(id)
	if err != nil {
		return err
	}

	fallback, err := s.fallbackAdmin(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		switch mode {
		case category.ModeKeep:
			if err := tx.Model(&models.NoteModel{}).
				Where("author_id = ?", target.ID).
				Update("author_id", fallback.ID).Error; err != nil {
				return err
			}
		case category.ModeDelete:
			if err := tx.Where("author_id = ?", target.ID).Delete(&models.NoteModel{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", target.ID).Delete(&models.UserSession{}).Error; err != nil {
			return err
		}
		return tx.Delete(target).Error
	})
	if err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// fallbackAdmin picks the lowest-id admin other than the target, which keeps
// note reassignment deterministic.
func (s *Service) fallbackAdmin(excludeID uint) (*models.UserModel, error) {
	var admin models.UserModel
	err := s.db.Where("level = ? AND id <> ?", models.LevelAdmin, excludeID).
		Order("id ASC").
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Integrity("no fallback admin available")
		}
		return nil, apperr.Persistence(err)
	}
	return &admin, nil
}
