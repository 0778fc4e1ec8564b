package note

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/faqbase/core/internal/models"
	"github.com/faqbase/core/internal/pkg/apperr"
	"github.com/faqbase/core/internal/pkg/markdown"
	"github.com/faqbase/core/internal/pkg/pagination"
	pkgredis "github.com/faqbase/core/internal/pkg/redis"
	"github.com/faqbase/core/internal/pkg/response"
)

type CreateNoteDTO struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID uint   `json:"category_id"`
}

type UpdateNoteDTO struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID uint   `json:"category_id"`
}

const (
	renderCachePrefix = "faq:note_render:"
	renderCacheTTL    = 15 * time.Minute
)

type Service struct {
	db    *gorm.DB
	cache *pkgredis.Client
}

// NewService builds a note service. cache may be nil; rendering then skips the
// HTML cache.
func NewService(db *gorm.DB, cache *pkgredis.Client) *Service {
	return &Service{db: db, cache: cache}
}

// List returns a page of notes oldest-first, optionally filtered to one
// category. categoryID 0 means no filter.
func (s *Service) List(categoryID uint, q pagination.Query) ([]models.NoteModel, response.Pagination, error) {
	query := s.db.Model(&models.NoteModel{}).
		Preload("Author").Preload("Category").
		Order("created_at ASC")
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var notes []models.NoteModel
	page, err := pagination.Paginate(query, q, &notes)
	if err != nil {
		return nil, response.Pagination{}, apperr.Persistence(err)
	}
	return notes, page, nil
}

func (s *Service) GetByID(id uint) (*models.NoteModel, error) {
	var n models.NoteModel
	if err := s.db.Preload("Author").Preload("Category").First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("note doesn't exist")
		}
		return nil, apperr.Persistence(err)
	}
	return &n, nil
}

// Render returns the note's content as HTML. Rendered output is cached in
// Redis and invalidated on edit.
func (s *Service) Render(ctx context.Context, id uint) (string, error) {
	key := renderCacheKey(id)
	if s.cache != nil {
		if html, err := s.cache.Get(ctx, key); err == nil && html != "" {
			return html, nil
		}
	}

	n, err := s.GetByID(id)
	if err != nil {
		return "", err
	}
	html, err := markdown.Render(n.Content)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "render note content", err)
	}

	if s.cache != nil && html != "" {
		_ = s.cache.Set(ctx, key, html, renderCacheTTL)
	}
	return html, nil
}

func (s *Service) invalidateRenderCache(id uint) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(context.Background(), renderCacheKey(id))
}

func renderCacheKey(id uint) string {
	return renderCachePrefix + strconv.FormatUint(uint64(id), 10)
}

func (s *Service) Create(dto *CreateNoteDTO, author *models.UserModel) (*models.NoteModel, error) {
	if err := s.validate(dto.Title, dto.CategoryID); err != nil {
		return nil, err
	}

	n := models.NoteModel{
		Title:      strings.TrimSpace(dto.Title),
		Content:    dto.Content,
		CategoryID: dto.CategoryID,
		AuthorID:   author.ID,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, apperr.Persistence(err)
	}
	return &n, nil
}

// Update mutates a note. Only the author, or a category manager and above,
// may touch it.
func (s *Service) Update(id uint, dto *UpdateNoteDTO, actor *models.UserModel) (*models.NoteModel, error) {
	n, err := s.authorize(id, actor)
	if err != nil {
		return nil, err
	}
	if err := s.validate(dto.Title, dto.CategoryID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":       strings.TrimSpace(dto.Title),
		"content":     dto.Content,
		"category_id": dto.CategoryID,
	}
	if err := s.db.Model(n).Updates(updates).Error; err != nil {
		return nil, apperr.Persistence(err)
	}
	s.invalidateRenderCache(n.ID)
	return n, nil
}

func (s *Service) Delete(id uint, actor *models.UserModel) error {
	n, err := s.authorize(id, actor)
	if err != nil {
		return err
	}
	if err := s.db.Delete(n).Error; err != nil {
		return apperr.Persistence(err)
	}
	s.invalidateRenderCache(id)
	return nil
}

func (s *Service) authorize(id uint, actor *models.UserModel) (*models.NoteModel, error) {
	n, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageNote(n) {
		return nil, apperr.Forbidden("you can only edit your own notes")
	}
	return n, nil
}

func (s *Service) validate(title string, categoryID uint) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("title is required")
	}
	if categoryID == 0 {
		return apperr.Validation("category is required")
	}

	var count int64
	if err := s.db.Model(&models.CategoryModel{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return apperr.Persistence(err)
	}
	if count == 0 {
		return apperr.Validation("category doesn't exist")
	}
	return nil
}
