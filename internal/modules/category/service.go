package category

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/faqbase/core/internal/database"
	"github.com/faqbase/core/internal/models"
	"github.com/faqbase/core/internal/pkg/apperr"
	"github.com/faqbase/core/internal/pkg/treepath"
)

// DeleteMode says what happens to the notes under a deleted category (or a
// deleted user's notes): reassign them or remove them.
type DeleteMode string

const (
	ModeKeep   DeleteMode = "keep"
	ModeDelete DeleteMode = "delete"
)

// ParseDeleteMode validates a client-supplied mode string.
func ParseDeleteMode(raw string) (DeleteMode, error) {
	switch DeleteMode(raw) {
	case ModeKeep, ModeDelete:
		return DeleteMode(raw), nil
	case "":
		return "", apperr.Validation("please choose what to do with existing notes")
	default:
		return "", apperr.Validation("unknown command %q", raw)
	}
}

type CreateCategoryDTO struct {
	Name string `json:"name"`
	// ParentID 0 is the top-level sentinel; nil means no selection was made.
	ParentID *uint `json:"parent_id"`
}

type RenameCategoryDTO struct {
	Name string `json:"name"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns all categories in tree-path order, which is depth-first
// sibling order because the path groups are fixed-width.
func (s *Service) List() ([]models.CategoryModel, error) {
	var cats []models.CategoryModel
	if err := s.db.Order("tree ASC").Find(&cats).Error; err != nil {
		return nil, apperr.Persistence(err)
	}
	return cats, nil
}

// Tree returns the category forest for display.
func (s *Service) Tree() ([]*models.CategoryModel, error) {
	cats, err := s.List()
	if err != nil {
		return nil, err
	}
	return BuildForest(cats)
}

// BuildForest assembles the hierarchy from materialized paths: every
// non-root node hangs under the entry whose path is its own minus the last
// group. A missing parent means the stored set is corrupt.
func BuildForest(cats []models.CategoryModel) ([]*models.CategoryModel, error) {
	nodes := make(map[treepath.Path]*models.CategoryModel, len(cats))
	for i := range cats {
		cats[i].Children = []*models.CategoryModel{}
		nodes[cats[i].Path()] = &cats[i]
	}

	roots := make([]*models.CategoryModel, 0, len(cats))
	for i := range cats {
		node := &cats[i]
		if node.Level == 0 {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[node.Path().Parent()]
		if !ok {
			return nil, apperr.Integrity("category %q has no parent for path %s", node.Name, node.Tree)
		}
		parent.Children = append(parent.Children, node)
	}
	return roots, nil
}

func (s *Service) GetByID(id uint) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category doesn't exist")
		}
		return nil, apperr.Persistence(err)
	}
	return &cat, nil
}

// Create inserts a category under the given parent (0 = top level), assigning
// the next free sibling path.
func (s *Service) Create(dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}
	if dto.ParentID == nil {
		return nil, apperr.Validation("please select one of the options")
	}

	var count int64
	if err := s.db.Model(&models.CategoryModel{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperr.Persistence(err)
	}
	if count > 0 {
		return nil, apperr.Conflict("category named %q already exists", name)
	}

	cat := models.CategoryModel{Name: name}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if *dto.ParentID == 0 {
			path, err := nextTopLevelPath(tx)
			if err != nil {
				return err
			}
			cat.Tree = string(path)
			cat.Level = 0
			return tx.Create(&cat).Error
		}

		var parent models.CategoryModel
		if err := tx.First(&parent, "id = ?", *dto.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("parent category doesn't exist")
			}
			return err
		}

		path, err := nextChildPath(tx, &parent)
		if err != nil {
			return err
		}
		cat.Tree = string(path)
		cat.Level = parent.Level + 1

		if err := tx.Create(&cat).Error; err != nil {
			return err
		}
		return tx.Model(&parent).
			Update("subcategory_count", gorm.Expr("subcategory_count + 1")).Error
	})
	if err != nil {
		return nil, translateWriteErr(err, name)
	}
	return &cat, nil
}

// Rename changes a category's name, keeping its place in the tree.
func (s *Service) Rename(id uint, dto *RenameCategoryDTO) (*models.CategoryModel, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	cat, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	var holder models.CategoryModel
	err = s.db.Select("id").Where("name = ?", name).First(&holder).Error
	if err == nil && holder.ID != id {
		return nil, apperr.Conflict("category %s already exists", name)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence(err)
	}

	if err := s.db.Model(cat).Update("name", name).Error; err != nil {
		return nil, translateWriteErr(err, name)
	}
	cat.Name = name
	return cat, nil
}

// Delete removes a category and its whole subtree. Notes under the subtree
// are either removed (mode delete) or reassigned to the effective parent
// (mode keep): the real parent, or the root category for a top-level node.
func (s *Service) Delete(id uint, mode DeleteMode) error {
	if id == models.RootCategoryID {
		return apperr.Forbidden("this category cannot be deleted")
	}
	if mode != ModeKeep && mode != ModeDelete {
		return apperr.Validation("unknown command %q", string(mode))
	}

	cat, err := s.GetByID(id)
	if err != nil {
		return err
	}

	parent, err := s.effectiveParent(cat)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.CategoryModel{}).
			Where("tree LIKE ?", cat.Tree+"%").
			Pluck("id", &ids).Error; err != nil {
			return err
		}

		switch mode {
		case ModeDelete:
			if err := tx.Where("category_id IN ?", ids).Delete(&models.NoteModel{}).Error; err != nil {
				return err
			}
		case ModeKeep:
			if err := tx.Model(&models.NoteModel{}).
				Where("category_id IN ?", ids).
				Update("category_id", parent.ID).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("id IN ?", ids).Delete(&models.CategoryModel{}).Error; err != nil {
			return err
		}

		// Keep the parent's cached subcategory count truthful.
		if !cat.IsRoot() {
			return tx.Model(&models.CategoryModel{}).
				Where("id = ? AND subcategory_count > 0", parent.ID).
				Update("subcategory_count", gorm.Expr("subcategory_count - 1")).Error
		}
		return nil
	})
	if err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// effectiveParent resolves where kept notes go: the real parent for nested
// categories, the root category for top-level ones.
func (s *Service) effectiveParent(cat *models.CategoryModel) (*models.CategoryModel, error) {
	if cat.IsRoot() {
		return s.GetByID(models.RootCategoryID)
	}

	var parent models.CategoryModel
	if err := s.db.First(&parent, "tree = ?", string(cat.Path().Parent())).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Integrity("category %q has no parent for path %s", cat.Name, cat.Tree)
		}
		return nil, apperr.Persistence(err)
	}
	return &parent, nil
}

// nextTopLevelPath allocates the path following the highest existing
// top-level category.
func nextTopLevelPath(tx *gorm.DB) (treepath.Path, error) {
	var highest string
	err := tx.Model(&models.CategoryModel{}).
		Where("level = 0").
		Order("tree DESC").
		Limit(1).
		Pluck("tree", &highest).Error
	if err != nil {
		return "", err
	}
	if highest == "" {
		// Empty store; the seeded root normally occupies index 0.
		return treepath.Root(0)
	}

	p, err := treepath.Parse(highest)
	if err != nil {
		return "", apperr.Integrity("stored tree path %q is malformed", highest)
	}
	return p.Next()
}

// nextChildPath allocates the path following the parent's highest existing
// subcategory. Suffix 000 is the implied base, so a parent's first child
// carries suffix 001.
func nextChildPath(tx *gorm.DB, parent *models.CategoryModel) (treepath.Path, error) {
	if parent.SubcategoryCount == 0 {
		return parent.Path().FirstChild()
	}

	var highest string
	err := tx.Model(&models.CategoryModel{}).
		Where("tree LIKE ?", parent.Tree+strings.Repeat("_", treepath.GroupWidth)).
		Order("tree DESC").
		Limit(1).
		Pluck("tree", &highest).Error
	if err != nil {
		return "", err
	}
	if highest == "" {
		// Count drifted from reality; fall back to the first slot.
		return parent.Path().FirstChild()
	}

	p, err := treepath.Parse(highest)
	if err != nil {
		return "", apperr.Integrity("stored tree path %q is malformed", highest)
	}
	return p.Next()
}

func translateWriteErr(err error, name string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if database.IsDuplicateKey(err) {
		return apperr.Conflict("category named %q already exists", name)
	}
	return apperr.Persistence(err)
}
