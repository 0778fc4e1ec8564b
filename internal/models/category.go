package models

import "github.com/faqbase/core/internal/pkg/treepath"

// RootCategoryID is the seeded "General" category. It can never be deleted
// and adopts the notes of deleted top-level categories.
const RootCategoryID uint = 1

// CategoryModel is a node of the category hierarchy. Tree is the fixed-width
// materialized path; Level is cached so it never has to be derived in SQL.
type CategoryModel struct {
	Base
	Name             string `json:"name"              gorm:"uniqueIndex;size:191;not null"`
	Level            int    `json:"level"             gorm:"not null"`
	Tree             string `json:"tree"              gorm:"uniqueIndex;size:191;not null"`
	SubcategoryCount int    `json:"subcategory_count" gorm:"not null;default:0"`

	Notes []NoteModel `json:"notes,omitempty" gorm:"foreignKey:CategoryID"`

	// Children is populated when the forest is assembled for display. It is
	// initialized per instance, never shared.
	Children []*CategoryModel `json:"children,omitempty" gorm:"-"`
}

func (CategoryModel) TableName() string { return "categories" }

// Path returns the materialized path as its value type.
func (c *CategoryModel) Path() treepath.Path { return treepath.Path(c.Tree) }

// IsRoot reports whether the category sits at the top level.
func (c *CategoryModel) IsRoot() bool { return c.Level == 0 }
