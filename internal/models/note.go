package models

// NoteModel is a single FAQ entry. Every note lives in exactly one category
// and has exactly one author.
type NoteModel struct {
	Base
	Title      string `json:"title"       gorm:"size:300;not null"`
	Content    string `json:"content"     gorm:"type:longtext"`
	CategoryID uint   `json:"category_id" gorm:"index;not null"`
	AuthorID   uint   `json:"author_id"   gorm:"index;not null"`

	Author   *UserModel     `json:"author,omitempty"   gorm:"foreignKey:AuthorID"`
	Category *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (NoteModel) TableName() string { return "notes" }
