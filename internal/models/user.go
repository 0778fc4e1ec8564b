package models

// Permission levels, ascending. Registration always yields a viewer; higher
// levels are granted by an admin.
const (
	LevelViewer          = 1
	LevelContributor     = 2
	LevelCategoryManager = 3
	LevelAdmin           = 4
)

// UserModel is an account that can sign in and, depending on level, author
// notes, manage categories, or administer other accounts.
type UserModel struct {
	Base
	Username string `json:"username" gorm:"uniqueIndex;size:191;not null"`
	Password string `json:"-"        gorm:"not null"` // bcrypt hash
	Level    int    `json:"level"    gorm:"not null;default:1"`

	Notes []NoteModel `json:"notes,omitempty" gorm:"foreignKey:AuthorID"`
}

func (UserModel) TableName() string { return "users" }

// CanManageNote reports whether the user may mutate the given note: its
// author always can, category managers and above can touch anyone's.
func (u *UserModel) CanManageNote(n *NoteModel) bool {
	return u.ID == n.AuthorID || u.Level >= LevelCategoryManager
}
