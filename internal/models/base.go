package models

import "time"

// Base is the base model for all entities. IDs are plain auto-increment
// integers; deletes are hard deletes so note/category counts stay exact.
type Base struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
}
