package models

import "time"

// SavedRecipe is the bookmark join table. The composite primary key makes
// save/unsave single-statement writes, so two concurrent saves for the same
// user collide on the key instead of overwriting each other's list.
type SavedRecipe struct {
	UserID    uint `gorm:"primaryKey"`
	RecipeID  uint `gorm:"primaryKey"`
	CreatedAt time.Time
}
