package models

import (
	"gorm.io/gorm"
)

// Categories a recipe may belong to. Anything else is rejected at the
// controller before it reaches the database.
var Categories = []string{"Breakfast", "Lunch", "Dinner", "Dessert"}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Recipe struct {
	gorm.Model
	Title       string   `gorm:"not null" json:"title"`
	Image       string   `gorm:"not null" json:"image"`
	Ingredients []string `gorm:"serializer:json;not null" json:"ingredients"`
	Steps       []string `gorm:"serializer:json;not null" json:"steps"`
	Category    string   `gorm:"not null" json:"category"`
}
