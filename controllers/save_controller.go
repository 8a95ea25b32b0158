package controllers

import (
	"errors"
	"net/http"

	"recipebook/models"
	"recipebook/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SaveController struct {
	db *gorm.DB
}

func NewSaveController(db *gorm.DB) *SaveController {
	return &SaveController{db: db}
}

type SaveInput struct {
	RecipeID uint `json:"recipeId"`
}

// SaveRecipe bookmarks a recipe. The write is a single insert against the
// (user_id, recipe_id) primary key, so a concurrent duplicate save loses on
// the key instead of racing the membership check.
func (s *SaveController) SaveRecipe(c *gin.Context) {
	var input SaveInput
	if err := c.ShouldBindJSON(&input); err != nil || input.RecipeID == 0 {
		c.Error(utils.BadRequest("Recipe ID required"))
		return
	}

	userID := c.GetUint("userID")

	if err := s.db.First(&models.Recipe{}, input.RecipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Error(utils.NotFound("Recipe not found"))
			return
		}
		c.Error(err)
		return
	}
	if err := s.db.First(&models.User{}, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Error(utils.NotFound("User not found"))
			return
		}
		c.Error(err)
		return
	}

	saved := models.SavedRecipe{UserID: userID, RecipeID: input.RecipeID}
	if err := s.db.Create(&saved).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.Error(utils.BadRequest("Recipe already saved"))
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Recipe saved"})
}

func (s *SaveController) UnsaveRecipe(c *gin.Context) {
	var input SaveInput
	if err := c.ShouldBindJSON(&input); err != nil || input.RecipeID == 0 {
		c.Error(utils.NotFound("Recipe not saved"))
		return
	}

	res := s.db.Where("user_id = ? AND recipe_id = ?", c.GetUint("userID"), input.RecipeID).
		Delete(&models.SavedRecipe{})
	if res.Error != nil {
		c.Error(res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.Error(utils.NotFound("Recipe not saved"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Recipe unsaved"})
}

// GetSavedRecipes returns the full recipe documents, oldest bookmark first.
func (s *SaveController) GetSavedRecipes(c *gin.Context) {
	var recipes []models.Recipe
	err := s.db.Model(&models.Recipe{}).
		Joins("JOIN saved_recipes ON saved_recipes.recipe_id = recipes.id").
		Where("saved_recipes.user_id = ?", c.GetUint("userID")).
		Order("saved_recipes.created_at ASC").
		Find(&recipes).Error
	if err != nil {
		c.Error(utils.NewHTTPError(http.StatusInternalServerError, "Failed to fetch saved recipes"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": recipes})
}
