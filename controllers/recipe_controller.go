package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"recipebook/models"
	"recipebook/services"
	"recipebook/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RecipeController struct {
	db         *gorm.DB
	store      services.ObjectStore
	ranker     services.RecipeRanker
	moderation services.ImageScreener
}

func NewRecipeController(db *gorm.DB, store services.ObjectStore, ranker services.RecipeRanker, moderation services.ImageScreener) *RecipeController {
	return &RecipeController{db: db, store: store, ranker: ranker, moderation: moderation}
}

// AddRecipe takes a multipart form: an image file plus title, category and
// JSON-encoded ingredients/steps arrays.
func (r *RecipeController) AddRecipe(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.Error(utils.BadRequest("Image file is required"))
		return
	}

	title := c.PostForm("title")
	category := c.PostForm("category")
	if title == "" || category == "" {
		c.Error(utils.BadRequest("Title and category are required"))
		return
	}
	if !models.ValidCategory(category) {
		c.Error(utils.BadRequest("Category must be one of: " + strings.Join(models.Categories, ", ")))
		return
	}

	var ingredients, steps []string
	if err := json.Unmarshal([]byte(c.PostForm("ingredients")), &ingredients); err != nil || len(ingredients) == 0 {
		c.Error(utils.BadRequest("Ingredients must be a non-empty JSON array"))
		return
	}
	if err := json.Unmarshal([]byte(c.PostForm("steps")), &steps); err != nil || len(steps) == 0 {
		c.Error(utils.BadRequest("Steps must be a non-empty JSON array"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Error(err)
		return
	}

	key := fmt.Sprintf("recipes/%d_%s", time.Now().UnixNano(), fileHeader.Filename)
	url, err := r.store.Upload(c.Request.Context(), key, fileHeader.Header.Get("Content-Type"), bytes.NewReader(data))
	if err != nil {
		log.Printf("recipe image upload failed: %v", err)
		c.Error(utils.NewHTTPError(http.StatusInternalServerError, "Upload failed"))
		return
	}

	screenImage(c.Request.Context(), r.moderation, data, key)

	recipe := models.Recipe{
		Title:       title,
		Image:       url,
		Ingredients: ingredients,
		Steps:       steps,
		Category:    category,
	}
	if err := r.db.Create(&recipe).Error; err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe created",
		"recipe":  recipe,
	})
}

// GetRecipesByCategory lists recipes newest first; "All" or an absent
// category means no filter.
func (r *RecipeController) GetRecipesByCategory(c *gin.Context) {
	category := c.Query("category")

	q := r.db.Model(&models.Recipe{}).Order("created_at DESC")
	if category != "" && category != "All" {
		q = q.Where("category = ?", category)
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		c.Error(utils.NewHTTPError(http.StatusInternalServerError, "Failed to fetch recipes by category"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": recipes})
}

func (r *RecipeController) GetAllRecipes(c *gin.Context) {
	var recipes []models.Recipe
	if err := r.db.Order("created_at DESC").Find(&recipes).Error; err != nil {
		c.Error(utils.NewHTTPError(http.StatusInternalServerError, "Failed to fetch all recipes"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": recipes})
}

func (r *RecipeController) GetRecipe(c *gin.Context) {
	var recipe models.Recipe
	if err := r.db.First(&recipe, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Error(utils.NotFound("Recipe not found"))
			return
		}
		c.Error(utils.NewHTTPError(http.StatusInternalServerError, "Failed to fetch recipe"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": recipe})
}

// SearchRecipes finds recipes containing every searched ingredient, then
// asks the ranker to order them. Ranking is best effort: if the model is
// unreachable or replies with something unparsable, the database matches go
// out as-is.
func (r *RecipeController) SearchRecipes(c *gin.Context) {
	var terms []string
	for _, t := range strings.Split(c.Query("ingredient"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		c.Error(utils.BadRequest("Ingredient query missing"))
		return
	}

	q := r.db.Model(&models.Recipe{}).Order("created_at DESC")
	for _, t := range terms {
		q = q.Where("LOWER(ingredients) LIKE ?", "%"+strings.ToLower(t)+"%")
	}

	var matches []models.Recipe
	if err := q.Find(&matches).Error; err != nil {
		c.Error(err)
		return
	}
	if len(matches) == 0 {
		c.Error(utils.NotFound("No recipes found with those ingredients"))
		return
	}

	rankedIDs, err := r.ranker.Rank(c.Request.Context(), terms, matches)
	if err != nil {
		log.Printf("AI ranking failed, returning DB matches directly: %v", err)
		c.JSON(http.StatusOK, gin.H{"results": matches})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": reorderByIDs(matches, rankedIDs)})
}

// reorderByIDs applies the ranked id sequence to the match set. Ids the
// ranker invented are dropped; matches it never mentioned keep their
// database order at the tail, so no result is ever lost to a partial reply.
func reorderByIDs(matches []models.Recipe, ids []uint) []models.Recipe {
	byID := make(map[uint]int, len(matches))
	for i, m := range matches {
		byID[m.ID] = i
	}

	ranked := make([]models.Recipe, 0, len(matches))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if i, ok := byID[id]; ok && !seen[id] {
			ranked = append(ranked, matches[i])
			seen[id] = true
		}
	}
	for _, m := range matches {
		if !seen[m.ID] {
			ranked = append(ranked, m)
		}
	}
	return ranked
}
