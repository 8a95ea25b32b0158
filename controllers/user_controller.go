package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"recipebook/models"
	"recipebook/services"
	"recipebook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserController struct {
	db         *gorm.DB
	store      services.ObjectStore
	moderation services.ImageScreener
}

func NewUserController(db *gorm.DB, store services.ObjectStore, moderation services.ImageScreener) *UserController {
	return &UserController{db: db, store: store, moderation: moderation}
}

func (u *UserController) MyProfile(c *gin.Context) {
	var user models.User
	if err := u.db.First(&user, c.GetUint("userID")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Error(utils.NotFound("User not found"))
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type EditProfileInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	ProfilePic string `json:"profilePic"`
}

func (u *UserController) EditProfile(c *gin.Context) {
	var input EditProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("Invalid request body"))
		return
	}

	updates := map[string]interface{}{}
	if input.Username != "" {
		updates["username"] = input.Username
	}
	if input.ProfilePic != "" {
		updates["profile_pic"] = input.ProfilePic
	}
	if input.Password != "" {
		if len(input.Password) < 8 {
			c.Error(utils.BadRequest("Password must be at least 8 characters"))
			return
		}
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			c.Error(err)
			return
		}
		updates["password"] = hashed
	}

	if len(updates) == 0 {
		c.Error(utils.BadRequest("No fields provided for update"))
		return
	}

	var user models.User
	if err := u.db.First(&user, c.GetUint("userID")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Error(utils.NotFound("User not found"))
			return
		}
		c.Error(err)
		return
	}

	if err := u.db.Model(&user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.Error(utils.NewHTTPError(http.StatusConflict, "Username already taken"))
			return
		}
		c.Error(err)
		return
	}

	if err := u.db.First(&user, user.ID).Error; err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// DeleteProfile removes the account. A persistence failure here propagates
// to the error handler instead of silently succeeding; the cookie is only
// cleared once the delete went through.
func (u *UserController) DeleteProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	err := u.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.SavedRecipe{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Error(utils.NotFound("User not found"))
			return
		}
		c.Error(err)
		return
	}

	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (u *UserController) UploadProfilePicture(c *gin.Context) {
	userID := c.GetUint("userID")

	fileHeader, err := c.FormFile("profilePic")
	if err != nil {
		c.Error(utils.BadRequest("No file uploaded"))
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

	key := fmt.Sprintf("profile-pictures/%d/%s%s", userID, uuid.NewString(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := u.store.Upload(c.Request.Context(), key, contentType, bytes.NewReader(data))
	if err != nil {
		log.Printf("profile picture upload failed: %v", err)
		c.Error(utils.NewHTTPError(http.StatusInternalServerError, "Upload failed"))
		return
	}

	screenImage(c.Request.Context(), u.moderation, data, key)

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Error(utils.NotFound("User not found"))
			return
		}
		c.Error(err)
		return
	}
	if err := u.db.Model(&user).Update("profile_pic", url).Error; err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile picture updated successfully",
		"user":    user,
		"url":     url,
	})
}

// screenImage runs the best-effort moderation pass. Nothing it finds, and
// no failure it hits, changes the outcome of the request.
func screenImage(ctx context.Context, screener services.ImageScreener, image []byte, key string) {
	if screener == nil {
		return
	}
	flagged, err := screener.Screen(ctx, image)
	if err != nil {
		log.Printf("image screening failed for %s: %v", key, err)
		return
	}
	if len(flagged) > 0 {
		log.Printf("image %s flagged for review: %v", key, flagged)
	}
}
