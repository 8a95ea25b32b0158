package controllers

import (
	"errors"
	"net/http"

	"recipebook/models"
	"recipebook/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionCookie = "access_token"

// session cookie lifetime in seconds, matching the token's 72h expiry
const sessionMaxAge = 72 * 60 * 60

type AuthController struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewAuthController(db *gorm.DB, jwtSecret []byte) *AuthController {
	return &AuthController{db: db, jwtSecret: jwtSecret}
}

type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthController) Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("All fields are required"))
		return
	}

	if input.Username == "" || input.Email == "" || input.Password == "" {
		c.Error(utils.BadRequest("All fields are required"))
		return
	}
	if len(input.Password) < 8 {
		c.Error(utils.BadRequest("Password must be at least 8 characters"))
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.Error(err)
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashed,
	}

	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.Error(utils.NewHTTPError(http.StatusConflict, "Email or username already taken"))
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"userId":  user.ID,
	})
}

type SigninInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthController) Signin(c *gin.Context) {
	var input SigninInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("All fields are required"))
		return
	}
	if input.Email == "" || input.Password == "" {
		c.Error(utils.BadRequest("All fields are required"))
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Error(utils.NotFound("User not found"))
			return
		}
		c.Error(err)
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		c.Error(utils.BadRequest("Invalid password"))
		return
	}

	token, err := utils.GenerateJWT(user.ID, a.jwtSecret)
	if err != nil {
		c.Error(err)
		return
	}

	c.SetCookie(sessionCookie, token, sessionMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, user)
}

func (a *AuthController) Logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successfully"})
}
