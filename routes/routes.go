package routes

import (
	"recipebook/config"
	"recipebook/controllers"
	"recipebook/middlewares"
	"recipebook/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(cfg *config.Config, db *gorm.DB, store services.ObjectStore, ranker services.RecipeRanker, moderation services.ImageScreener) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.ErrorHandler())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	requireAuth := middlewares.AuthMiddleware([]byte(cfg.JWTSecret))

	authController := controllers.NewAuthController(db, []byte(cfg.JWTSecret))
	userController := controllers.NewUserController(db, store, moderation)
	recipeController := controllers.NewRecipeController(db, store, ranker, moderation)
	saveController := controllers.NewSaveController(db)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authController.Signup)
		auth.POST("/signin", authController.Signin)
		auth.POST("/logout", authController.Logout)
	}

	user := api.Group("/user")
	user.Use(requireAuth)
	{
		user.GET("/", userController.MyProfile)
		user.PUT("/editprofile", userController.EditProfile)
		user.DELETE("/", userController.DeleteProfile)
		user.POST("/upload-profile-picture", userController.UploadProfilePicture)
	}

	recipe := api.Group("/recipe")
	{
		recipe.POST("/add", requireAuth, recipeController.AddRecipe)
		recipe.GET("/search", requireAuth, recipeController.SearchRecipes)
		recipe.GET("/category", recipeController.GetRecipesByCategory)
		recipe.GET("/all", recipeController.GetAllRecipes)
		recipe.GET("/:id", recipeController.GetRecipe)
	}

	api.POST("/save", requireAuth, saveController.SaveRecipe)
	api.POST("/unsave", requireAuth, saveController.UnsaveRecipe)
	api.GET("/saved", requireAuth, saveController.GetSavedRecipes)

	return r
}
