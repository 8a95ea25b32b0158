package middlewares

import (
	"recipebook/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware reads the signed session token from the access_token
// cookie and puts the user id on the context. There is no session store;
// the token is the whole session.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("access_token")
		if err != nil || tokenString == "" {
			c.Error(utils.Unauthorized("Unauthorized"))
			c.Abort()
			return
		}

		userID, err := utils.ParseUserID(tokenString, secret)
		if err != nil {
			c.Error(utils.Unauthorized("Unauthorized"))
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
