package middlewares

import (
	"errors"
	"log"
	"net/http"

	"recipebook/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandler is the single place errors become responses. Every error
// maps to the same envelope: {success, statusCode, message}. Errors without
// a status default to 500, and those get logged.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		message := "Internal Server Error"

		var httpErr *utils.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Status
			message = httpErr.Message
		} else {
			log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}

		c.JSON(status, gin.H{
			"success":    false,
			"statusCode": status,
			"message":    message,
		})
	}
}
