package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// RespondJSONError writes an AppError as a JSON body for
// script-driven calls; unrecognized errors become a 500.
func RespondJSONError(c *gin.Context, err error) {
	appErr, ok := err.(*AppError)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal server error",
		})
		return
	}

	c.JSON(appErr.Status, gin.H{
		"success": false,
		"error":   appErr.Message,
	})
}
