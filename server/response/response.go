package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON renders the uniform response envelope every handler uses.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	errMessage := ""
	if err != nil {
		errMessage = err.Error()
	}

	responsedata := gin.H{
		"message": message,
		"data":    data,
		"errors":  errMessage,
		"status":  http.StatusText(status),
	}

	c.JSON(status, responsedata)
}

// HandleErrors renders a list of validation errors as one bad request.
func HandleErrors(c *gin.Context, errs []error) {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "validation failed",
		"errors":  messages,
		"status":  http.StatusText(http.StatusBadRequest),
	})
}
