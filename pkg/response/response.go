package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/enrollhq/registration-api/pkg/errors"
)

// JSON sends a success payload with cache-defeating headers.
func JSON(c *gin.Context, status int, body gin.H) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, body)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, body gin.H) {
	JSON(c, http.StatusCreated, body)
}

// Message responds 200 with a `{message}` body.
func Message(c *gin.Context, message string) {
	JSON(c, http.StatusOK, gin.H{"message": message})
}

// Error maps the error onto the wire contract: the resolved HTTP status and
// an `{error}` body carrying a short human-readable message. Wrapped internal
// detail never reaches the client.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}
