package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/common"
)

// writeError maps service sentinel errors to HTTP status codes with a JSON
// body of the form {"error": "..."}.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
	case errors.Is(err, common.ErrorUserLimit):
		c.JSON(http.StatusBadRequest, gin.H{"error": "user limit reached"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorNoAttachment):
		c.JSON(http.StatusNotFound, gin.H{"error": "no attached file"})
	case errors.Is(err, common.ErrorFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
	case errors.Is(err, common.ErrorUnsupportedType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported file type"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
