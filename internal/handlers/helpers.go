package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/uuid"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	return userID.(string), nil
}

// parsePathID parses and canonicalizes a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// respondSuccess writes the uniform success envelope.
func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondWithError records the error on the context and stops the chain.
// The ErrorHandler middleware turns it into the failure envelope: AppErrors
// keep their status code, code, and message; anything else becomes a
// generic internal server error.
func respondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
