package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Messages returned in the Error field of failed responses.
const (
	msgInvalidRequestBody    = "invalid request body"
	msgMissingSessionHeaders = "refresh token and user id headers are required"
	msgSessionUserNotFound   = "User not found. Make sure that the refresh token and user id are correct"
	msgSessionExpired        = "Refresh token has expired or the session is invalid"
	msgMissingAccessToken    = "access token is required"
	msgInvalidAccessToken    = "access token is invalid or expired"
	msgFailedToIssueToken    = "failed to issue access token"
	msgFailedToSignUp        = "failed to sign up"
	msgFailedToLogIn         = "failed to log in"
	msgStoreFailure          = "failed to access the document store"
)

type apiError struct {
	Code    int    `json:"-"`
	Message string `json:"Error"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, err)
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}
