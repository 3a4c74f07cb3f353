package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/services"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Email: user.Email,
	}
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

func (h *handlerImpl) HandleSignup(c *gin.Context) {
	var req signupRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	result, err := h.auth.Register(c, services.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to sign up")
		if errors.Is(err, services.ErrUserAlreadyExists) {
			abort(c, newBadRequestError(services.ErrUserAlreadyExists.Error()))
			return
		}
		abort(c, newBadRequestError(msgFailedToSignUp))
		return
	}

	h.logger.Info().
		Str("user_id", result.User.ID).
		Msg("signed up")
	writeAuthResult(c, result)
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.logger.Warn().Msg("invalid credentials")
			abort(c, newBadRequestError(services.ErrInvalidCredentials.Error()))
			return
		}
		h.logger.Error().
			Err(err).
			Msg("failed to log in")
		abort(c, newBadRequestError(msgFailedToLogIn))
		return
	}

	h.logger.Info().
		Str("user_id", result.User.ID).
		Msg("logged in")
	writeAuthResult(c, result)
}

// HandleGetAccessToken mints a fresh access token for the session admitted
// by HandleVerifySession.
func (h *handlerImpl) HandleGetAccessToken(c *gin.Context) {
	userValue, exists := c.Get(userCtxKey)
	user, ok := userValue.(*models.User)
	if !exists || !ok {
		h.logger.Error().Msg("no user found in context")
		abort(c, newBadRequestError(msgFailedToIssueToken))
		return
	}

	var sessionID string
	if sessionValue, exists := c.Get(sessionCtxKey); exists {
		if session, ok := sessionValue.(*models.Session); ok {
			sessionID = session.ID
		}
	}

	accessToken, err := h.sessions.GenerateAccessAuthToken(user, sessionID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to generate access token")
		abort(c, newBadRequestError(msgFailedToIssueToken))
		return
	}

	c.Header(accessTokenHeader, accessToken.Token)
	c.JSON(http.StatusOK, accessTokenResponse{AccessToken: accessToken.Token})
}

func writeAuthResult(c *gin.Context, result *services.AuthResult) {
	c.Header(refreshTokenHeader, result.RefreshToken)
	c.Header(accessTokenHeader, result.AccessToken.Token)
	c.JSON(http.StatusOK, newUserResponse(result.User))
}
