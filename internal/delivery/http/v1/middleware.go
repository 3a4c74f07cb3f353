package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/services"
)

const (
	refreshTokenHeader = "x-refresh-token"
	accessTokenHeader  = "x-access-token"
	userIDHeader       = "_id"
)

const (
	userIDCtxKey       = "user_id"
	userCtxKey         = "user"
	sessionCtxKey      = "session"
	refreshTokenCtxKey = "refresh_token"
)

// HandleVerifySession admits requests carrying a refresh token that belongs
// to an unexpired session of the user named in the _id header.
func (h *handlerImpl) HandleVerifySession(c *gin.Context) {
	refreshToken := c.GetHeader(refreshTokenHeader)
	userID := c.GetHeader(userIDHeader)
	if refreshToken == "" || userID == "" {
		h.logger.Warn().Msg("session headers missing")
		abort(c, newUnauthorizedError(msgMissingSessionHeaders))
		return
	}

	user, err := h.sessions.FindByIDAndToken(c, userID, refreshToken)
	if err != nil {
		if !errors.Is(err, services.ErrUserNotFound) {
			h.logger.Error().
				Err(err).
				Str("user_id", userID).
				Msg("failed to find user by id and token")
		}
		abort(c, newUnauthorizedError(msgSessionUserNotFound))
		return
	}

	// The lookup matched on token presence only; expiry is decided here
	// against the first session carrying the token.
	var session *models.Session
	for i := range user.Sessions {
		if user.Sessions[i].RefreshToken == refreshToken {
			session = &user.Sessions[i]
			break
		}
	}

	if session == nil || h.sessions.HasRefreshTokenExpired(session.ExpiresAt) {
		h.logger.Warn().
			Str("user_id", user.ID).
			Msg("session expired")
		abort(c, newUnauthorizedError(msgSessionExpired))
		return
	}

	c.Set(userIDCtxKey, user.ID)
	c.Set(userCtxKey, user)
	c.Set(sessionCtxKey, session)
	c.Set(refreshTokenCtxKey, refreshToken)
	c.Next()
}

// HandleAuthenticate admits requests carrying a valid access token, either in
// the x-access-token header or as a bearer token.
func (h *handlerImpl) HandleAuthenticate(c *gin.Context) {
	accessToken := c.GetHeader(accessTokenHeader)
	if accessToken == "" {
		const bearerPrefix = "Bearer"
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) == 2 && parts[0] == bearerPrefix {
			accessToken = parts[1]
		}
	}
	if accessToken == "" {
		h.logger.Warn().Msg("access token missing")
		abort(c, newUnauthorizedError(msgMissingAccessToken))
		return
	}

	claims, err := h.sessions.ParseAccessToken(accessToken)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to parse access token")
		abort(c, newUnauthorizedError(msgInvalidAccessToken))
		return
	}

	c.Set(userIDCtxKey, claims.Subject)
	c.Next()
}

// HandleListOwnership rejects task requests addressing a list the caller
// doesn't own.
func (h *handlerImpl) HandleListOwnership(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	_, err := h.lists.GetList(c, services.ListParams{
		ID:     c.Param("listId"),
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrListNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		abort(c, newBadRequestError(msgStoreFailure))
		return
	}
	c.Next()
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}
