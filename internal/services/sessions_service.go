package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

type sessionServiceImpl struct {
	logger            zerolog.Logger
	users             storage.UserRepository
	passwords         *PasswordHasher
	jwtIssuer         string
	jwtSigningKey     []byte
	accessTokenTTL    time.Duration
	refreshTokenTTL   time.Duration
	refreshTokenBytes int
	now               func() time.Time
}

type SessionServiceOption func(*sessionServiceImpl)

// WithClock replaces time.Now for issuing and checking tokens.
func WithClock(now func() time.Time) SessionServiceOption {
	return func(s *sessionServiceImpl) {
		s.now = now
	}
}

func NewSessionService(
	logger zerolog.Logger,
	users storage.UserRepository,
	passwords *PasswordHasher,
	jwtIssuer string,
	jwtSigningKey []byte,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
	refreshTokenBytes int,
	opts ...SessionServiceOption,
) SessionService {
	s := &sessionServiceImpl{
		logger:            logger,
		users:             users,
		passwords:         passwords,
		jwtIssuer:         jwtIssuer,
		jwtSigningKey:     jwtSigningKey,
		accessTokenTTL:    accessTokenTTL,
		refreshTokenTTL:   refreshTokenTTL,
		refreshTokenBytes: refreshTokenBytes,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sessionServiceImpl) CreateSession(ctx context.Context, user *models.User) (*models.Session, error) {
	now := s.now()
	session := models.Session{
		UserID:    user.ID,
		ExpiresAt: now.Add(s.refreshTokenTTL),
		CreatedAt: now,
	}

	sessionUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate session uuid")
		return nil, err
	}
	session.ID = sessionUUID.String()

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate refresh token")
		return nil, err
	}
	session.RefreshToken = refreshToken

	err = s.users.InsertSession(ctx, &session)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("user_id", user.ID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to insert session")
		return nil, err
	}
	user.Sessions = append(user.Sessions, session)
	s.logger.Debug().
		Str("session_id", session.ID).
		Time("expires_at", session.ExpiresAt).
		Msg("inserted session")

	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", session.ID).
		Msg("created session")
	return &session, nil
}

func (s *sessionServiceImpl) GenerateAccessAuthToken(user *models.User, sessionID string) (*AccessToken, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(s.accessTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID.String(),
			Issuer:    s.jwtIssuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SessionID: sessionID,
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Time("expires_at", expiresAt).
		Msg("generated access token")

	return &AccessToken{
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *sessionServiceImpl) ParseAccessToken(token string) (*AccessClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&AccessClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrAccessTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrAccessTokenInvalid, err)
	}

	claims, ok := t.Claims.(*AccessClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrAccessTokenInvalid
	}
	return claims, nil
}

func (s *sessionServiceImpl) HasRefreshTokenExpired(expiresAt time.Time) bool {
	return !s.now().Before(expiresAt)
}

func (s *sessionServiceImpl) FindByIDAndToken(ctx context.Context, userID, refreshToken string) (*models.User, error) {
	if userID == "" || refreshToken == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().
				Str("user_id", userID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select user by id")
		return nil, err
	}

	for _, session := range user.Sessions {
		if session.RefreshToken == refreshToken {
			s.logger.Debug().
				Str("user_id", userID).
				Str("session_id", session.ID).
				Msg("found session by refresh token")
			return user, nil
		}
	}

	s.logger.Warn().
		Str("user_id", userID).
		Int("sessions", len(user.Sessions)).
		Msg("refresh token does not belong to user")
	return nil, ErrUserNotFound
}

func (s *sessionServiceImpl) FindByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.passwords.CompareDummy(password)
			s.logger.Warn().
				Str("email", email).
				Msg("user not found")
			return nil, ErrInvalidCredentials
		}

		s.logger.Error().
			Err(err).
			Str("email", email).
			Msg("failed to select user by email")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("selected user")

	match, err := s.passwords.Compare(password, user.PasswordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Warn().
			Str("user_id", user.ID).
			Msg("passwords do not match")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *sessionServiceImpl) generateRefreshToken() (string, error) {
	bytes := make([]byte, s.refreshTokenBytes)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// NormalizeEmail trims and lowercases an email the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
