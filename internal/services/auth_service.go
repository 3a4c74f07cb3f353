package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

type authServiceImpl struct {
	logger    zerolog.Logger
	users     storage.UserRepository
	sessions  SessionService
	passwords *PasswordHasher
}

func NewAuthService(
	logger zerolog.Logger,
	users storage.UserRepository,
	sessions SessionService,
	passwords *PasswordHasher,
) AuthService {
	return &authServiceImpl{
		logger:    logger,
		users:     users,
		sessions:  sessions,
		passwords: passwords,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	now := time.Now()
	user := &models.User{
		Email:     NormalizeEmail(params.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	passwordHash, err := s.passwords.Hash(params.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.PasswordHash = passwordHash

	err = s.users.InsertUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("inserted user")

	result, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", result.Session.ID).
		Msg("registered user")
	return result, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	user, err := s.sessions.FindByCredentials(ctx, params.Email, params.Password)
	if err != nil {
		return nil, err
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", result.Session.ID).
		Msg("logged in")
	return result, nil
}

func (s *authServiceImpl) openSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	session, err := s.sessions.CreateSession(ctx, user)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.sessions.GenerateAccessAuthToken(user, session.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}

	return &AuthResult{
		User:         user,
		Session:      session,
		RefreshToken: session.RefreshToken,
		AccessToken:  accessToken,
	}, nil
}
