package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccessTokenExpired = errors.New("access token expired")
	ErrAccessTokenInvalid = errors.New("access token invalid")
	ErrListNotFound       = errors.New("list not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrValidation         = errors.New("validation failed")
)

// SessionService mints and validates refresh and access tokens.
type SessionService interface {
	// CreateSession generates a random refresh token, appends a new
	// session expiring after the refresh token TTL to the user's sessions
	// and returns it. The user's Sessions slice is updated in place.
	CreateSession(ctx context.Context, user *models.User) (*models.Session, error)

	// GenerateAccessAuthToken signs a short-lived token bound to the user
	// and, if sessionID isn't empty, to the session. No store is touched.
	GenerateAccessAuthToken(user *models.User, sessionID string) (*AccessToken, error)

	// ParseAccessToken verifies the token signature and expiry. It returns
	// ErrAccessTokenExpired or ErrAccessTokenInvalid.
	ParseAccessToken(token string) (*AccessClaims, error)

	// HasRefreshTokenExpired reports whether expiresAt is not after now.
	HasRefreshTokenExpired(expiresAt time.Time) bool

	// FindByIDAndToken returns the user with the given id if one of its
	// sessions carries the refresh token, expired or not. Otherwise it
	// returns ErrUserNotFound.
	FindByIDAndToken(ctx context.Context, userID, refreshToken string) (*models.User, error)

	// FindByCredentials returns the user with the given email and password.
	// Both an unknown email and a wrong password yield ErrInvalidCredentials.
	FindByCredentials(ctx context.Context, email, password string) (*models.User, error)
}

type AuthService interface {
	// Register saves a new user, opens a session for it and issues
	// an access token, in this order. It returns ErrUserAlreadyExists
	// if the email is taken.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login checks the credentials, opens a new session and issues
	// an access token. It returns ErrInvalidCredentials on mismatch.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)
}

type ListService interface {
	GetLists(ctx context.Context, userID string) ([]*models.List, error)
	// GetList returns ErrListNotFound if the list doesn't exist or
	// is owned by another user.
	GetList(ctx context.Context, params ListParams) (*models.List, error)
	CreateList(ctx context.Context, params CreateListParams) (*models.List, error)
	UpdateList(ctx context.Context, params UpdateListParams) (*models.List, error)
	DeleteList(ctx context.Context, params ListParams) (*models.List, error)
}

type TaskService interface {
	GetTasks(ctx context.Context, listID string) ([]*models.Task, error)
	GetTask(ctx context.Context, params TaskParams) (*models.Task, error)
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	DeleteTask(ctx context.Context, params TaskParams) (*models.Task, error)
}

type Services struct {
	Sessions SessionService
	Auth     AuthService
	Lists    ListService
	Tasks    TaskService
}

type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

type AccessClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid,omitempty"`
}

type RegisterParams struct {
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User         *models.User
	Session      *models.Session
	RefreshToken string
	AccessToken  *AccessToken
}

type ListParams struct {
	ID     string
	UserID string
}

type CreateListParams struct {
	UserID string
	Title  string
}

type UpdateListParams struct {
	ID     string
	UserID string
	Patch  models.ListPatch
}

type TaskParams struct {
	ID     string
	ListID string
}

type CreateTaskParams struct {
	ListID string
	Title  string
}

type UpdateTaskParams struct {
	ID     string
	ListID string
	Patch  models.TaskPatch
}

// translateStoreError maps validation failures onto the service taxonomy and
// replaces a not-found with notFound. Other errors pass through.
func translateStoreError(err, notFound error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return notFound
	case errors.Is(err, storage.ErrValidation):
		return errors.Join(ErrValidation, err)
	default:
		return err
	}
}
