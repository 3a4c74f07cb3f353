// Package storage declares the persistence contracts shared by the Postgres
// and in-memory stores.
package storage

import (
	"context"
	"errors"

	"github.com/adanyl0v/task-manager/internal/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate")
	ErrValidation = errors.New("validation failed")
)

type UserRepository interface {
	// InsertUser returns ErrDuplicate if the email is already taken.
	InsertUser(ctx context.Context, user *models.User) error

	// GetUserByID returns the user together with its sessions,
	// oldest first, or ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail returns the user without sessions or ErrNotFound.
	// The email is matched exactly; callers normalize it.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// InsertSession appends a session to its user. It returns ErrNotFound
	// if the user doesn't exist and ErrDuplicate if the refresh token is
	// already in use.
	InsertSession(ctx context.Context, session *models.Session) error
}

// ListFilter selects lists. Empty fields match everything.
type ListFilter struct {
	ID     string
	UserID string
}

type ListRepository interface {
	FindLists(ctx context.Context, filter ListFilter) ([]*models.List, error)

	// InsertList returns ErrValidation if the title is blank.
	InsertList(ctx context.Context, list *models.List) error

	// UpdateList applies the patch to the first matching list and returns
	// it, or ErrNotFound.
	UpdateList(ctx context.Context, filter ListFilter, patch models.ListPatch) (*models.List, error)

	// DeleteList removes the first matching list together with its tasks
	// and returns it, or ErrNotFound.
	DeleteList(ctx context.Context, filter ListFilter) (*models.List, error)
}

// TaskFilter selects tasks. Empty fields match everything.
type TaskFilter struct {
	ID     string
	ListID string
}

type TaskRepository interface {
	FindTasks(ctx context.Context, filter TaskFilter) ([]*models.Task, error)

	// FindTask returns the first matching task or ErrNotFound.
	FindTask(ctx context.Context, filter TaskFilter) (*models.Task, error)

	// InsertTask returns ErrValidation if the title is blank or
	// the list doesn't exist.
	InsertTask(ctx context.Context, task *models.Task) error

	UpdateTask(ctx context.Context, filter TaskFilter, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, filter TaskFilter) (*models.Task, error)
}

type Store interface {
	UserRepository
	ListRepository
	TaskRepository

	Ping(ctx context.Context) error
	Close()
}
