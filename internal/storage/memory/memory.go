// Package memory implements storage.Store in process memory. It backs the
// local storage driver and the handler tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

type Store struct {
	mu sync.RWMutex

	users    map[string]*models.User
	emails   map[string]string
	sessions map[string]models.Session // refresh token -> session

	// Slices keep insertion order so that "first match" is deterministic.
	lists []*models.List
	tasks []*models.Task
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		emails:   make(map[string]string),
		sessions: make(map[string]models.Session),
	}
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Close() {}

func (s *Store) InsertUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[user.Email]; ok {
		return fmt.Errorf("failed to insert user: %w: email", storage.ErrDuplicate)
	}
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("failed to insert user: %w: id", storage.ErrDuplicate)
	}

	stored := *user
	stored.Sessions = nil
	s.users[user.ID] = &stored
	s.emails[user.Email] = user.ID
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("failed to select user by id: %w", storage.ErrNotFound)
	}

	found := *user
	found.Sessions = slices.Clone(user.Sessions)
	return &found, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, fmt.Errorf("failed to select user by email: %w", storage.ErrNotFound)
	}

	found := *s.users[id]
	found.Sessions = nil
	return &found, nil
}

func (s *Store) InsertSession(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[session.UserID]
	if !ok {
		return fmt.Errorf("failed to insert session: %w", storage.ErrNotFound)
	}
	if _, ok = s.sessions[session.RefreshToken]; ok {
		return fmt.Errorf("failed to insert session: %w: refresh token", storage.ErrDuplicate)
	}

	s.sessions[session.RefreshToken] = *session
	user.Sessions = append(user.Sessions, *session)
	return nil
}

func (s *Store) FindLists(_ context.Context, filter storage.ListFilter) ([]*models.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lists := make([]*models.List, 0)
	for _, list := range s.lists {
		if matchList(list, filter) {
			found := *list
			lists = append(lists, &found)
		}
	}
	return lists, nil
}

func (s *Store) InsertList(_ context.Context, list *models.List) error {
	if strings.TrimSpace(list.Title) == "" {
		return fmt.Errorf("failed to insert list: %w: title is required", storage.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexList(storage.ListFilter{ID: list.ID}) >= 0 {
		return fmt.Errorf("failed to insert list: %w: id", storage.ErrDuplicate)
	}

	stored := *list
	s.lists = append(s.lists, &stored)
	return nil
}

func (s *Store) UpdateList(_ context.Context, filter storage.ListFilter, patch models.ListPatch) (*models.List, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("failed to update list: %w: title is required", storage.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexList(filter)
	if i < 0 {
		return nil, fmt.Errorf("failed to update list: %w", storage.ErrNotFound)
	}

	list := s.lists[i]
	if patch.Title != nil {
		list.Title = *patch.Title
	}
	list.UpdatedAt = time.Now()

	updated := *list
	return &updated, nil
}

func (s *Store) DeleteList(_ context.Context, filter storage.ListFilter) (*models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexList(filter)
	if i < 0 {
		return nil, fmt.Errorf("failed to delete list: %w", storage.ErrNotFound)
	}

	list := s.lists[i]
	s.lists = slices.Delete(s.lists, i, i+1)
	s.tasks = slices.DeleteFunc(s.tasks, func(task *models.Task) bool {
		return task.ListID == list.ID
	})
	return list, nil
}

func (s *Store) FindTasks(_ context.Context, filter storage.TaskFilter) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*models.Task, 0)
	for _, task := range s.tasks {
		if matchTask(task, filter) {
			found := *task
			tasks = append(tasks, &found)
		}
	}
	return tasks, nil
}

func (s *Store) FindTask(_ context.Context, filter storage.TaskFilter) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexTask(filter)
	if i < 0 {
		return nil, fmt.Errorf("failed to select task: %w", storage.ErrNotFound)
	}

	found := *s.tasks[i]
	return &found, nil
}

func (s *Store) InsertTask(_ context.Context, task *models.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("failed to insert task: %w: title is required", storage.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexList(storage.ListFilter{ID: task.ListID}) < 0 {
		return fmt.Errorf("failed to insert task: %w: list does not exist", storage.ErrValidation)
	}
	if s.indexTask(storage.TaskFilter{ID: task.ID}) >= 0 {
		return fmt.Errorf("failed to insert task: %w: id", storage.ErrDuplicate)
	}

	stored := *task
	s.tasks = append(s.tasks, &stored)
	return nil
}

func (s *Store) UpdateTask(_ context.Context, filter storage.TaskFilter, patch models.TaskPatch) (*models.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("failed to update task: %w: title is required", storage.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexTask(filter)
	if i < 0 {
		return nil, fmt.Errorf("failed to update task: %w", storage.ErrNotFound)
	}

	task := s.tasks[i]
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	task.UpdatedAt = time.Now()

	updated := *task
	return &updated, nil
}

func (s *Store) DeleteTask(_ context.Context, filter storage.TaskFilter) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexTask(filter)
	if i < 0 {
		return nil, fmt.Errorf("failed to delete task: %w", storage.ErrNotFound)
	}

	task := s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return task, nil
}

func (s *Store) indexList(filter storage.ListFilter) int {
	return slices.IndexFunc(s.lists, func(list *models.List) bool {
		return matchList(list, filter)
	})
}

func (s *Store) indexTask(filter storage.TaskFilter) int {
	return slices.IndexFunc(s.tasks, func(task *models.Task) bool {
		return matchTask(task, filter)
	})
}

func matchList(list *models.List, filter storage.ListFilter) bool {
	return (filter.ID == "" || list.ID == filter.ID) &&
		(filter.UserID == "" || list.UserID == filter.UserID)
}

func matchTask(task *models.Task, filter storage.TaskFilter) bool {
	return (filter.ID == "" || task.ID == filter.ID) &&
		(filter.ListID == "" || task.ListID == filter.ListID)
}
