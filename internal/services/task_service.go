package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskRepository
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskRepository,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
	}
}

func (s *taskServiceImpl) GetTasks(ctx context.Context, listID string) ([]*models.Task, error) {
	tasks, err := s.tasks.FindTasks(ctx, storage.TaskFilter{ListID: listID})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("list_id", listID).
			Msg("failed to select tasks by list id")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("list_id", listID).
		Msg("selected tasks by list id")
	return tasks, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, params TaskParams) (*models.Task, error) {
	task, err := s.tasks.FindTask(ctx, storage.TaskFilter{
		ID:     params.ID,
		ListID: params.ListID,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Str("list_id", params.ListID).
			Msg("failed to select task")
		return nil, translateStoreError(err, ErrTaskNotFound)
	}
	return task, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	now := time.Now()
	task := &models.Task{
		ListID:    params.ListID,
		Title:     params.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	err = s.tasks.InsertTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("list_id", task.ListID).
			Msg("failed to insert task")
		return nil, translateStoreError(err, ErrTaskNotFound)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("list_id", task.ListID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.tasks.UpdateTask(ctx, storage.TaskFilter{
		ID:     params.ID,
		ListID: params.ListID,
	}, params.Patch)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Str("list_id", params.ListID).
			Msg("failed to update task")
		return nil, translateStoreError(err, ErrTaskNotFound)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("list_id", task.ListID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params TaskParams) (*models.Task, error) {
	task, err := s.tasks.DeleteTask(ctx, storage.TaskFilter{
		ID:     params.ID,
		ListID: params.ListID,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Str("list_id", params.ListID).
			Msg("failed to delete task")
		return nil, translateStoreError(err, ErrTaskNotFound)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("list_id", task.ListID).
		Msg("deleted task")
	return task, nil
}
