package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

const taskColumns = `id, list_id, title, completed, created_at, updated_at`

func taskConditions(filter storage.TaskFilter) *conditions {
	c := &conditions{}
	c.add("id", filter.ID)
	c.add("list_id", filter.ListID)
	return c
}

func scanTask(row pgx.Row) (*models.Task, error) {
	task := new(models.Task)
	err := row.Scan(
		&task.ID,
		&task.ListID,
		&task.Title,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Store) FindTasks(ctx context.Context, filter storage.TaskFilter) ([]*models.Task, error) {
	c := taskConditions(filter)
	selectTasksQuery := `
SELECT ` + taskColumns + `
FROM tasks ` + c.where() + `
ORDER BY created_at, id
`
	rows, err := s.pool.Query(ctx, selectTasksQuery, c.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) FindTask(ctx context.Context, filter storage.TaskFilter) (*models.Task, error) {
	c := taskConditions(filter)
	selectTaskQuery := `
SELECT ` + taskColumns + `
FROM tasks ` + c.where() + `
ORDER BY created_at, id
LIMIT 1
`
	task, err := scanTask(s.pool.QueryRow(ctx, selectTaskQuery, c.args...))
	if err != nil {
		return nil, fmt.Errorf("failed to select task: %w", mapError(err))
	}
	return task, nil
}

func (s *Store) InsertTask(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   list_id,
                   title,
                   completed,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := s.pool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.ListID,
		task.Title,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", mapError(err))
	}
	return nil
}

func (s *Store) UpdateTask(ctx context.Context, filter storage.TaskFilter, patch models.TaskPatch) (*models.Task, error) {
	c := taskConditions(filter)
	title := c.next(patch.Title)
	completed := c.next(patch.Completed)
	updatedAt := c.next(time.Now())

	updateTaskQuery := `
UPDATE tasks
SET title = COALESCE(` + title + `::text, title),
    completed = COALESCE(` + completed + `::boolean, completed),
    updated_at = ` + updatedAt + `
WHERE id = (SELECT id FROM tasks ` + c.where() + ` ORDER BY created_at, id LIMIT 1)
RETURNING ` + taskColumns + `
`
	task, err := scanTask(s.pool.QueryRow(ctx, updateTaskQuery, c.args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", mapError(err))
	}
	return task, nil
}

func (s *Store) DeleteTask(ctx context.Context, filter storage.TaskFilter) (*models.Task, error) {
	c := taskConditions(filter)
	deleteTaskQuery := `
DELETE FROM tasks
WHERE id = (SELECT id FROM tasks ` + c.where() + ` ORDER BY created_at, id LIMIT 1)
RETURNING ` + taskColumns + `
`
	task, err := scanTask(s.pool.QueryRow(ctx, deleteTaskQuery, c.args...))
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", mapError(err))
	}
	return task, nil
}
