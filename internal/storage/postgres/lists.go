package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

func listConditions(filter storage.ListFilter) *conditions {
	c := &conditions{}
	c.add("id", filter.ID)
	c.add("user_id", filter.UserID)
	return c
}

func scanList(row pgx.Row) (*models.List, error) {
	list := new(models.List)
	err := row.Scan(
		&list.ID,
		&list.UserID,
		&list.Title,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) FindLists(ctx context.Context, filter storage.ListFilter) ([]*models.List, error) {
	c := listConditions(filter)
	selectListsQuery := `
SELECT id, user_id, title, created_at, updated_at
FROM lists ` + c.where() + `
ORDER BY created_at, id
`
	rows, err := s.pool.Query(ctx, selectListsQuery, c.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select lists: %w", err)
	}
	defer rows.Close()

	lists := make([]*models.List, 0)
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over lists: %w", err)
	}
	return lists, nil
}

func (s *Store) InsertList(ctx context.Context, list *models.List) error {
	const insertListQuery = `
INSERT INTO lists (id,
                   user_id,
                   title,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := s.pool.Exec(
		ctx,
		insertListQuery,
		list.ID,
		list.UserID,
		list.Title,
		list.CreatedAt,
		list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", mapError(err))
	}
	return nil
}

func (s *Store) UpdateList(ctx context.Context, filter storage.ListFilter, patch models.ListPatch) (*models.List, error) {
	c := listConditions(filter)
	title := c.next(patch.Title)
	updatedAt := c.next(time.Now())

	updateListQuery := `
UPDATE lists
SET title = COALESCE(` + title + `::text, title),
    updated_at = ` + updatedAt + `
WHERE id = (SELECT id FROM lists ` + c.where() + ` ORDER BY created_at, id LIMIT 1)
RETURNING id, user_id, title, created_at, updated_at
`
	list, err := scanList(s.pool.QueryRow(ctx, updateListQuery, c.args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update list: %w", mapError(err))
	}
	return list, nil
}

func (s *Store) DeleteList(ctx context.Context, filter storage.ListFilter) (*models.List, error) {
	c := listConditions(filter)

	// Tasks go with the list through ON DELETE CASCADE.
	deleteListQuery := `
DELETE FROM lists
WHERE id = (SELECT id FROM lists ` + c.where() + ` ORDER BY created_at, id LIMIT 1)
RETURNING id, user_id, title, created_at, updated_at
`
	list, err := scanList(s.pool.QueryRow(ctx, deleteListQuery, c.args...))
	if err != nil {
		return nil, fmt.Errorf("failed to delete list: %w", mapError(err))
	}
	return list, nil
}
