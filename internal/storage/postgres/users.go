package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   email,
                   password_hash,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := s.pool.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", mapError(err))
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{ID: id}

	const selectUserByIDQuery = `
SELECT email,
       password_hash,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	err := s.pool.QueryRow(
		ctx,
		selectUserByIDQuery,
		user.ID,
	).Scan(
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to select user by id: %w", mapError(err))
	}

	const selectSessionsByUserIDQuery = `
SELECT id,
       refresh_token,
       expires_at,
       created_at
FROM sessions
WHERE user_id = $1
ORDER BY created_at, id
`
	rows, err := s.pool.Query(
		ctx,
		selectSessionsByUserIDQuery,
		user.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to select sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		session := models.Session{UserID: user.ID}
		err = rows.Scan(
			&session.ID,
			&session.RefreshToken,
			&session.ExpiresAt,
			&session.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		user.Sessions = append(user.Sessions, session)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over sessions: %w", err)
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{Email: email}

	const selectUserByEmailQuery = `
SELECT id,
       password_hash,
       created_at,
       updated_at
FROM users
WHERE email = $1
`
	err := s.pool.QueryRow(
		ctx,
		selectUserByEmailQuery,
		user.Email,
	).Scan(
		&user.ID,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to select user by email: %w", mapError(err))
	}
	return user, nil
}

func (s *Store) InsertSession(ctx context.Context, session *models.Session) error {
	const insertSessionQuery = `
INSERT INTO sessions (id,
                      user_id,
                      refresh_token,
                      expires_at,
                      created_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := s.pool.Exec(
		ctx,
		insertSessionQuery,
		session.ID,
		session.UserID,
		session.RefreshToken,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("failed to insert session: %w", storage.ErrNotFound)
		}
		return fmt.Errorf("failed to insert session: %w", mapError(err))
	}
	return nil
}
