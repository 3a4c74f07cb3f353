// Package postgres implements storage.Store on top of a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/task-manager/internal/storage"
)

type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

// mapError translates driver errors into the storage error taxonomy.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", storage.ErrDuplicate, pgErr.ConstraintName)
		case pgerrcode.CheckViolation,
			pgerrcode.NotNullViolation,
			pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", storage.ErrValidation, pgErr.Message)
		}
	}
	return err
}

type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(column, value string) {
	if value == "" {
		return
	}
	c.args = append(c.args, value)
	c.clauses = append(c.clauses, column+" = $"+strconv.Itoa(len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(c.clauses, " AND ")
}

// next returns the placeholder for an argument appended after the conditions.
func (c *conditions) next(value any) string {
	c.args = append(c.args, value)
	return "$" + strconv.Itoa(len(c.args))
}
