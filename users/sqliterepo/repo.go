// Package sqliterepo implements users.Repo on SQLite via the pure-Go
// modernc driver.
package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "modernc.org/sqlite" // also registers the "sqlite" database/sql driver
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/bookrec/auth-service/internal/autherr"
	"github.com/bookrec/auth-service/users"
)

// Repo is a SQLite-backed user repository.
type Repo struct {
	db *sql.DB
}

var _ users.Repo = (*Repo)(nil)

// Open opens (or creates) the database at path, applies pending
// migrations, and returns a ready repository.
func Open(ctx context.Context, path string) (*Repo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent sign-ups.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repo) Close() error {
	return r.db.Close()
}

const userColumns = `id, subject, username, created_at`

func (r *Repo) GetBySubject(ctx context.Context, subject string) (*users.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE subject = ?`, subject)
	return scanUser(row)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// Create inserts a user row inside a single transaction. The UNIQUE
// constraint on subject is the sole duplicate-registration signal.
func (r *Repo) Create(ctx context.Context, subject string, user users.UserForCreation) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollback(tx)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (subject, username, created_at) VALUES (?, ?, ?)`,
		subject, user.Username, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, autherr.ErrDuplicatedUser
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting user id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

func (r *Repo) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}
	return true, nil
}

func scanUser(row *sql.Row) (*users.User, error) {
	var (
		u         users.User
		createdAt string
	)
	err := row.Scan(&u.ID, &u.Subject, &u.Username, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, autherr.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user row: %w", err)
	}
	if ts, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
		u.CreatedAt = ts
	}
	return &u, nil
}

// isUniqueViolation checks for a SQLite UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// rollback rolls back tx, ignoring errors (tx may already be committed).
func rollback(tx *sql.Tx) { _ = tx.Rollback() }
