package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const userColumns = `id, email, display_name, image_url, password_hash, created_at, updated_at`

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.DisplayName,
		user.ImageURL,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
// Returns storage.ErrNotFound when no user has that email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return getUser(ctx, s.db, "email", email)
}

// GetUserByID retrieves a user by their ID.
// Returns storage.ErrNotFound when the user does not exist.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return getUser(ctx, s.db, "id", id)
}

func (t *sqliteTx) GetUser(id string) (*models.User, error) {
	return getUser(t.ctx, t.q, "id", id)
}

// GetUsers retrieves multiple users by their IDs.
// Users that don't exist are omitted from the result.
func (t *sqliteTx) GetUsers(ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User)
	if len(ids) == 0 {
		return users, nil
	}

	for _, batch := range chunks(ids) {
		if err := t.getUserBatch(users, batch); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (t *sqliteTx) getUserBatch(users map[string]*models.User, ids []string) error {
	rows, err := t.q.QueryContext(t.ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders(len(ids))+`)`,
		stringArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user := &models.User{}
		if err := scanUser(rows, user); err != nil {
			return fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating users: %w", err)
	}
	return nil
}

// getUser looks a user up by a unique column.
func getUser(ctx context.Context, q queryer, column, value string) (*models.User, error) {
	user := &models.User{}
	err := scanUser(q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value), user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return user, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner, user *models.User) error {
	return row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.ImageURL,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}
