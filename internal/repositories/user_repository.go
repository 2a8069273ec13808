package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/signalpanel/auth-service/internal/models"
)

// userRepository implements the user store on MySQL
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// GetByAccount retrieves a user by account
func (r *userRepository) GetByAccount(ctx context.Context, account string) (*models.User, error) {
	query := `
		SELECT id, account, password_hash, token, name, role, state, created_at, updated_at
		FROM users
		WHERE account = ?
		LIMIT 1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, account).Scan(
		&user.ID,
		&user.Account,
		&user.PasswordHash,
		&user.Token,
		&user.Name,
		&user.Role,
		&user.State,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by account", zap.Error(err), zap.String("account", account))
		return nil, fmt.Errorf("%w: get user by account: %v", models.ErrPersistence, err)
	}

	return user, nil
}

// SaveToken overwrites the user's stored token and persists it
func (r *userRepository) SaveToken(ctx context.Context, user *models.User, token string) error {
	query := `UPDATE users SET token = ?, updated_at = ? WHERE id = ?`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, token, now, user.ID)
	if err != nil {
		r.logger.Error("failed to save token", zap.Error(err), zap.Int("userId", user.ID))
		return fmt.Errorf("%w: save token: %v", models.ErrPersistence, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("failed to get rows affected", zap.Error(err))
		return fmt.Errorf("%w: save token: %v", models.ErrPersistence, err)
	}
	if rows == 0 {
		return models.ErrUserNotFound
	}

	user.Token = token
	user.UpdatedAt = now
	return nil
}

// Exists checks if a user with the given account exists
func (r *userRepository) Exists(ctx context.Context, account string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE account = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, account).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check account existence", zap.Error(err), zap.String("account", account))
		return false, fmt.Errorf("%w: check account existence: %v", models.ErrPersistence, err)
	}

	return exists, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (account, password_hash, token, name, role, state)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Account, user.PasswordHash, user.Token, user.Name, user.Role, user.State)
	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err), zap.String("account", user.Account))
		return fmt.Errorf("%w: create user: %v", models.ErrPersistence, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("%w: create user: %v", models.ErrPersistence, err)
	}

	// The table defaults created_at/updated_at to CURRENT_TIMESTAMP;
	// mirror that on the in-memory record so callers can project it.
	now := time.Now()
	user.ID = int(id)
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}
