package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"table-orders/internal/database"
	"table-orders/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a new PostgreSQL auth repository
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetUserByUsername fetches a staff account by its username
func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, database.GetUserByUsernameSQL, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "user", Key: username}
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a staff account and fills in its id and timestamp
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	err := r.db.QueryRow(ctx, database.InsertUserSQL,
		user.Username, user.PasswordHash, user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// ListUsers returns all staff accounts
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, database.ListUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
