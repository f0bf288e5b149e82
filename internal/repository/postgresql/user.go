package postgresql

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/repository"
)

type UserRepo struct {
	db db.DB
}

func NewUserRepo(db db.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) CreateUser(ctx context.Context, username, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		"INSERT INTO users (username, password) VALUES ($1, $2)",
		username, string(hashedPassword))
	return err
}

// EnsureUser creates the user unless it already exists. It reports whether a
// user was created.
func (r *UserRepo) EnsureUser(ctx context.Context, username, password string) (bool, error) {
	var count int
	err := r.db.ExecQueryRow(ctx, "SELECT COUNT(*) FROM users WHERE username = $1", username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if err := r.CreateUser(ctx, username, password); err != nil {
		return false, fmt.Errorf("creating user %s: %w", username, err)
	}
	return true, nil
}

// ValidateUser checks the password against the stored bcrypt hash. An unknown
// user is reported as invalid credentials, not as an error.
func (r *UserRepo) ValidateUser(ctx context.Context, username, password string) (bool, error) {
	var user repository.User
	err := r.db.Get(ctx, &user, "SELECT id, username, password, created_at FROM users WHERE username = $1", username)
	if db.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
