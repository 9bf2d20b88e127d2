package repository

import (
	"context"
	"errors"
	"fmt"

	"sokoni/market/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres unique_violation.
const uniqueViolation = "23505"

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create assigns the user id. A duplicate email yields ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	u.ID = uuid.NewString()
	_, err := r.db.Exec(ctx,
		"INSERT INTO users (id, name, email, phone, password_hash) VALUES ($1, $2, $3, $4, $5)",
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx,
		"SELECT id, name, email, phone, password_hash FROM users WHERE email = $1", email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) CreateSession(ctx context.Context, s *model.Session) error {
	var userID any
	if s.UserID != "" {
		userID = s.UserID
	}
	_, err := r.db.Exec(ctx,
		"INSERT INTO sessions (token, user_id, role, expires_at) VALUES ($1, $2, $3, $4)",
		s.Token, userID, s.Role, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *UserRepository) GetSession(ctx context.Context, token string) (*model.Session, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, model.ErrSessionInvalid
	}
	var s model.Session
	var userID *string
	err := r.db.QueryRow(ctx,
		"SELECT token, user_id, role, expires_at FROM sessions WHERE token = $1", token).
		Scan(&s.Token, &userID, &s.Role, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if userID != nil {
		s.UserID = *userID
	}
	return &s, nil
}
