package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hdnotes/hd-notes-api/internal/types"
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo is the credential store boundary. All methods map store-level
// failures to the shared error kinds; callers never see pgx errors directly.
type UserRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, name, email string, dateOfBirth time.Time) (*User, error)
	CreateExternalUser(ctx context.Context, name, email, googleID string, dateOfBirth time.Time) (*User, error)
	SetPendingOTP(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) error
	ClearPendingOTP(ctx context.Context, userID uuid.UUID) error
}

type PostgresUserRepo struct {
	db     DB
	logger *slog.Logger
}

func NewPostgresUserRepo(db DB, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{db: db, logger: logger}
}

const userColumns = "id, email, name, date_of_birth, google_id, otp, otp_expires_at, created_at, updated_at"

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.DateOfBirth, &u.GoogleID, &u.OTP, &u.OTPExpiresAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1",
		email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) CreateUser(ctx context.Context, name, email string, dateOfBirth time.Time) (*User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (email, name, date_of_birth)
		 VALUES ($1, $2, $3)
		 RETURNING `+userColumns,
		email, name, dateOfBirth)
	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s: %w", email, types.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) CreateExternalUser(ctx context.Context, name, email, googleID string, dateOfBirth time.Time) (*User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (email, name, date_of_birth, google_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		email, name, dateOfBirth, googleID)
	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s: %w", email, types.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create external user: %w", err)
	}
	return user, nil
}

// SetPendingOTP overwrites any previously pending code. Deliberately a blind
// update: two concurrent issuers race and the last writer's code wins.
func (r *PostgresUserRepo) SetPendingOTP(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE users SET otp = $2, otp_expires_at = $3, updated_at = now() WHERE id = $1",
		userID, code, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set pending OTP: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
	}
	return nil
}

func (r *PostgresUserRepo) ClearPendingOTP(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE users SET otp = NULL, otp_expires_at = NULL, updated_at = now() WHERE id = $1",
		userID)
	if err != nil {
		return fmt.Errorf("failed to clear pending OTP: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
